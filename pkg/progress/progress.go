// Package progress animates a spinner while a blocking call runs.
//
// The blocking call runs on its own goroutine only so the spinner can
// redraw; Run always joins it before returning, so callers observe a plain
// synchronous call.
package progress

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Runner runs fn to completion, optionally showing feedback titled title.
type Runner interface {
	Run(title string, fn func() error) error
}

// Inline runs fn directly with no feedback.
type Inline struct{}

// Run calls fn
func (Inline) Run(_ string, fn func() error) error {
	return fn()
}

// New returns a Spinner writing to out when out is a terminal and spinners
// are not disabled, and Inline otherwise.
func New(out *os.File, disabled bool) Runner {
	if disabled || out == nil || !term.IsTerminal(int(out.Fd())) {
		return Inline{}
	}
	return &Spinner{Output: out}
}

// Spinner shows a bubbletea spinner while fn runs.
type Spinner struct {
	Output io.Writer
}

// Run starts fn in the background, animates until it returns and yields its error.
func (s *Spinner) Run(title string, fn func() error) error {
	var g errgroup.Group
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return fn()
	})

	prog := tea.NewProgram(newModel(title, done), tea.WithOutput(s.Output), tea.WithInput(nil))
	if _, err := prog.Run(); err != nil {
		// the spinner is cosmetic; fall through and keep waiting
		<-done
	}

	return g.Wait()
}

var titleStyle = lipgloss.NewStyle().Faint(true)

type doneMsg struct{}

type model struct {
	spinner spinner.Model
	title   string
	done    <-chan struct{}
	exiting bool
}

func newModel(title string, done <-chan struct{}) model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return model{spinner: sp, title: title, done: done}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitFor(m.done))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.exiting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.exiting {
		return ""
	}
	return m.spinner.View() + " " + titleStyle.Render(m.title) + "\n"
}

func waitFor(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}
