package selector

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNoSelection is returned when the user quits without choosing
var ErrNoSelection = errors.New("no executable selected")

// Selector picks one of several candidates and returns its index
type Selector interface {
	Select(title string, options []string) (int, error)
}

// First always picks the first option
type First struct{}

// Select returns 0 for a non-empty list
func (First) Select(_ string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoSelection
	}
	return 0, nil
}

// New returns an interactive selector when stdin and stdout are terminals
func New() Selector {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return Interactive{}
	}
	return First{}
}

type item string

func (i item) Title() string       { return string(i) }
func (i item) Description() string { return "" }
func (i item) FilterValue() string { return string(i) }

type model struct {
	list     list.Model
	selected int
	quitting bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.list.SelectedItem() != nil {
				m.selected = m.list.Index()
				return m, tea.Quit
			}
		case "ctrl+n":
			m.list.CursorDown()
		case "ctrl+p":
			m.list.CursorUp()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting || m.selected >= 0 {
		return ""
	}
	help := "\nNavigate: ↑/↓ • Select: Enter • Quit: Esc/q\n"
	return m.list.View() + help
}

func newModel(title string, options []string) model {
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = item(opt)
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false

	l := list.New(items, delegate, 60, min(16, len(items)+6))
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return model{list: l, selected: -1}
}

// Interactive shows a bubbletea list
type Interactive struct{}

// Select runs the list UI until the user picks an option or quits
func (Interactive) Select(title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoSelection
	}

	prog := tea.NewProgram(newModel(title, options))
	final, err := prog.Run()
	if err != nil {
		return -1, fmt.Errorf("failed to run UI: %w", err)
	}

	if m, ok := final.(model); ok && m.selected >= 0 {
		return m.selected, nil
	}
	return -1, ErrNoSelection
}
