package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/venv"
)

// RunOptions configures Run
type RunOptions struct {
	Keep    bool   // Leave the scratch venv in place
	Python  string // Interpreter version or executable
	NoCache bool
	Binary  string // Executable to start instead of the package name
}

// ExitError carries a non-zero exit code of a child process
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ScratchPath returns the scratch venv location Run uses for raw
func (e *Engine) ScratchPath(raw string) string {
	return filepath.Join(e.tempDir, "uvx-"+sanitize(raw))
}

// Run installs raw into a fresh scratch venv and executes one of its
// scripts with args. The scratch venv is removed afterwards unless Keep.
func (e *Engine) Run(ctx context.Context, raw string, args []string, opts *RunOptions) (string, error) {
	if opts == nil {
		opts = &RunOptions{}
	}

	s, err := e.resolver.Resolve(ctx, raw)
	if err != nil {
		return "", err
	}

	scratch := e.ScratchPath(raw)
	if err := venv.Destroy(scratch); err != nil {
		return "", core.Wrap(core.ErrEnvironment, "run", s.Name, err)
	}
	if !opts.Keep {
		defer func() {
			if err := venv.Destroy(scratch); err != nil {
				e.logger.Warn("could not remove scratch venv", "path", scratch, "err", err)
			}
		}()
	}

	if err := e.venvs.CreateAt(ctx, scratch, &venv.Options{Python: opts.Python, Seed: true}); err != nil {
		return "", err
	}
	if opts.Keep {
		fmt.Fprintf(e.stderr, "ℹ️ Using virtualenv %s\n", scratch)
	}

	rec, err := e.installInto(ctx, s, scratch, nil, opts.NoCache)
	if err != nil {
		return "", err
	}

	binary, err := e.pickBinary(ctx, rec.Name, scratch, opts.Binary)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	if err := runChild(cmd); err != nil {
		return "", err
	}
	return "", nil
}

func (e *Engine) pickBinary(ctx context.Context, dist, scratch, requested string) (string, error) {
	bin := venv.BinDir(scratch)

	name := requested
	if name == "" {
		name = dist
	}
	binary := filepath.Join(bin, name)
	if fileExists(binary) {
		return binary, nil
	}

	e.logger.Warnf("Executable '%s' not found, looking for alternatives.", binary)

	candidates := []string{}
	for _, script := range e.links.Discover(ctx, dist, scratch) {
		if fileExists(filepath.Join(bin, script)) {
			candidates = append(candidates, script)
		}
	}

	switch len(candidates) {
	case 0:
		return "", core.Errorf(core.ErrState, "run", dist, "no alternative executables could be found")
	case 1:
		return filepath.Join(bin, candidates[0]), nil
	}

	idx, err := e.selector.Select("Multiple executables found. Please choose one:", candidates)
	if err != nil {
		return "", core.Wrap(core.ErrState, "run", dist, err)
	}
	return filepath.Join(bin, candidates[idx]), nil
}

// Exec runs a pass-through tool (uv, pip, python) inside the venv of name
// and returns its exit code.
func (e *Engine) Exec(ctx context.Context, name, tool string, args []string) (int, error) {
	path, err := e.requireVenv(name, fmt.Sprintf("No virtualenv for '%s'", name))
	if err != nil {
		return 1, err
	}

	err = e.scoped(path, func() error {
		cmd := e.pm.Command(ctx, tool, args...)
		cmd.Stdin = e.stdin
		cmd.Stdout = e.stdout
		cmd.Stderr = e.stderr
		return runChild(cmd)
	})

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, nil
	}
	if err != nil {
		return 1, err
	}
	return 0, nil
}

// runChild runs cmd, turning a non-zero exit into *ExitError
func runChild(cmd *exec.Cmd) error {
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	if err != nil {
		return core.Wrap(core.ErrEnvironment, "exec", filepath.Base(cmd.Path), err)
	}
	return nil
}

func sanitize(raw string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':', '"', '\'', '*', '?':
			return '_'
		}
		return r
	}, raw)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
