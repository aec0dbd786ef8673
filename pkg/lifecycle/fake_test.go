package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/journal"
	"github.com/robinvandernoord/uvx/pkg/spec"
)

// fakePM materialises venvs and scripts on disk instead of running uv.
type fakePM struct {
	latest    map[string]string            // version installed when unconstrained
	scripts   map[string][]string          // console scripts per distribution
	failOn    string                       // spec that makes Install fail
	installed map[string]map[string]string // venv -> distribution -> version
	calls     []string
	outFile   string // where scripts and pass-through commands write
}

func newFakePM(root string) *fakePM {
	return &fakePM{
		latest:    map[string]string{},
		scripts:   map[string][]string{},
		installed: map[string]map[string]string{},
		outFile:   filepath.Join(root, "out.txt"),
	}
}

func (f *fakePM) Name() string { return "fake" }

func (f *fakePM) CreateVenv(ctx context.Context, path string, opts *core.VenvOptions) error {
	f.calls = append(f.calls, "venv "+path)
	if err := os.MkdirAll(filepath.Join(path, "bin"), 0755); err != nil {
		return err
	}
	f.installed[path] = map[string]string{}
	return os.WriteFile(filepath.Join(path, "bin", "python"), []byte("#!/bin/sh\n"), 0755)
}

func (f *fakePM) Install(ctx context.Context, specs []string, opts *core.InstallOptions) error {
	call := "install " + strings.Join(specs, " ")
	if opts != nil && opts.Upgrade {
		call += " --upgrade"
	}
	f.calls = append(f.calls, call)

	venv := os.Getenv("VIRTUAL_ENV")
	if venv == "" {
		return errors.New("no active venv")
	}
	if f.installed[venv] == nil {
		f.installed[venv] = map[string]string{}
	}

	for _, s := range specs {
		if s == f.failOn {
			return fmt.Errorf("no solution found for %s", s)
		}
		parsed, err := spec.Parse(s)
		if err != nil {
			return err
		}

		version := f.latest[parsed.Name]
		if version == "" {
			version = "1.0"
		}
		if strings.HasPrefix(parsed.VersionConstraint, "==") {
			version = strings.TrimPrefix(parsed.VersionConstraint, "==")
		}
		f.installed[venv][parsed.Name] = version

		for _, script := range f.scripts[parsed.Name] {
			path := filepath.Join(venv, "bin", script)
			if err := os.WriteFile(path, []byte(f.scriptBody(script)), 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakePM) scriptBody(script string) string {
	if script == "failing" {
		return "#!/bin/sh\nexit 4\n"
	}
	return "#!/bin/sh\necho \"$0 $@\" > " + f.outFile + "\n"
}

func (f *fakePM) Uninstall(ctx context.Context, packages []string) error {
	f.calls = append(f.calls, "uninstall "+strings.Join(packages, " "))
	venv := os.Getenv("VIRTUAL_ENV")
	for _, p := range packages {
		delete(f.installed[venv], p)
	}
	return nil
}

func (f *fakePM) InstalledVersion(ctx context.Context, venv, pkg string) (string, error) {
	version, ok := f.installed[venv][pkg]
	if !ok {
		return "", fmt.Errorf("%s is not installed", pkg)
	}
	return version, nil
}

func (f *fakePM) PythonVersion(ctx context.Context, venv string) (string, error) {
	return "Python 3.12.1", nil
}

func (f *fakePM) EntryPoints(ctx context.Context, venv, dist string) ([]string, error) {
	if _, ok := f.installed[venv][dist]; !ok {
		return nil, fmt.Errorf("no distribution %s", dist)
	}
	return f.scripts[dist], nil
}

func (f *fakePM) DryRun(ctx context.Context, s string) (*core.DryRunReport, error) {
	return nil, errors.New("not a local package")
}

func (f *fakePM) Command(ctx context.Context, tool string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", `echo "$VIRTUAL_ENV" > "$0"; exit 3`, f.outFile)
}

func (f *fakePM) lastCall() string {
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

type fakeJournal struct {
	events []*journal.Event
}

func (j *fakeJournal) Initialize(ctx context.Context) error { return nil }

func (j *fakeJournal) Record(ctx context.Context, ev *journal.Event) error {
	j.events = append(j.events, ev)
	return nil
}

func (j *fakeJournal) List(ctx context.Context, name string, limit int) ([]*journal.Event, error) {
	return j.events, nil
}

func (j *fakeJournal) Close() error { return nil }

type testEnv struct {
	engine  *Engine
	pm      *fakePM
	journal *fakeJournal
	workDir string
	binDir  string
	stderr  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	pm := newFakePM(root)
	pm.scripts["black"] = []string{"black", "blackd"}

	env := &testEnv{
		pm:      pm,
		journal: &fakeJournal{},
		workDir: filepath.Join(root, "work"),
		binDir:  filepath.Join(root, "bin"),
		stderr:  &bytes.Buffer{},
	}

	e, err := New(&Config{
		WorkDir:        env.workDir,
		BinDir:         env.binDir,
		TempDir:        filepath.Join(root, "tmp"),
		PackageManager: pm,
		Journal:        env.journal,
		Stdin:          strings.NewReader(""),
		Stdout:         &bytes.Buffer{},
		Stderr:         env.stderr,
	})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	env.engine = e
	return env
}

func (env *testEnv) venvPath(name string) string {
	return filepath.Join(env.workDir, "venvs", name)
}

func (env *testEnv) output(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(env.pm.outFile)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	return strings.TrimSpace(string(data))
}
