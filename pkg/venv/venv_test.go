package venv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/robinvandernoord/uvx/pkg/core"
)

type fakeCreator struct {
	calls []string
	err   error
}

func (f *fakeCreator) CreateVenv(ctx context.Context, path string, opts *core.VenvOptions) error {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return f.err
	}
	return os.MkdirAll(filepath.Join(path, "bin"), 0755)
}

func TestCreate(t *testing.T) {
	work := t.TempDir()
	pm := &fakeCreator{}
	p := NewProvisioner(work, pm, nil)

	path, err := p.Create(context.Background(), "black", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if want := filepath.Join(work, "venvs", "black"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if !p.Exists("black") {
		t.Error("Expected venv to exist")
	}
}

func TestCreateRefusesExisting(t *testing.T) {
	pm := &fakeCreator{}
	p := NewProvisioner(t.TempDir(), pm, nil)
	ctx := context.Background()

	if _, err := p.Create(ctx, "black", nil); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(p.Path("black"), "marker")
	os.WriteFile(marker, []byte("x"), 0644)

	_, err := p.Create(ctx, "black", nil)
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}
	if !strings.Contains(err.Error(), "already installed") {
		t.Errorf("Unexpected message: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Error("Existing venv should be left untouched")
	}
	if len(pm.calls) != 1 {
		t.Errorf("CreateVenv calls = %d, want 1", len(pm.calls))
	}

	if _, err := p.Create(ctx, "black", &Options{Force: true}); err != nil {
		t.Errorf("Forced create failed: %v", err)
	}
}

func TestCreateFailureIsEnvironmentError(t *testing.T) {
	p := NewProvisioner(t.TempDir(), &fakeCreator{err: errors.New("no python")}, nil)
	_, err := p.Create(context.Background(), "black", nil)
	if !errors.Is(err, core.ErrEnvironment) {
		t.Errorf("Expected ErrEnvironment, got %v", err)
	}
}

func TestDestroy(t *testing.T) {
	p := NewProvisioner(t.TempDir(), &fakeCreator{}, nil)
	path, err := p.Create(context.Background(), "black", nil)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(path, "bin", "black"), []byte("#!/bin/sh\n"), 0755)

	if err := Destroy(path); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if p.Exists("black") {
		t.Error("Venv still exists")
	}
	if err := Destroy(path); err != nil {
		t.Errorf("Destroy of missing venv should succeed, got %v", err)
	}
}

func TestList(t *testing.T) {
	p := NewProvisioner(t.TempDir(), &fakeCreator{}, nil)

	names, err := p.List()
	if err != nil || len(names) != 0 {
		t.Fatalf("List on empty work dir = %v, %v", names, err)
	}

	ctx := context.Background()
	for _, name := range []string{"ruff", "black", "httpie"} {
		if _, err := p.Create(ctx, name, nil); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(p.VenvsDir(), "stray.txt"), nil, 0644)

	names, err = p.List()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"black", "httpie", "ruff"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}
}

func TestScopeRestoresEnvironment(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("VIRTUAL_ENV", "")
	os.Unsetenv("VIRTUAL_ENV")

	var s Scope
	venv := t.TempDir()

	restore, err := s.Enter(venv)
	if err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("PATH"); !strings.HasPrefix(got, filepath.Join(venv, "bin")+string(os.PathListSeparator)) {
		t.Errorf("PATH = %q", got)
	}
	if got := os.Getenv("VIRTUAL_ENV"); got != venv {
		t.Errorf("VIRTUAL_ENV = %q, want %q", got, venv)
	}

	restore()
	restore()

	if got := os.Getenv("PATH"); got != "/usr/bin" {
		t.Errorf("PATH after restore = %q", got)
	}
	if _, set := os.LookupEnv("VIRTUAL_ENV"); set {
		t.Error("VIRTUAL_ENV should be unset again")
	}
	if s.Depth() != 0 {
		t.Errorf("Depth = %d", s.Depth())
	}
}

func TestScopeNested(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("VIRTUAL_ENV", "/outer")

	var s Scope
	a, b := t.TempDir(), t.TempDir()

	restoreA, _ := s.Enter(a)
	restoreB, _ := s.Enter(b)
	if os.Getenv("VIRTUAL_ENV") != b {
		t.Errorf("Inner scope should win")
	}

	restoreB()
	if os.Getenv("VIRTUAL_ENV") != a {
		t.Errorf("VIRTUAL_ENV after inner restore = %q", os.Getenv("VIRTUAL_ENV"))
	}
	restoreA()
	if os.Getenv("VIRTUAL_ENV") != "/outer" || os.Getenv("PATH") != "/usr/bin" {
		t.Errorf("Environment not restored: PATH=%q VIRTUAL_ENV=%q", os.Getenv("PATH"), os.Getenv("VIRTUAL_ENV"))
	}
}

func TestScopeOutOfOrderPanics(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")

	var s Scope
	restoreA, _ := s.Enter(t.TempDir())
	restoreB, _ := s.Enter(t.TempDir())

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic on out of order restore")
			}
		}()
		restoreA()
	}()

	restoreB()
}

func TestEnviron(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("VIRTUAL_ENV", "/other")

	env := Environ("/work/venvs/black")
	var path, venv string
	count := 0
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			path = kv
		}
		if strings.HasPrefix(kv, "VIRTUAL_ENV=") {
			venv = kv
			count++
		}
	}
	if path != "PATH=/work/venvs/black/bin"+string(os.PathListSeparator)+"/usr/bin" {
		t.Errorf("PATH entry = %q", path)
	}
	if venv != "VIRTUAL_ENV=/work/venvs/black" || count != 1 {
		t.Errorf("VIRTUAL_ENV entry = %q (x%d)", venv, count)
	}
	if os.Getenv("VIRTUAL_ENV") != "/other" {
		t.Error("Environ must not touch the process environment")
	}
}
