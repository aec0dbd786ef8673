package symlinks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type fakeEntryPoints struct {
	scripts []string
	err     error
}

func (f *fakeEntryPoints) EntryPoints(ctx context.Context, venv, dist string) ([]string, error) {
	return f.scripts, f.err
}

// setup creates a work dir with venv "black" holding the given scripts.
func setup(t *testing.T, scripts ...string) (*Reconciler, string) {
	t.Helper()
	root := t.TempDir()
	work := filepath.Join(root, "work")
	venv := filepath.Join(work, "venvs", "black")
	if err := os.MkdirAll(filepath.Join(venv, "bin"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, s := range scripts {
		if err := os.WriteFile(filepath.Join(venv, "bin", s), []byte("#!/bin/sh\n"), 0755); err != nil {
			t.Fatal(err)
		}
	}
	r := &Reconciler{
		BinDir:  filepath.Join(root, "bin"),
		WorkDir: work,
		PM:      &fakeEntryPoints{scripts: scripts},
	}
	return r, venv
}

func TestInstallAndCheck(t *testing.T) {
	r, venv := setup(t, "black", "blackd")

	got := r.Install(context.Background(), "black", venv, false)
	if want := map[string]bool{"black": true, "blackd": true}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Install = %v, want %v", got, want)
	}

	target, err := os.Readlink(r.Path("black"))
	if err != nil {
		t.Fatal(err)
	}
	if target != filepath.Join(venv, "bin", "black") {
		t.Errorf("Link target = %q", target)
	}

	if !r.Check("black", "black") {
		t.Error("Expected link to be owned by black")
	}
	if r.Check("black", "ruff") {
		t.Error("Link should not be owned by another venv")
	}
	if r.Check("missing", "black") {
		t.Error("Missing link should be invalid")
	}
}

func TestInstallSkipsExisting(t *testing.T) {
	r, venv := setup(t, "black")
	os.MkdirAll(r.BinDir, 0755)
	os.WriteFile(r.Path("black"), []byte("foreign"), 0755)

	got := r.Install(context.Background(), "black", venv, false)
	if got["black"] {
		t.Error("Existing script must not be overwritten without force")
	}
	data, _ := os.ReadFile(r.Path("black"))
	if string(data) != "foreign" {
		t.Error("Existing script was modified")
	}
	if r.Check("black", "black") {
		t.Error("Regular file should not validate as a link")
	}

	got = r.Install(context.Background(), "black", venv, true)
	if !got["black"] || !r.Check("black", "black") {
		t.Errorf("Forced install should replace the script, got %v", got)
	}
}

func TestInstallSkipsDanglingWithoutForce(t *testing.T) {
	r, venv := setup(t, "black")
	os.MkdirAll(r.BinDir, 0755)
	os.Symlink(filepath.Join(t.TempDir(), "gone"), r.Path("black"))

	if got := r.Install(context.Background(), "black", venv, false); got["black"] {
		t.Error("A dangling link still counts as existing")
	}
}

func TestInstallMissingSource(t *testing.T) {
	r, venv := setup(t)
	r.PM = &fakeEntryPoints{scripts: []string{"ghost"}}

	got := r.Install(context.Background(), "black", venv, false)
	if got["ghost"] {
		t.Error("Missing source script should be skipped")
	}
	if _, err := os.Lstat(r.Path("ghost")); !os.IsNotExist(err) {
		t.Error("No link should be created for a missing script")
	}
}

func TestDiscoverErrorIsEmpty(t *testing.T) {
	r, venv := setup(t)
	r.PM = &fakeEntryPoints{err: errors.New("no such distribution")}

	if got := r.Discover(context.Background(), "black", venv); len(got) != 0 {
		t.Errorf("Discover = %v, want empty", got)
	}
	if got := r.Install(context.Background(), "black", venv, false); len(got) != 0 {
		t.Errorf("Install = %v, want empty", got)
	}
}

func TestStaleLinkAfterVenvRecreation(t *testing.T) {
	r, venv := setup(t, "black")
	r.Install(context.Background(), "black", venv, false)

	if err := os.RemoveAll(venv); err != nil {
		t.Fatal(err)
	}
	os.MkdirAll(filepath.Join(venv, "bin"), 0755)

	if got := r.CheckAll([]string{"black"}, "black"); got["black"] {
		t.Error("Link into a recreated venv without the script should be invalid")
	}
}

func TestRemove(t *testing.T) {
	r, venv := setup(t, "black")
	r.Install(context.Background(), "black", venv, false)
	os.WriteFile(r.Path("keep"), []byte("x"), 0755)

	r.Remove("black")
	r.Remove("keep")
	r.Remove("never-existed")

	if _, err := os.Lstat(r.Path("black")); !os.IsNotExist(err) {
		t.Error("Symlink should be removed")
	}
	if _, err := os.Stat(r.Path("keep")); err != nil {
		t.Error("Regular files must not be removed")
	}
	if _, err := os.Stat(filepath.Join(venv, "bin", "black")); err != nil {
		t.Error("Link target must survive removal of the link")
	}
}

func TestIsNested(t *testing.T) {
	tests := []struct {
		path, dir string
		want      bool
	}{
		{"/w/venvs/black/bin/black", "/w/venvs/black", true},
		{"/w/venvs/black", "/w/venvs/black", false},
		{"/w/venvs/blackd/bin/x", "/w/venvs/black", false},
		{"/w/venvs/../elsewhere/x", "/w/venvs/black", false},
	}
	for _, tt := range tests {
		if got := isNested(tt.path, tt.dir); got != tt.want {
			t.Errorf("isNested(%q, %q) = %v, want %v", tt.path, tt.dir, got, tt.want)
		}
	}
}
