// Package symlinks exposes the scripts of an installed package in the
// shared bin directory and checks that existing links still belong to it.
package symlinks

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// EntryPointer lists the console scripts a distribution declares
type EntryPointer interface {
	EntryPoints(ctx context.Context, venv, dist string) ([]string, error)
}

// Reconciler manages <BinDir>/<script> links into <WorkDir>/venvs/<name>/bin
type Reconciler struct {
	BinDir  string
	WorkDir string
	PM      EntryPointer
	Logger  *log.Logger
}

func (r *Reconciler) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

// Path returns the location of a script link in the bin directory
func (r *Reconciler) Path(script string) string {
	return filepath.Join(r.BinDir, script)
}

// Discover returns the console scripts of dist inside venv.
// Discovery failures yield an empty list.
func (r *Reconciler) Discover(ctx context.Context, dist, venv string) []string {
	scripts, err := r.PM.EntryPoints(ctx, venv, dist)
	if err != nil {
		r.logger().Debug("entry point discovery failed", "package", dist, "err", err)
		return []string{}
	}
	return scripts
}

// Install links every discovered script of dist and reports per script
// whether a link was created.
func (r *Reconciler) Install(ctx context.Context, dist, venv string, force bool) map[string]bool {
	results := map[string]bool{}
	if err := os.MkdirAll(r.BinDir, 0755); err != nil {
		r.logger().Warn("could not create bin directory", "dir", r.BinDir, "err", err)
		return results
	}

	for _, script := range r.Discover(ctx, dist, venv) {
		results[script] = r.link(script, venv, force)
	}
	return results
}

func (r *Reconciler) link(script, venv string, force bool) bool {
	target := r.Path(script)

	if _, err := os.Lstat(target); err == nil {
		if !force {
			r.logger().Warnf("Script %s already exists in %s. Use --force to ignore this warning.", script, r.BinDir)
			return false
		}
		if err := os.Remove(target); err != nil {
			r.logger().Warn("could not replace existing script", "path", target, "err", err)
			return false
		}
	}

	source := filepath.Join(venv, "bin", script)
	if _, err := os.Stat(source); err != nil {
		r.logger().Warnf("Could not symlink %s because the script didn't exist.", source)
		return false
	}

	if err := os.Symlink(source, target); err != nil {
		r.logger().Warn("could not create symlink", "path", target, "err", err)
		return false
	}
	return true
}

// Check reports whether <bin>/<script> is a symlink whose resolved target
// lies inside the venv named venvName.
func (r *Reconciler) Check(script, venvName string) bool {
	link := r.Path(script)
	info, err := os.Lstat(link)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return false
	}

	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return false
	}

	owner := filepath.Join(r.WorkDir, "venvs", venvName)
	if real, err := filepath.EvalSymlinks(owner); err == nil {
		owner = real
	}
	return isNested(resolved, owner)
}

// CheckAll validates each script for venvName
func (r *Reconciler) CheckAll(scripts []string, venvName string) map[string]bool {
	out := make(map[string]bool, len(scripts))
	for _, script := range scripts {
		out[script] = r.Check(script, venvName)
	}
	return out
}

// Remove deletes <bin>/<script> if it is a symlink
func (r *Reconciler) Remove(script string) {
	link := r.Path(script)
	info, err := os.Lstat(link)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return
	}
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		r.logger().Warn("could not remove symlink", "path", link, "err", err)
	}
}

// isNested reports whether path is strictly below dir
func isNested(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
