// Package spec turns raw install specs into structured package identities.
package spec

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/metadata"
	"github.com/robinvandernoord/uvx/pkg/progress"
)

// DefaultSource marks a spec that installs from the package index.
const DefaultSource = "pypi"

// InstallSpec is the structured identity of a requested package
type InstallSpec struct {
	Name              string   // Distribution name
	Extras            core.Set // Requested extras
	VersionConstraint string   // Normalized constraint, "" if unconstrained
	Source            string   // DefaultSource or the url/path after "@"
	Raw               string   // Canonical spec string passed to the package manager
}

// Record builds a partially populated metadata record; runtime fields
// (installed version, interpreter, scripts) are left for the installer.
func (s InstallSpec) Record() *metadata.Record {
	r := &metadata.Record{
		Name:        s.Name,
		Scripts:     map[string]bool{},
		InstallSpec: s.Raw,
		Extras:      s.Extras.Union(nil),
	}
	r.SetPin(s.VersionConstraint)
	return r
}

// HasRequest reports whether the caller asked for a specific version or extras.
func (s InstallSpec) HasRequest() bool {
	return s.VersionConstraint != "" || len(s.Extras) > 0
}

// DryRunner is the part of the package manager contract needed for resolving local specs
type DryRunner interface {
	DryRun(ctx context.Context, spec string) (*core.DryRunReport, error)
}

// Resolver resolves raw spec strings
type Resolver struct {
	pm       DryRunner
	progress progress.Runner
	logger   *log.Logger
}

// NewResolver creates a resolver; runner and logger may be nil.
func NewResolver(pm DryRunner, runner progress.Runner, logger *log.Logger) *Resolver {
	if runner == nil {
		runner = progress.Inline{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{pm: pm, progress: runner, logger: logger}
}

// Resolve parses raw strictly, falling back to a dry-run install that treats
// raw as a local path or URL. Failure of both is permanent.
func (r *Resolver) Resolve(ctx context.Context, raw string) (InstallSpec, error) {
	parsed, parseErr := Parse(raw)
	if parseErr == nil {
		return parsed, nil
	}

	r.logger.Debug("strict parse failed, trying local resolution", "spec", raw, "err", parseErr)

	var report *core.DryRunReport
	err := r.progress.Run(fmt.Sprintf("Trying to install local package '%s'", raw), func() error {
		var err error
		report, err = r.pm.DryRun(ctx, raw)
		return err
	})
	if err != nil || report == nil || report.Name == "" {
		r.logger.Debug("local resolution failed", "spec", raw, "err", err)
		return InstallSpec{}, core.Wrap(core.ErrSpecResolution, "resolve", raw, parseErr)
	}

	canonical := report.Name
	if len(report.Extras) > 0 {
		canonical += "[" + strings.Join(report.Extras, ",") + "]"
	}
	canonical += " @ " + strings.TrimPrefix(report.URL, "file://")

	resolved, err := Parse(canonical)
	if err != nil {
		return InstallSpec{}, core.Wrap(core.ErrSpecResolution, "resolve", raw, err)
	}
	return resolved, nil
}
