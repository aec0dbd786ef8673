// Package metadata persists the per-venv installation record.
//
// Each venv carries exactly one binary ".metadata" file. A missing file means
// "no prior metadata" and is reported as an absent value; a file that exists
// but cannot be decoded is ErrCorrupt.
package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/vmihailenco/msgpack/v5"
)

// Filename is the fixed name of the record inside a venv directory.
const Filename = ".metadata"

// ErrCorrupt indicates a metadata file that exists but cannot be decoded.
var ErrCorrupt = errors.New("unreadable metadata")

// Record describes one installation.
type Record struct {
	Name             string          // Distribution name, also the venv directory name
	Scripts          map[string]bool // Script name -> last known symlink validity
	InstallSpec      string          // e.g. "black[jupyter]>=24.0"
	Extras           core.Set        // e.g. {"jupyter"}
	RequestedVersion *string         // e.g. ">=24.0"; nil when never recorded
	InstalledVersion string          // Version reported by the package manager
	Python           string          // e.g. "Python 3.12.1"
	PythonRaw        string          // Resolved interpreter path
	Injected         core.Set        // Auxiliary packages; nil when never recorded
}

// wire is the on-disk layout: a positional array, sets as arrays, optional
// fields as nil-able pointers.
type wire struct {
	_msgpack struct{} `msgpack:",as_array"`

	Name             string
	Scripts          map[string]bool
	InstallSpec      string
	Extras           []string
	RequestedVersion *string
	InstalledVersion string
	Python           string
	PythonRaw        string
	Injected         *[]string
}

// Pin returns the requested version constraint, or "" when none is recorded.
func (r *Record) Pin() string {
	if r.RequestedVersion == nil {
		return ""
	}
	return *r.RequestedVersion
}

// SetPin records a version constraint (possibly empty).
func (r *Record) SetPin(v string) {
	r.RequestedVersion = &v
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	if r.Scripts != nil {
		c.Scripts = make(map[string]bool, len(r.Scripts))
		for k, v := range r.Scripts {
			c.Scripts[k] = v
		}
	}
	if r.Extras != nil {
		c.Extras = r.Extras.Union(nil)
	}
	if r.Injected != nil {
		c.Injected = r.Injected.Union(nil)
	}
	if r.RequestedVersion != nil {
		v := *r.RequestedVersion
		c.RequestedVersion = &v
	}
	return &c
}

// ToMap renders the record with JSON-friendly values (sets become sorted lists).
func (r *Record) ToMap() map[string]any {
	m := map[string]any{
		"name":              r.Name,
		"scripts":           r.Scripts,
		"install_spec":      r.InstallSpec,
		"extras":            sortedOrEmpty(r.Extras),
		"requested_version": r.RequestedVersion,
		"installed_version": r.InstalledVersion,
		"python":            r.Python,
		"python_raw":        r.PythonRaw,
		"injected":          nil,
	}
	if r.Scripts == nil {
		m["scripts"] = map[string]bool{}
	}
	if r.Injected != nil {
		m["injected"] = r.Injected.Sorted()
	}
	return m
}

// Encode serializes a record.
func Encode(r *Record) ([]byte, error) {
	w := wire{
		Name:             r.Name,
		Scripts:          r.Scripts,
		InstallSpec:      r.InstallSpec,
		Extras:           sortedOrEmpty(r.Extras),
		RequestedVersion: r.RequestedVersion,
		InstalledVersion: r.InstalledVersion,
		Python:           r.Python,
		PythonRaw:        r.PythonRaw,
	}
	if r.Injected != nil {
		injected := r.Injected.Sorted()
		w.Injected = &injected
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&w); err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode deserializes a record produced by Encode.
func Decode(data []byte) (*Record, error) {
	var w wire
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	r := &Record{
		Name:             w.Name,
		Scripts:          w.Scripts,
		InstallSpec:      w.InstallSpec,
		Extras:           core.NewSet(w.Extras...),
		RequestedVersion: w.RequestedVersion,
		InstalledVersion: w.InstalledVersion,
		Python:           w.Python,
		PythonRaw:        w.PythonRaw,
	}
	if r.Scripts == nil {
		r.Scripts = map[string]bool{}
	}
	if w.Injected != nil {
		r.Injected = core.NewSet(*w.Injected...)
	}
	return r, nil
}

// Path returns the metadata file location for a venv directory.
func Path(venv string) string {
	return filepath.Join(venv, Filename)
}

// Read loads the record stored in venv. A missing file yields an absent value.
func Read(venv string) (core.Maybe[*Record], error) {
	data, err := os.ReadFile(Path(venv))
	if err != nil {
		if os.IsNotExist(err) {
			return core.None[*Record](), nil
		}
		return core.None[*Record](), fmt.Errorf("reading metadata: %w", err)
	}

	r, err := Decode(data)
	if err != nil {
		return core.None[*Record](), err
	}
	return core.Some(r), nil
}

// Write stores the record in venv, replacing any previous one.
func Write(venv string, r *Record) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(venv, Filename+".*")
	if err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	if err := os.Rename(tmp.Name(), Path(venv)); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

func sortedOrEmpty(s core.Set) []string {
	if s == nil {
		return []string{}
	}
	return s.Sorted()
}
