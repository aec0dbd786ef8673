// pkg/core/errors.go
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrSpecResolution indicates an unparseable or unresolvable install spec
	ErrSpecResolution = errors.New("spec resolution failed")

	// ErrEnvironment indicates a venv could not be created or activated
	ErrEnvironment = errors.New("environment error")

	// ErrPackageManager indicates the external package manager exited non-zero
	ErrPackageManager = errors.New("package manager failed")

	// ErrState indicates the operation targets a venv in the wrong state
	// (missing, or already present) without a force override
	ErrState = errors.New("invalid state")

	// ErrConflict indicates the target venv or script already exists and force was not given
	ErrConflict = errors.New("conflict")
)

// Error wraps an error with the operation, package and failure kind
type Error struct {
	Kind    error  // One of the sentinel errors above
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the failure kind so errors.Is(err, ErrState) works through wrapping.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// Errorf builds an *Error of the given kind with a formatted message
func Errorf(kind error, op, pkg, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Package: pkg, Err: fmt.Errorf(format, args...)}
}

// Wrap builds an *Error of the given kind around err; nil stays nil
func Wrap(kind error, op, pkg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Package: pkg, Err: err}
}
