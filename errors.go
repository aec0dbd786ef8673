// errors.go
package uvx

import (
	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/lifecycle"
)

var (
	// ErrSpecResolution indicates the install spec could not be parsed or resolved
	ErrSpecResolution = core.ErrSpecResolution

	// ErrEnvironment indicates a venv could not be created or activated
	ErrEnvironment = core.ErrEnvironment

	// ErrPackageManager indicates uv exited non-zero
	ErrPackageManager = core.ErrPackageManager

	// ErrState indicates the package is missing (or present) when it should not be
	ErrState = core.ErrState

	// ErrConflict indicates the package is already installed
	ErrConflict = core.ErrConflict
)

type (
	// Error wraps an error with the operation and package that failed
	Error = core.Error

	// ExitError carries the exit code of a program started by Run or Exec
	ExitError = lifecycle.ExitError
)
