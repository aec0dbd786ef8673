package journal

import (
	"context"
	"time"
)

// Op names a lifecycle operation
type Op string

const (
	OpInstall   Op = "install"
	OpUpgrade   Op = "upgrade"
	OpReinstall Op = "reinstall"
	OpInject    Op = "inject"
	OpEject     Op = "eject"
	OpUninstall Op = "uninstall"
)

// Event is one completed lifecycle operation
type Event struct {
	ID      int64
	Op      Op
	Name    string    // Venv (package) name
	Version string    // Installed version after the operation, if known
	Detail  string    // Spec or package list the operation acted on
	At      time.Time // When the operation completed
}

// Journal records lifecycle events
type Journal interface {
	// Initialize creates the schema
	Initialize(ctx context.Context) error

	// Record appends an event; a zero At is set to now
	Record(ctx context.Context, ev *Event) error

	// List returns events newest first, optionally for one name only
	List(ctx context.Context, name string, limit int) ([]*Event, error)

	// Close closes the journal
	Close() error
}
