package lifecycle

import (
	"context"

	"github.com/robinvandernoord/uvx/pkg/core"
	"github.com/robinvandernoord/uvx/pkg/metadata"
)

// Entry is one installed venv as seen by List
type Entry struct {
	Name   string
	Record core.Maybe[*metadata.Record]
	Err    error // Set when the metadata exists but could not be read
}

// List returns every venv with its record. Script validity is re-checked
// against the bin directory; nothing is written back.
func (e *Engine) List(ctx context.Context) ([]Entry, error) {
	names, err := e.venvs.List()
	if err != nil {
		return nil, core.Wrap(core.ErrEnvironment, "list", "", err)
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entry := Entry{Name: name}
		m, err := metadata.Read(e.venvs.Path(name))
		if err != nil {
			entry.Err = err
			entry.Record = core.None[*metadata.Record]()
		} else {
			entry.Record = m
		}

		if rec, ok := entry.Record.Get(); ok {
			rec.Scripts = e.links.CheckAll(sortedKeys(rec.Scripts), name)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
