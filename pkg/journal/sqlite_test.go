package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *SQLite {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })

	if err := j.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize journal: %v", err)
	}
	return j
}

func TestRecordAndList(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []*Event{
		{Op: OpInstall, Name: "black", Version: "24.1.0", Detail: "black", At: base},
		{Op: OpInstall, Name: "ruff", Version: "0.3.0", Detail: "ruff", At: base.Add(time.Minute)},
		{Op: OpInject, Name: "black", Version: "24.1.0", Detail: "isort", At: base.Add(2 * time.Minute)},
	}
	for _, ev := range events {
		if err := j.Record(ctx, ev); err != nil {
			t.Fatalf("Failed to record event: %v", err)
		}
		if ev.ID == 0 {
			t.Error("Record should assign an ID")
		}
	}

	all, err := j.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Got %d events, want 3", len(all))
	}
	if all[0].Op != OpInject || all[2].Name != "black" {
		t.Errorf("Events not newest first: %+v", all)
	}
	if !all[0].At.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("At = %v", all[0].At)
	}

	black, err := j.List(ctx, "black", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(black) != 2 {
		t.Errorf("Got %d black events, want 2", len(black))
	}

	limited, err := j.List(ctx, "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].Detail != "isort" {
		t.Errorf("Limited list = %+v", limited)
	}
}

func TestRecordSetsTime(t *testing.T) {
	j := openTemp(t)
	ev := &Event{Op: OpUninstall, Name: "black"}
	if err := j.Record(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if ev.At.IsZero() {
		t.Error("Record should default At to now")
	}
}

func TestIsRemote(t *testing.T) {
	tests := map[string]bool{
		"libsql://db.turso.io":        true,
		"https://db.example.com":      true,
		"/home/me/.local/uvx/hist.db": false,
		"file:history.db":             false,
	}
	for dsn, want := range tests {
		if got := isRemote(dsn); got != want {
			t.Errorf("isRemote(%q) = %v, want %v", dsn, got, want)
		}
	}
}
