package progress

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestInlineRunsSynchronously(t *testing.T) {
	ran := false
	err := Inline{}.Run("title", func() error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Fatalf("Inline.Run: ran=%v err=%v", ran, err)
	}

	want := errors.New("boom")
	if got := (Inline{}).Run("title", func() error { return want }); got != want {
		t.Errorf("Expected error to propagate, got %v", got)
	}
}

func TestNewFallsBackToInline(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, ok := New(f, false).(Inline); !ok {
		t.Error("Expected Inline runner for a non-terminal output")
	}
	if _, ok := New(nil, false).(Inline); !ok {
		t.Error("Expected Inline runner for nil output")
	}
	if _, ok := New(os.Stderr, true).(Inline); !ok {
		t.Error("Expected Inline runner when disabled")
	}
}

func TestModelQuitsWhenDone(t *testing.T) {
	done := make(chan struct{})
	m := newModel("installing black", done)

	if view := m.View(); !strings.Contains(view, "installing black") {
		t.Errorf("View() = %q, want title", view)
	}

	next, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("Expected quit command after doneMsg")
	}
	if view := next.(model).View(); view != "" {
		t.Errorf("Expected empty view after completion, got %q", view)
	}

	close(done)
	if msg := waitFor(done)(); msg != (doneMsg{}) {
		t.Errorf("waitFor returned %v", msg)
	}
}
