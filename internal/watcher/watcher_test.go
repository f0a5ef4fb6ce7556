package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
	}{
		{EventCreate, "create"},
		{EventModify, "modify"},
		{EventDelete, "delete"},
		{EventRename, "rename"},
		{EventType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.eventType.String(); got != tt.expected {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.eventType, got, tt.expected)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DebounceMs <= 0 {
		t.Error("DebounceMs should be positive")
	}
	if len(cfg.Extensions) == 0 || cfg.Extensions[0] != ".py" {
		t.Errorf("Extensions = %v", cfg.Extensions)
	}
}

func TestBatchDebouncer_CollapsesPaths(t *testing.T) {
	var mu sync.Mutex
	var batches [][]Event
	b := NewBatchDebouncer(30*time.Millisecond, func(events []Event) {
		mu.Lock()
		batches = append(batches, events)
		mu.Unlock()
	})

	b.Add(Event{Type: EventCreate, Path: "b.py"})
	b.Add(Event{Type: EventModify, Path: "a.py"})
	b.Add(Event{Type: EventModify, Path: "b.py"})
	if got := b.EventCount(); got != 2 {
		t.Errorf("EventCount() = %d, want 2", got)
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(batches))
	}
	got := batches[0]
	if len(got) != 2 || got[0].Path != "a.py" || got[1].Path != "b.py" {
		t.Fatalf("batch = %+v, want a.py then b.py", got)
	}
	if got[1].Type != EventModify {
		t.Errorf("b.py type = %s, want latest event modify", got[1].Type)
	}
}

func TestBatchDebouncer_CancelAndFlush(t *testing.T) {
	var emitted int
	b := NewBatchDebouncer(time.Hour, func(events []Event) { emitted += len(events) })

	b.Add(Event{Path: "a.py"})
	b.Cancel()
	b.Flush()
	if emitted != 0 {
		t.Errorf("emitted %d events after cancel", emitted)
	}

	b.Add(Event{Path: "a.py"})
	b.Flush()
	if emitted != 1 {
		t.Errorf("emitted %d events after flush, want 1", emitted)
	}
	if b.EventCount() != 0 {
		t.Error("flush should clear pending events")
	}
}

func newWatcher(t *testing.T, handler ChangeHandler) *Watcher {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DebounceMs = 20
	w, err := New(cfg, nil, handler)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWatcher_Matches(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pkg", "__pycache__"), 0o755); err != nil {
		t.Fatal(err)
	}
	w := newWatcher(t, nil)
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(dir, "main.py"), true},
		{filepath.Join(dir, "pkg", "types.pyi"), true},
		{filepath.Join(dir, "README.md"), false},
		{filepath.Join(dir, "pkg", "__pycache__", "main.py"), false},
		{filepath.Join(dir, ".#main.py"), false},
		{filepath.Join(t.TempDir(), "other.py"), false},
	}
	for _, tt := range tests {
		if got := w.Matches(tt.path); got != tt.want {
			t.Errorf("Matches(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if st := w.Stats(); st.Dirs != 2 {
		t.Errorf("Stats().Dirs = %d, want 2", st.Dirs)
	}
}

func TestWatcher_AddFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "only.py")
	if err := os.WriteFile(file, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := newWatcher(t, nil)
	if err := w.Add(file); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !w.Matches(file) {
		t.Error("added file should match")
	}
	if w.Matches(filepath.Join(dir, "sibling.py")) {
		t.Error("sibling of a single watched file should not match")
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	got := make(chan []Event, 4)
	w := newWatcher(t, func(events []Event) { got <- events })
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("def f():\n    pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case events := <-got:
		if len(events) != 1 || events[0].Path != path {
			t.Errorf("events = %+v, want one event for %s", events, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no batch reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if st := w.Stats(); st.Batches == 0 || st.Events == 0 {
		t.Errorf("Stats() = %+v", st)
	}
}
