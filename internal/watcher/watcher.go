// Package watcher reports debounced changes to Python sources on disk.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event represents a file system event
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// ChangeHandler receives each debounced batch, sorted by path.
type ChangeHandler func(events []Event)

// Config contains watcher configuration
type Config struct {
	DebounceMs int
	// Extensions selects the files reported; empty means all files.
	Extensions []string
	// SkipDirs are directory names never descended into.
	SkipDirs []string
}

// DefaultConfig returns the default watcher configuration
func DefaultConfig() Config {
	return Config{
		DebounceMs: 300,
		Extensions: []string{".py", ".pyi"},
		SkipDirs:   []string{".git", ".hg", ".svn", ".pyedit", "__pycache__", "node_modules", ".venv", "venv", ".tox"},
	}
}

// Stats counts watcher activity.
type Stats struct {
	Dirs    int    `json:"dirs"`
	Files   int    `json:"files"`
	Events  uint64 `json:"events"`
	Batches uint64 `json:"batches"`
}

// Watcher watches files and directory trees for source changes
type Watcher struct {
	config  Config
	logger  *slog.Logger
	handler ChangeHandler
	fs      *fsnotify.Watcher
	batch   *BatchDebouncer

	mu    sync.RWMutex
	dirs  map[string]bool // recursive roots and their subdirectories
	files map[string]bool // individually watched files

	events  atomic.Uint64
	batches atomic.Uint64
}

// New creates a file system watcher. Nothing is watched until Add.
func New(config Config, logger *slog.Logger, handler ChangeHandler) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		config:  config,
		logger:  logger,
		handler: handler,
		fs:      fsw,
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
	}
	delay := time.Duration(config.DebounceMs) * time.Millisecond
	w.batch = NewBatchDebouncer(delay, w.emit)
	return w, nil
}

// Add watches path: a directory recursively, or a single file.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		w.mu.Lock()
		w.files[abs] = true
		w.mu.Unlock()
		return w.fs.Add(filepath.Dir(abs))
	}
	return w.addTree(abs)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return err
		}
		w.mu.Lock()
		w.dirs[path] = true
		w.mu.Unlock()
		return nil
	})
}

func (w *Watcher) skipDir(name string) bool {
	return slices.Contains(w.config.SkipDirs, name)
}

// Matches reports whether a change to path would be reported.
func (w *Watcher) Matches(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.files[path] {
		return true
	}
	if !w.dirs[filepath.Dir(path)] {
		return false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".#") || strings.HasSuffix(base, "~") {
		return false
	}
	if len(w.config.Extensions) == 0 {
		return true
	}
	return slices.Contains(w.config.Extensions, filepath.Ext(path))
}

// Run processes file system events until ctx is done, then emits any
// pending batch. It returns the first watcher error.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.batch.Flush()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch queue overflowed", "error", err)
				continue
			}
			return err
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if ev.Has(fsnotify.Create) {
		w.mu.RLock()
		watched := w.dirs[filepath.Dir(path)]
		w.mu.RUnlock()
		if info, err := os.Stat(path); err == nil && info.IsDir() && watched && !w.skipDir(info.Name()) {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("watch new directory", "path", path, "error", err)
			}
			return
		}
	}
	if !w.Matches(path) {
		return
	}
	typ, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	w.events.Add(1)
	w.logger.Debug("file event", "path", path, "op", typ.String())
	w.batch.Add(Event{Type: typ, Path: path, Timestamp: time.Now()})
}

func convertOp(op fsnotify.Op) (EventType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreate, true
	case op.Has(fsnotify.Write):
		return EventModify, true
	case op.Has(fsnotify.Remove):
		return EventDelete, true
	case op.Has(fsnotify.Rename):
		return EventRename, true
	default:
		return 0, false
	}
}

func (w *Watcher) emit(events []Event) {
	w.batches.Add(1)
	if w.handler != nil {
		w.handler(events)
	}
}

// Close stops watching and drops pending events.
func (w *Watcher) Close() error {
	w.batch.Cancel()
	return w.fs.Close()
}

// Stats returns watcher statistics
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Stats{
		Dirs:    len(w.dirs),
		Files:   len(w.files),
		Events:  w.events.Load(),
		Batches: w.batches.Load(),
	}
}
