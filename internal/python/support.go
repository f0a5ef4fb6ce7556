package python

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"pyedit/internal/complete"
	"pyedit/internal/document"
	"pyedit/internal/fold"
	"pyedit/internal/indent"
	"pyedit/internal/syntax"
)

// Options configures a Support.
type Options struct {
	IndentUnit int
	TabSize    int
	// CacheSize bounds the number of cached scopes shared by all files.
	CacheSize int
	Logger    *slog.Logger
}

// Support holds the services shared by every open file. It is safe for
// concurrent use.
type Support struct {
	indent    *indent.Engine
	collector *complete.Collector
	sources   *complete.Sources
	logger    *slog.Logger
}

// New creates a Support.
func New(opts Options) *Support {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	collector := complete.NewCollector(opts.CacheSize, logger.With("component", "scope"))
	return &Support{
		indent: indent.New(
			indent.WithUnit(opts.IndentUnit),
			indent.WithTabSize(opts.TabSize),
			indent.WithLogger(logger.With("component", "indent")),
		),
		collector: collector,
		sources:   complete.NewSources(collector),
		logger:    logger,
	}
}

// Collector exposes the shared scope collector.
func (s *Support) Collector() *complete.Collector { return s.collector }

// IndentUnit returns the configured indent width.
func (s *Support) IndentUnit() int { return s.indent.Unit() }

// Open parses src and returns a file ready for queries.
func (s *Support) Open(ctx context.Context, src []byte) (*File, error) {
	if !syntax.IsAvailable() {
		return nil, syntax.ErrNoCGO
	}
	f := &File{support: s, parser: syntax.NewParser()}
	if err := f.Replace(ctx, src); err != nil {
		return nil, err
	}
	return f, nil
}

// File is an open document with its current syntax tree. Edits re-parse
// incrementally. Methods are safe for concurrent use.
type File struct {
	support *Support
	parser  *syntax.Parser

	mu      sync.RWMutex
	doc     *document.Document
	tree    *syntax.Tree
	version int
}

// Replace swaps the whole content of the file.
func (f *File) Replace(ctx context.Context, src []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tree, err := f.parser.Parse(ctx, src)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	f.doc, f.tree = document.New(src), tree
	f.version++
	return nil
}

// Edit replaces the bytes in [start, oldEnd) with text and re-parses the
// changed region.
func (f *File) Edit(ctx context.Context, start, oldEnd int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old := f.doc.Bytes()
	if start < 0 || oldEnd < start || oldEnd > len(old) {
		return fmt.Errorf("edit [%d,%d) outside document of length %d", start, oldEnd, len(old))
	}

	src := make([]byte, 0, len(old)-(oldEnd-start)+len(text))
	src = append(src, old[:start]...)
	src = append(src, text...)
	src = append(src, old[oldEnd:]...)

	edit := syntax.Edit{Start: start, OldEnd: oldEnd, NewEnd: start + len(text)}
	tree, err := f.parser.Reparse(ctx, edit, src)
	if err != nil {
		return fmt.Errorf("reparse: %w", err)
	}
	f.doc, f.tree = document.New(src), tree
	f.version++
	f.support.logger.Debug("file edited",
		"start", start,
		"oldEnd", oldEnd,
		"inserted", len(text),
		"version", f.version,
	)
	return nil
}

// Snapshot returns the current document and tree.
func (f *File) Snapshot() (*document.Document, *syntax.Tree) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.doc, f.tree
}

// Version counts the changes applied since the file was opened.
func (f *File) Version() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.version
}

// Indentation returns the indentation for the line at pos. See
// indent.Engine.Indentation.
func (f *File) Indentation(pos int, opts ...indent.QueryOption) (int, bool) {
	doc, tree := f.Snapshot()
	return f.support.indent.Indentation(doc, tree, pos, opts...)
}

// IndentLines returns the indentation of the lines in [from, to].
func (f *File) IndentLines(from, to int) map[int]int {
	doc, tree := f.Snapshot()
	return f.support.indent.IndentLines(doc, tree, from, to)
}

// Complete returns completion results for the cursor at pos.
func (f *File) Complete(pos int, explicit bool) []*complete.Result {
	_, tree := f.Snapshot()
	return f.support.sources.Complete(complete.Context{Tree: tree, Pos: pos, Explicit: explicit})
}

// Folds returns the fold ranges of the file.
func (f *File) Folds() []fold.Range {
	_, tree := f.Snapshot()
	return fold.Ranges(tree)
}

// ShouldReindent reports whether line n (1-based), up to pos, was typed
// into a shape that changes its indentation.
func (f *File) ShouldReindent(n, pos int) bool {
	doc, _ := f.Snapshot()
	line := doc.Line(n)
	if pos < line.From || pos > line.To {
		pos = line.To
	}
	return ShouldReindent(line.Text[:pos-line.From])
}
