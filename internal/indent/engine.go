// Package indent computes the indentation column for a line of Python
// source from its syntax tree.
//
// A query resolves the innermost node around the position, first entering
// any block that is still open before it, and then consults the rule for
// each enclosing node in turn. A rule either decides a column, defers to
// the next enclosing node, or declares that the line must be left alone.
package indent

import (
	"log/slog"

	"pyedit/internal/document"
	"pyedit/internal/syntax"
)

// DefaultUnit is the indent width used when none is configured.
const DefaultUnit = 4

// Engine answers indentation queries. It holds configuration only and is
// safe for concurrent use.
type Engine struct {
	unit    int
	tabSize int
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithUnit sets the number of columns per indentation level.
func WithUnit(unit int) Option {
	return func(e *Engine) {
		if unit > 0 {
			e.unit = unit
		}
	}
}

// WithTabSize sets the column width of a tab character.
func WithTabSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.tabSize = size
		}
	}
}

// WithLogger sets the logger used for query tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		unit:    DefaultUnit,
		tabSize: document.DefaultTabSize,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Unit returns the configured indent width.
func (e *Engine) Unit() int { return e.unit }

// QueryOption adjusts a single query.
type QueryOption func(*Context)

// SimulateBreak asks for the indentation of the line that would start at
// the queried position if a line break were inserted there.
func SimulateBreak() QueryOption {
	return func(cx *Context) {
		cx.simulateBreak = cx.Pos
	}
}

// SimulateDoubleBreak is SimulateBreak for a break inserted twice, leaving
// an empty line between the two halves.
func SimulateDoubleBreak() QueryOption {
	return func(cx *Context) {
		cx.simulateBreak = cx.Pos
		cx.doubleBreak = true
	}
}

// Indentation returns the column the line at pos should be indented to.
// The second result is false when no rule has an opinion, for example
// inside a multi-line string, in which case the line should be kept as is.
func (e *Engine) Indentation(doc *document.Document, tree *syntax.Tree, pos int, opts ...QueryOption) (int, bool) {
	if pos < 0 {
		pos = 0
	}
	if pos > doc.Len() {
		pos = doc.Len()
	}
	cx := &Context{
		Doc:           doc,
		Tree:          tree,
		Pos:           pos,
		Unit:          e.unit,
		TabSize:       e.tabSize,
		simulateBreak: -1,
	}
	for _, opt := range opts {
		opt(cx)
	}

	start := tree.ResolveInner(pos, 0)
	if active := activeNode(cx, start); active.Valid() {
		start = active
	}
	for n := start; n.Valid(); n = n.Parent() {
		r := rules[n.Kind()]
		if r == nil {
			continue
		}
		cx.node = n
		d := r(cx)
		if col, ok := d.Column(); ok {
			e.logger.Debug("indentation decided",
				"pos", pos,
				"node", n.Kind().String(),
				"column", col,
			)
			return col, true
		}
		if d == NoOpinion {
			e.logger.Debug("indentation left unchanged", "pos", pos, "node", n.Kind().String())
			return 0, false
		}
	}
	root := tree.Root()
	return cx.LineIndent(root.From(), 1), true
}

// activeNode enters the blocks that end before pos. It returns the
// innermost body whose content the position continues, or, failing that,
// an error node the position follows.
func activeNode(cx *Context, from syntax.Node) syntax.Node {
	var found, errNode syntax.Node
	pos := cx.Pos
	cur := from
	for {
		ch := cur.ChildBefore(pos)
		if !ch.Valid() {
			break
		}
		switch kind := ch.Kind(); {
		case kind == syntax.KindComment:
			pos = ch.From()
			continue
		case kind.IsBody():
			if !hasStatements(ch) || cx.BaseIndentFor(ch)+cx.Unit <= cx.LineIndent(cx.Pos, -1) {
				found = ch
			}
			cur = ch
		case kind.IsStatement():
			cur = ch
		case kind == syntax.KindError:
			errNode = ch
			cur = ch
		default:
			if open := unfinished(ch); open.Valid() && ch.To() == cx.Pos {
				return open
			}
			if found.Valid() {
				return found
			}
			return errNode
		}
	}
	if found.Valid() {
		return found
	}
	return errNode
}

// IndentLines returns the indentation for every line in [from, to] by line
// number. Lines without an opinion are omitted.
func (e *Engine) IndentLines(doc *document.Document, tree *syntax.Tree, from, to int) map[int]int {
	out := make(map[int]int)
	if from < 1 {
		from = 1
	}
	if to > doc.Lines() {
		to = doc.Lines()
	}
	for n := from; n <= to; n++ {
		line := doc.Line(n)
		if col, ok := e.Indentation(doc, tree, line.From); ok {
			out[n] = col
		}
	}
	return out
}
