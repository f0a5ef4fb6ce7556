package indent

import (
	"strings"

	"pyedit/internal/document"
	"pyedit/internal/syntax"
)

// lookahead caps how much text after the position rules inspect.
const lookahead = 100

// Context carries one indentation query: the document, the position, the
// optional simulated line break and the indent unit. It is created for a
// single query and discarded afterwards.
type Context struct {
	Doc  *document.Document
	Tree *syntax.Tree
	// Pos is the queried offset.
	Pos     int
	Unit    int
	TabSize int

	simulateBreak int
	doubleBreak   bool

	// node is the node whose rule is currently running.
	node syntax.Node
}

// Node returns the node the current rule was matched on.
func (cx *Context) Node() syntax.Node {
	return cx.node
}

// LineAt returns the line around pos, taking the simulated break into
// account. With a break on the line, bias < 0 selects the text before the
// break when pos is at the break.
func (cx *Context) LineAt(pos, bias int) document.Line {
	line := cx.Doc.LineAt(pos)
	sim := cx.simulateBreak
	if sim < 0 || sim < line.From || sim > line.To {
		return line
	}
	if cx.doubleBreak && sim == pos {
		return document.Line{Number: line.Number, From: pos, To: pos}
	}
	cut := sim - line.From
	if (bias < 0 && sim < pos) || (bias >= 0 && sim <= pos) {
		return document.Line{Number: line.Number, From: sim, To: line.To, Text: line.Text[cut:]}
	}
	return document.Line{Number: line.Number, From: line.From, To: sim, Text: line.Text[:cut]}
}

// LineIndent returns the indentation column of the line around pos.
func (cx *Context) LineIndent(pos, bias int) int {
	return document.Indentation(cx.LineAt(pos, bias).Text, cx.TabSize)
}

// Column returns the column of pos on its line.
func (cx *Context) Column(pos int) int {
	line := cx.LineAt(pos, 1)
	off := pos - line.From
	if off < 0 {
		off = 0
	}
	if off > len(line.Text) {
		off = len(line.Text)
	}
	return document.CountColumn(line.Text[:off], cx.TabSize)
}

// blankAfterBreak reports whether the query is for the empty line a
// double break leaves at the position.
func (cx *Context) blankAfterBreak() bool {
	return cx.doubleBreak && cx.Pos == cx.simulateBreak
}

// TextAfter returns the text following the position on its line.
func (cx *Context) TextAfter() string {
	if cx.blankAfterBreak() {
		return ""
	}
	line := cx.LineAt(cx.Pos, 1)
	from := cx.Pos - line.From
	if from < 0 || from > len(line.Text) {
		return ""
	}
	to := len(line.Text)
	if to > from+lookahead {
		to = from + lookahead
	}
	return line.Text[from:to]
}

// BaseIndent returns the base indentation of the current node.
func (cx *Context) BaseIndent() int {
	return cx.BaseIndentFor(cx.node)
}

// BaseIndentFor returns the indentation of the line n starts on. When that
// line begins inside a construct that does not enclose n, such as the
// continuation of a multi-line expression, the line where that construct
// starts is used instead.
func (cx *Context) BaseIndentFor(n syntax.Node) int {
	line := cx.Doc.LineAt(n.From())
	for {
		at := cx.Tree.ResolveInner(line.From, 0)
		for p := at.Parent(); p.Valid() && p.From() == at.From(); p = p.Parent() {
			at = p
		}
		if at.Contains(n) || at.From() >= line.From {
			break
		}
		line = cx.Doc.LineAt(at.From())
	}
	return cx.LineIndent(line.From, 1)
}

// blankOrComment reports whether text holds nothing but whitespace and an
// optional comment.
func blankOrComment(text string) bool {
	trimmed := strings.TrimLeft(text, " \t")
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
