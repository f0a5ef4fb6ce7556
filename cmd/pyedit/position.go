package main

import (
	"strings"

	"pyedit/internal/document"
	pyerrors "pyedit/internal/errors"
)

// resolvePosition turns CLI position flags into a byte offset. offset wins
// when non-negative. Otherwise line is 1-based and col a 1-based character
// column; col 0 selects the end of the line.
func resolvePosition(doc *document.Document, line, col, offset int) (int, error) {
	if offset >= 0 {
		if offset > doc.Len() {
			return 0, pyerrors.Newf(pyerrors.PositionOutOfRange,
				"offset %d outside document of length %d", offset, doc.Len())
		}
		return offset, nil
	}
	if line < 1 || line > doc.Lines() {
		return 0, pyerrors.Newf(pyerrors.PositionOutOfRange,
			"line %d outside document of %d lines", line, doc.Lines()).
			WithDetails(map[string]int{"line": line, "lines": doc.Lines()})
	}
	if col <= 0 {
		return doc.Line(line).To, nil
	}
	return doc.OffsetAt(line-1, col-1), nil
}

// LineChangeCLI is one line whose indentation differs from the computed one.
type LineChangeCLI struct {
	Line    int `json:"line" yaml:"line"`
	Current int `json:"current" yaml:"current"`
	Want    int `json:"want" yaml:"want"`
}

// reindent rewrites the leading whitespace of every non-blank line listed
// in indents to the wanted number of spaces. It returns the new text and
// the lines that changed.
func reindent(doc *document.Document, indents map[int]int, tabSize int) (string, []LineChangeCLI) {
	var b strings.Builder
	b.Grow(doc.Len())
	var changes []LineChangeCLI
	for n := 1; n <= doc.Lines(); n++ {
		line := doc.Line(n)
		text := doc.Slice(line.From, line.To)
		want, ok := indents[n]
		if ok && strings.TrimSpace(text) != "" {
			if cur := document.Indentation(text, tabSize); cur != want {
				changes = append(changes, LineChangeCLI{Line: n, Current: cur, Want: want})
				text = strings.Repeat(" ", want) + strings.TrimLeft(text, " \t")
			}
		}
		b.WriteString(text)
		if n < doc.Lines() {
			b.WriteString(doc.Slice(line.To, doc.Line(n+1).From))
		}
	}
	return b.String(), changes
}
