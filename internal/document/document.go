// Package document provides an immutable text snapshot with a line index.
package document

import (
	"sort"
	"unicode/utf8"
)

// DefaultTabSize is used when a caller passes a non-positive tab size.
const DefaultTabSize = 4

// Line is one line of a document, without its line break.
type Line struct {
	// Number is 1-based.
	Number int
	From   int
	To     int
	Text   string
}

// Document is an immutable text with precomputed line starts.
// Positions are byte offsets.
type Document struct {
	text   []byte
	starts []int
}

// New indexes text. The slice must not be modified afterwards.
func New(text []byte) *Document {
	starts := []int{0}
	for i, c := range text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{text: text, starts: starts}
}

// FromString indexes a string.
func FromString(s string) *Document {
	return New([]byte(s))
}

func (d *Document) Bytes() []byte { return d.text }
func (d *Document) String() string { return string(d.text) }
func (d *Document) Len() int       { return len(d.text) }

// Lines returns the number of lines. An empty text has one empty line.
func (d *Document) Lines() int {
	return len(d.starts)
}

// Line returns line n (1-based), clamped to the valid range.
func (d *Document) Line(n int) Line {
	if n < 1 {
		n = 1
	}
	if n > len(d.starts) {
		n = len(d.starts)
	}
	from := d.starts[n-1]
	to := len(d.text)
	if n < len(d.starts) {
		to = d.starts[n] - 1
	}
	if to > from && d.text[to-1] == '\r' {
		to--
	}
	return Line{Number: n, From: from, To: to, Text: string(d.text[from:to])}
}

// LineAt returns the line containing pos. A position at a line start
// belongs to that line.
func (d *Document) LineAt(pos int) Line {
	pos = d.clamp(pos)
	n := sort.Search(len(d.starts), func(i int) bool { return d.starts[i] > pos })
	return d.Line(n)
}

// Slice returns the text in [from, to), clamped to the document.
func (d *Document) Slice(from, to int) string {
	from, to = d.clamp(from), d.clamp(to)
	if from >= to {
		return ""
	}
	return string(d.text[from:to])
}

func (d *Document) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(d.text) {
		return len(d.text)
	}
	return pos
}

// Indentation returns the indentation column of line text.
func Indentation(text string, tabSize int) int {
	end := 0
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return CountColumn(text[:end], tabSize)
}

// CountColumn returns the column reached after text, expanding tabs to the
// next multiple of tabSize and counting each code point as one column.
func CountColumn(text string, tabSize int) int {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	col := 0
	for _, r := range text {
		if r == '\t' {
			col += tabSize - col%tabSize
		} else {
			col++
		}
	}
	return col
}

// OffsetAt converts a zero-based line and UTF-16 character index, as used
// by the language server protocol, into a byte offset.
func (d *Document) OffsetAt(line, character int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.starts) {
		return len(d.text)
	}
	l := d.Line(line + 1)
	off := l.From
	units := 0
	for off < l.To && units < character {
		r, size := utf8.DecodeRune(d.text[off:])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		off += size
	}
	return off
}

// PositionAt converts a byte offset into a zero-based line and UTF-16
// character index.
func (d *Document) PositionAt(offset int) (line, character int) {
	offset = d.clamp(offset)
	l := d.LineAt(offset)
	for off := l.From; off < offset && off < l.To; {
		r, size := utf8.DecodeRune(d.text[off:])
		if r >= 0x10000 {
			character += 2
		} else {
			character++
		}
		off += size
	}
	return l.Number - 1, character
}
