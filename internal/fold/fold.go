// Package fold derives collapsible ranges from a Python syntax tree.
package fold

import (
	"bytes"

	"pyedit/internal/syntax"
)

// Range is a collapsible byte range. The text in [From, To) is hidden when
// folded; the line holding From stays visible.
type Range struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// At returns the fold range for a single node. Only ranges that span a
// line break are reported.
func At(n syntax.Node) (Range, bool) {
	var r Range
	switch n.Kind() {
	case syntax.KindBody, syntax.KindMatchBody:
		r = Range{From: n.From() + 1, To: n.To()}
	case syntax.KindArrayExpression, syntax.KindDictionaryExpression,
		syntax.KindSetExpression, syntax.KindTupleExpression:
		first, last := n.FirstChild(), n.LastChild()
		if !first.Valid() || first.Named() || first == last {
			return Range{}, false
		}
		r = Range{From: first.To(), To: last.From()}
		if last.Named() || last.From() == last.To() {
			r.To = n.To()
		}
	case syntax.KindString, syntax.KindFormatString:
		if k := n.Parent().Kind(); k == syntax.KindString || k == syntax.KindFormatString {
			return Range{}, false
		}
		src := n.Tree().Source()
		nl := bytes.IndexByte(src[n.From():n.To()], '\n')
		if nl < 0 {
			return Range{}, false
		}
		end := n.From() + nl
		if end > n.From() && src[end-1] == '\r' {
			end--
		}
		r = Range{From: end, To: n.To()}
	default:
		return Range{}, false
	}
	if r.From >= r.To || !spansLines(n.Tree(), r) {
		return Range{}, false
	}
	return r, true
}

// Ranges returns every fold range in the tree in document order.
func Ranges(tree *syntax.Tree) []Range {
	var out []Range
	tree.Root().Walk(false, func(n syntax.Node) bool {
		if r, ok := At(n); ok {
			out = append(out, r)
		}
		return true
	})
	return out
}

func spansLines(tree *syntax.Tree, r Range) bool {
	src := tree.Source()
	if r.To > len(src) {
		r.To = len(src)
	}
	return bytes.IndexByte(src[r.From:r.To], '\n') >= 0
}
