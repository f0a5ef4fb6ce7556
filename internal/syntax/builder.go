package syntax

import "unicode"

// Builder assembles a Tree in document order. Open and Close bracket a
// named node; Token adds an anonymous leaf. The first node opened becomes
// the root and is stretched over the whole source on Finish.
type Builder struct {
	src   []byte
	nodes []node
	stack []int32
}

// NewBuilder starts a tree over src.
func NewBuilder(src []byte) *Builder {
	return &Builder{src: src}
}

func (b *Builder) add(n node) int32 {
	n.parent, n.first, n.last, n.next, n.prev = none, none, none, none, none
	id := int32(len(b.nodes))
	if len(b.stack) > 0 {
		p := b.stack[len(b.stack)-1]
		n.parent = p
		if last := b.nodes[p].last; last != none {
			b.nodes[last].next = id
			n.prev = last
		} else {
			b.nodes[p].first = id
		}
		b.nodes[p].last = id
	}
	b.nodes = append(b.nodes, n)
	return id
}

// Open starts a named node of the given kind at from. typ is the parser's
// type name and is kept for diagnostics.
func (b *Builder) Open(kind Kind, typ string, from int) {
	id := b.add(node{kind: kind, typ: typ, from: from, to: from, named: true})
	b.stack = append(b.stack, id)
}

// Close ends the innermost open node at to. Trailing whitespace is trimmed
// from the span except for string nodes, and the span always covers the
// node's children.
func (b *Builder) Close(to int) {
	if len(b.stack) == 0 {
		return
	}
	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	n := &b.nodes[id]
	if n.kind != KindString && n.kind != KindFormatString {
		for to > n.from && to <= len(b.src) && unicode.IsSpace(rune(b.src[to-1])) {
			to--
		}
	}
	if n.last != none && b.nodes[n.last].to > to {
		to = b.nodes[n.last].to
	}
	if to < n.from {
		to = n.from
	}
	n.to = to
}

// Token adds an anonymous token leaf.
func (b *Builder) Token(text string, from, to int) {
	b.add(node{kind: KindToken, typ: text, from: from, to: to})
}

// Leaf adds a named node without children.
func (b *Builder) Leaf(kind Kind, typ string, from, to int) {
	b.add(node{kind: kind, typ: typ, from: from, to: to, named: true})
}

// Finish closes any node left open and returns the tree.
func (b *Builder) Finish() *Tree {
	for len(b.stack) > 0 {
		b.Close(len(b.src))
	}
	if len(b.nodes) == 0 {
		b.add(node{kind: KindScript, typ: "module", named: true})
	}
	b.nodes[0].from = 0
	b.nodes[0].to = len(b.src)
	t := &Tree{src: b.src, nodes: b.nodes}
	b.nodes = nil
	return t
}
