// Package syntax holds the immutable syntax tree the editing engines read.
//
// Nodes live in an arena owned by the Tree. A Node is a small handle made of
// the tree pointer and an arena index; the index is the node's identity
// within one tree generation. Anonymous tokens (punctuation, keywords) are
// kept in the arena so that traversals can include them.
package syntax

import (
	"strings"
)

const none = -1

type node struct {
	kind   Kind
	typ    string
	from   int
	to     int
	parent int32
	first  int32
	last   int32
	next   int32
	prev   int32
	named  bool
}

// Tree is an immutable syntax tree over a source text.
type Tree struct {
	src   []byte
	nodes []node
}

// Source returns the text the tree was built from.
func (t *Tree) Source() []byte {
	return t.src
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the top node. Its span always covers the whole text.
func (t *Tree) Root() Node {
	if t == nil || len(t.nodes) == 0 {
		return Node{}
	}
	return Node{t: t, i: 0}
}

// Node returns the node stored at arena index id.
func (t *Tree) Node(id int) Node {
	if id < 0 || id >= len(t.nodes) {
		return Node{}
	}
	return Node{t: t, i: int32(id)}
}

// Slice returns the source text between two offsets, clamped to the text.
func (t *Tree) Slice(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(t.src) {
		to = len(t.src)
	}
	if from >= to {
		return ""
	}
	return string(t.src[from:to])
}

// ResolveInner returns the innermost named node around pos. With bias < 0 a
// node ending at pos qualifies, with bias > 0 a node starting at pos does,
// and with bias 0 the node must strictly contain pos. The root is returned
// when nothing deeper matches.
func (t *Tree) ResolveInner(pos, bias int) Node {
	cur := t.Root()
	if !cur.Valid() {
		return cur
	}
	for {
		next := Node{}
		for ch := cur.FirstChild(); ch.Valid(); ch = ch.NextSibling() {
			if ch.Named() && covers(ch, pos, bias) {
				next = ch
				break
			}
		}
		if !next.Valid() {
			return cur
		}
		cur = next
	}
}

func covers(n Node, pos, bias int) bool {
	from, to := n.From(), n.To()
	switch {
	case bias < 0:
		return from < pos && pos <= to
	case bias > 0:
		return from <= pos && pos < to
	default:
		return from < pos && pos < to
	}
}

// Node is a handle to a node in a Tree. The zero Node is invalid and every
// accessor on it returns a zero value, so navigation chains never panic.
type Node struct {
	t *Tree
	i int32
}

func (n Node) raw() *node {
	return &n.t.nodes[n.i]
}

// Valid reports whether n refers to a node.
func (n Node) Valid() bool {
	return n.t != nil
}

// ID returns the arena index of the node.
func (n Node) ID() int {
	if n.t == nil {
		return none
	}
	return int(n.i)
}

// Tree returns the tree the node belongs to.
func (n Node) Tree() *Tree {
	return n.t
}

func (n Node) Kind() Kind {
	if n.t == nil {
		return KindOther
	}
	return n.raw().kind
}

// Type returns the parser's type name, or the token text for anonymous tokens.
func (n Node) Type() string {
	if n.t == nil {
		return ""
	}
	return n.raw().typ
}

func (n Node) From() int {
	if n.t == nil {
		return 0
	}
	return n.raw().from
}

func (n Node) To() int {
	if n.t == nil {
		return 0
	}
	return n.raw().to
}

// Len returns the byte length of the node's span.
func (n Node) Len() int {
	return n.To() - n.From()
}

// Named reports whether n is a named node rather than an anonymous token.
func (n Node) Named() bool {
	return n.t != nil && n.raw().named
}

// Is reports whether n is an anonymous token with the given text.
func (n Node) Is(token string) bool {
	return n.t != nil && !n.raw().named && n.raw().typ == token
}

// Text returns the source text covered by n.
func (n Node) Text() string {
	if n.t == nil {
		return ""
	}
	return n.t.Slice(n.From(), n.To())
}

func (n Node) link(i int32) Node {
	if i == none {
		return Node{}
	}
	return Node{t: n.t, i: i}
}

func (n Node) Parent() Node {
	if n.t == nil {
		return Node{}
	}
	return n.link(n.raw().parent)
}

func (n Node) FirstChild() Node {
	if n.t == nil {
		return Node{}
	}
	return n.link(n.raw().first)
}

func (n Node) LastChild() Node {
	if n.t == nil {
		return Node{}
	}
	return n.link(n.raw().last)
}

func (n Node) NextSibling() Node {
	if n.t == nil {
		return Node{}
	}
	return n.link(n.raw().next)
}

func (n Node) PrevSibling() Node {
	if n.t == nil {
		return Node{}
	}
	return n.link(n.raw().prev)
}

// Child returns the first direct child of the given kind.
func (n Node) Child(kind Kind) Node {
	for ch := n.FirstChild(); ch.Valid(); ch = ch.NextSibling() {
		if ch.Kind() == kind {
			return ch
		}
	}
	return Node{}
}

// ChildToken returns the first anonymous child token with the given text.
func (n Node) ChildToken(token string) Node {
	for ch := n.FirstChild(); ch.Valid(); ch = ch.NextSibling() {
		if ch.Is(token) {
			return ch
		}
	}
	return Node{}
}

// ChildBefore returns the last child that ends at or before pos.
func (n Node) ChildBefore(pos int) Node {
	for ch := n.LastChild(); ch.Valid(); ch = ch.PrevSibling() {
		if ch.To() <= pos {
			return ch
		}
	}
	return Node{}
}

// Contains reports whether other is n or one of its descendants.
func (n Node) Contains(other Node) bool {
	if n.t == nil || n.t != other.t {
		return false
	}
	for cur := other; cur.Valid(); cur = cur.Parent() {
		if cur.i == n.i {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in document order. Anonymous tokens are
// visited only when includeTokens is set. Returning false from enter skips
// the node's children.
func (n Node) Walk(includeTokens bool, enter func(Node) bool) {
	if !n.Valid() {
		return
	}
	if !n.Named() && !includeTokens {
		return
	}
	if !enter(n) {
		return
	}
	for ch := n.FirstChild(); ch.Valid(); ch = ch.NextSibling() {
		ch.Walk(includeTokens, enter)
	}
}

// String renders the subtree as an S-expression of kinds, for debugging and
// test failure messages.
func (n Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n Node) write(b *strings.Builder) {
	if !n.Valid() {
		b.WriteString("<nil>")
		return
	}
	if !n.Named() {
		b.WriteString("\"" + n.Type() + "\"")
		return
	}
	b.WriteString("(" + n.Kind().String())
	for ch := n.FirstChild(); ch.Valid(); ch = ch.NextSibling() {
		b.WriteByte(' ')
		ch.write(b)
	}
	b.WriteByte(')')
}
