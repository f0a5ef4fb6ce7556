//go:build cgo

package syntax

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps tree-sitter Python parsing. It remembers the last tree so
// that edits can be re-parsed incrementally.
type Parser struct {
	mu     sync.Mutex
	parser *sitter.Parser
	last   *sitter.Tree
	src    []byte
}

// NewParser creates a new tree-sitter parser for Python.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// IsAvailable returns whether parsing is available.
func IsAvailable() bool {
	return true
}

// Parse parses src from scratch.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parse(ctx, nil, src)
}

// Reparse applies edit to the previous tree and parses src reusing the
// unchanged parts. Without a previous tree it falls back to a full parse.
func (p *Parser) Reparse(ctx context.Context, edit Edit, src []byte) (*Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return p.parse(ctx, nil, src)
	}
	start := PointAt(p.src, edit.Start)
	oldEnd := PointAt(p.src, edit.OldEnd)
	newEnd := PointAt(src, edit.NewEnd)
	p.last.Edit(sitter.EditInput{
		StartIndex:  uint32(edit.Start),
		OldEndIndex: uint32(edit.OldEnd),
		NewEndIndex: uint32(edit.NewEnd),
		StartPoint:  sitter.Point{Row: uint32(start.Row), Column: uint32(start.Column)},
		OldEndPoint: sitter.Point{Row: uint32(oldEnd.Row), Column: uint32(oldEnd.Column)},
		NewEndPoint: sitter.Point{Row: uint32(newEnd.Row), Column: uint32(newEnd.Column)},
	})
	return p.parse(ctx, p.last, src)
}

func (p *Parser) parse(ctx context.Context, old *sitter.Tree, src []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, old, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	if tree == nil {
		return nil, ErrParseFailed
	}
	p.last, p.src = tree, src
	return convert(tree.RootNode(), src), nil
}

type converter struct {
	b   *Builder
	src []byte
}

func convert(root *sitter.Node, src []byte) *Tree {
	c := &converter{b: NewBuilder(src), src: src}
	c.node(root, "", false)
	return c.b.Finish()
}

func (c *converter) node(n *sitter.Node, parent string, afterDot bool) {
	typ := n.Type()
	from, to := int(n.StartByte()), int(n.EndByte())
	if !n.IsNamed() {
		c.b.Token(typ, from, to)
		return
	}
	kind := PythonKind(typ, true, parent, afterDot)
	if typ == "string" {
		kind = stringKind(c.src, from)
	}
	if n.ChildCount() == 0 {
		c.b.Leaf(kind, typ, from, to)
		return
	}
	c.b.Open(kind, typ, from)
	c.children(n, typ)
	c.b.Close(to)
}

// children converts the children of n. A block that follows its header
// colon is widened to start at the colon, which becomes the body's first
// token.
func (c *converter) children(n *sitter.Node, typ string) {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		ch := n.Child(i)
		if ch == nil {
			continue
		}
		if !ch.IsNamed() && ch.Type() == ":" {
			if j := blockAfter(n, i); j > 0 {
				block := n.Child(j)
				c.b.Open(PythonKind("block", true, typ, false), "block", int(ch.StartByte()))
				for k := i; k < j; k++ {
					c.node(n.Child(k), "block", false)
				}
				c.children(block, "block")
				c.b.Close(int(block.EndByte()))
				i = j
				continue
			}
		}
		afterDot := false
		if i > 0 {
			if prev := n.Child(i - 1); prev != nil && !prev.IsNamed() && prev.Type() == "." {
				afterDot = true
			}
		}
		c.node(ch, typ, afterDot)
	}
}

func blockAfter(n *sitter.Node, i int) int {
	count := int(n.ChildCount())
	for j := i + 1; j < count; j++ {
		ch := n.Child(j)
		if ch == nil {
			return -1
		}
		switch ch.Type() {
		case "block":
			return j
		case "comment":
			continue
		default:
			return -1
		}
	}
	return -1
}
