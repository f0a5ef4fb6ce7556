package indent

import (
	"regexp"
	"strings"

	"pyedit/internal/document"
	"pyedit/internal/syntax"
)

type rule func(cx *Context) Decision

var rules = [syntax.NumKinds]rule{
	syntax.KindBody:           bodyRule,
	syntax.KindMatchBody:      bodyRule,
	syntax.KindIfStatement:    clauseRule(ifClause),
	syntax.KindTryStatement:   clauseRule(tryClause),
	syntax.KindForStatement:   clauseRule(loopElse),
	syntax.KindWhileStatement: clauseRule(loopElse),
	syntax.KindMatchStatement: matchRule,
	syntax.KindScript:         scriptRule,
	syntax.KindError:          errorRule,
	syntax.KindString:         opaqueRule,
	syntax.KindFormatString:   opaqueRule,

	syntax.KindTupleExpression:                   delimited(")"),
	syntax.KindComprehensionExpression:           delimited(")"),
	syntax.KindParamList:                         delimited(")"),
	syntax.KindArgList:                           delimited(")"),
	syntax.KindParenthesizedExpression:           delimited(")"),
	syntax.KindDictionaryExpression:              delimited("}"),
	syntax.KindDictionaryComprehensionExpression: delimited("}"),
	syntax.KindSetExpression:                     delimited("}"),
	syntax.KindSetComprehensionExpression:        delimited("}"),
	syntax.KindArrayExpression:                   delimited("]"),
	syntax.KindArrayComprehensionExpression:      delimited("]"),
}

var (
	// dedentKeyword matches clause introducers that belong to an enclosing
	// compound statement rather than to the body being typed in.
	dedentKeyword = regexp.MustCompile(`^\s*(else:|elif |except[ :]|finally:|case\s+[^=:]+:)`)
	ifClause      = regexp.MustCompile(`^\s*(else:|elif )`)
	tryClause     = regexp.MustCompile(`^\s*(except[ :]|finally:|else:)`)
	loopElse      = regexp.MustCompile(`^\s*else:`)
	caseClause    = regexp.MustCompile(`^\s*case `)
)

func bodyRule(cx *Context) Decision {
	return indentBody(cx, cx.node)
}

// indentBody indents one unit past the header of body, except for blank
// trailing lines that were already dedented, clause keywords typed inside
// the body, and fresh lines after a statement that ends the block.
func indentBody(cx *Context, body syntax.Node) Decision {
	base := cx.BaseIndentFor(body)
	line := cx.LineAt(cx.Pos, -1)
	lineIndent := cx.LineIndent(cx.Pos, -1)

	if blankOrComment(line.Text) && hasStatements(body) &&
		body.To() < line.To+lookahead &&
		strings.TrimSpace(cx.Doc.Slice(line.To, body.To())) == "" &&
		lineIndent <= base {
		return Defer
	}
	// Only a keyword sitting exactly one level in is handed outwards; a
	// deeper one stays in the body.
	if dedentKeyword.MatchString(cx.TextAfter()) && lineIndent > base && lineIndent <= base+cx.Unit {
		return Defer
	}
	if cx.freshLine(line) && endsWithTerminal(cx, body) {
		return Defer
	}
	return Decided(base + cx.Unit)
}

// freshLine reports whether the query is for a new line: a simulated break
// at the position, or a line holding nothing but whitespace.
func (cx *Context) freshLine(line document.Line) bool {
	if cx.simulateBreak >= 0 && cx.simulateBreak == cx.Pos {
		return true
	}
	return strings.TrimSpace(line.Text) == ""
}

// endsWithTerminal reports whether the last statement of body before the
// position is pass, return, raise, break or continue, and nothing else in
// the body follows the position.
func endsWithTerminal(cx *Context, body syntax.Node) bool {
	last := lastStatementBefore(body, cx.Pos)
	if !last.Valid() || !last.Kind().IsTerminal() {
		return false
	}
	if strings.TrimSpace(cx.Doc.Slice(last.To(), cx.Pos)) != "" {
		return false
	}
	for n := last.NextSibling(); n.Valid(); n = n.NextSibling() {
		if n.Kind() != syntax.KindComment {
			return false
		}
	}
	return true
}

func lastStatementBefore(body syntax.Node, pos int) syntax.Node {
	for n := body.ChildBefore(pos); n.Valid(); n = n.PrevSibling() {
		if n.Kind() == syntax.KindComment {
			continue
		}
		if !n.Named() {
			return syntax.Node{}
		}
		return n
	}
	return syntax.Node{}
}

func hasStatements(body syntax.Node) bool {
	for n := body.FirstChild(); n.Valid(); n = n.NextSibling() {
		if n.Named() && n.Kind() != syntax.KindComment {
			return true
		}
	}
	return false
}

// clauseRule puts a line starting with one of the statement's own clause
// keywords at the statement's base indentation.
func clauseRule(re *regexp.Regexp) rule {
	return func(cx *Context) Decision {
		if re.MatchString(cx.TextAfter()) {
			return Decided(cx.BaseIndent())
		}
		return Defer
	}
}

func matchRule(cx *Context) Decision {
	if caseClause.MatchString(cx.TextAfter()) {
		return Decided(cx.BaseIndent() + cx.Unit)
	}
	return Defer
}

func opaqueRule(*Context) Decision {
	return NoOpinion
}

// scriptRule handles positions past the last content of the document: the
// deepest body still open at the end is indented as if the position were
// inside it.
func scriptRule(cx *Context) Decision {
	if strings.TrimSpace(cx.Doc.Slice(cx.Pos, cx.Doc.Len())) != "" {
		return Defer
	}
	end := len(strings.TrimRight(string(cx.Tree.Source()), " \t\r\n"))
	var body syntax.Node
	for cur := cx.node.LastChild(); cur.Valid() && cur.To() == end; cur = cur.LastChild() {
		if cur.Kind().IsBody() {
			body = cur
		}
	}
	if !body.Valid() {
		return Defer
	}
	return indentBody(cx, body)
}

// delimited indents bracketed constructs: content aligns with the first
// item when it follows the bracket on the same line, otherwise it gets one
// unit past the line of the bracket. A closing bracket lines up with the
// opening one.
func delimited(closing string) rule {
	return func(cx *Context) Decision {
		open := cx.node.FirstChild()
		if !open.Valid() || open.Named() || !isOpening(open.Type()) {
			return Defer
		}
		after := cx.TextAfter()
		space := len(after) - len(strings.TrimLeft(after, " \t"))
		closed := strings.HasPrefix(after[space:], closing)
		if last := cx.node.LastChild(); !cx.blankAfterBreak() && last.Is(closing) && last.To() > last.From() && last.From() == cx.Pos+space {
			closed = true
		}
		if from, to, ok := cx.bracketedAligned(open); ok {
			if closed {
				return Decided(cx.Column(from))
			}
			return Decided(cx.Column(to))
		}
		if closed {
			return Decided(cx.BaseIndent())
		}
		return Decided(cx.BaseIndent() + cx.Unit)
	}
}

// unfinished returns the innermost bracketed construct along the trailing
// edge of n that lacks its closing bracket.
func unfinished(n syntax.Node) syntax.Node {
	var found syntax.Node
	for cur := n; cur.Valid(); cur = cur.LastChild() {
		if !cur.Named() || rules[cur.Kind()] == nil {
			continue
		}
		if open := cur.FirstChild(); !open.Valid() || !isOpening(open.Type()) {
			continue
		}
		if last := cur.LastChild(); !isClosing(last.Type()) || last.To() == last.From() {
			found = cur
		}
	}
	return found
}

func isOpening(token string) bool {
	return token == "(" || token == "[" || token == "{"
}

func isClosing(token string) bool {
	return token == ")" || token == "]" || token == "}"
}

// bracketedAligned reports the alignment columns when content follows the
// opening bracket on its own line: the bracket itself for a closing line
// and the first content column otherwise.
func (cx *Context) bracketedAligned(open syntax.Node) (from, to int, ok bool) {
	last := cx.node.LastChild()
	openLine := cx.Doc.LineAt(open.From())
	lineEnd := openLine.To
	if sim := cx.simulateBreak; sim > openLine.From && sim < lineEnd {
		lineEnd = sim
	}
	for next := open.NextSibling(); next.Valid() && next != last; next = next.NextSibling() {
		if next.Kind() == syntax.KindComment {
			continue
		}
		if next.From() >= lineEnd {
			return 0, 0, false
		}
		rest := cx.Doc.Slice(open.To(), openLine.To)
		space := len(rest) - len(strings.TrimLeft(rest, " "))
		return open.From(), open.To() + space, true
	}
	return 0, 0, false
}

// errorRule recovers structure the parser could not: an unclosed bracket
// indents its content, and a line ending in a header colon indents the
// next line.
func errorRule(cx *Context) Decision {
	var stack []syntax.Node
	var last syntax.Node
	cx.node.Walk(true, func(n syntax.Node) bool {
		if n.From() >= cx.Pos || n.Kind() == syntax.KindComment {
			return false
		}
		if n.Named() && n.FirstChild().Valid() {
			return true
		}
		if n.To() > cx.Pos {
			return false
		}
		if !n.Named() {
			switch {
			case isOpening(n.Type()):
				stack = append(stack, n)
			case isClosing(n.Type()) && len(stack) > 0:
				stack = stack[:len(stack)-1]
			}
		}
		last = n
		return false
	})

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		base := cx.LineIndent(open.From(), 1)
		after := strings.TrimLeft(cx.TextAfter(), " \t")
		if after != "" && isClosing(after[:1]) {
			return Decided(base)
		}
		return Decided(base + cx.Unit)
	}
	if last.Is(":") {
		afterColon := cx.simulateBreak == cx.Pos ||
			cx.Doc.LineAt(last.To()).Number < cx.Doc.LineAt(cx.Pos).Number
		if afterColon {
			return Decided(cx.LineIndent(last.From(), 1) + cx.Unit)
		}
	}
	return Defer
}
