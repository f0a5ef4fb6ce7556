package complete

import (
	"regexp"

	"pyedit/internal/syntax"
)

// identifierPattern matches text that looks like a (partial) identifier.
const identifierPattern = `^[\w\x{a1}-\x{ffff}][\w\d\x{a1}-\x{ffff}]*$`

var identifier = regexp.MustCompile(identifierPattern)

// maxWordLen bounds the tokens considered as identifier prefixes.
const maxWordLen = 20

// Local returns the names declared in every scope enclosing the cursor,
// innermost first. Shadowed names are not removed. It returns nil inside
// strings, comments and attribute names, and for implicit requests whose
// cursor does not follow an identifier.
func (c *Collector) Local(cx Context) *Result {
	if cx.Tree == nil {
		return nil
	}
	inner := cx.Tree.ResolveInner(cx.Pos, -1)
	if suppressed(inner.Kind()) {
		return nil
	}
	isWord := inner.Kind() == syntax.KindVariableName ||
		inner.Len() < maxWordLen && identifier.MatchString(inner.Text())
	if !isWord && !cx.Explicit {
		return nil
	}

	options := []Completion{}
	for n := inner; n.Valid(); n = n.Parent() {
		if isScope(n.Kind()) {
			options = append(options, c.Scope(n)...)
		}
	}
	from := cx.Pos
	if isWord {
		from = inner.From()
	}
	return &Result{
		Source:   "local",
		Options:  options,
		From:     from,
		To:       cx.Pos,
		ValidFor: identifierPattern,
	}
}
