package complete

import (
	"log/slog"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"pyedit/internal/syntax"
)

// DefaultCacheSize is the number of scopes kept by a Collector.
const DefaultCacheSize = 1024

// segmentSize is the size above which a plain node's names are cached on
// their own.
const segmentSize = 8192

// scopeKey addresses a node by content. Names collected from a node depend
// only on its text and kind, so equal keys yield equal results across
// re-parses.
type scopeKey struct {
	kind    syntax.Kind
	length  int
	hash    uint64
	segment bool
}

// Stats reports cache usage.
type Stats struct {
	Hits    uint64 `json:"hits" yaml:"hits"`
	Misses  uint64 `json:"misses" yaml:"misses"`
	Entries int    `json:"entries" yaml:"entries"`
}

// Collector gathers the names declared directly in a scope node. It is
// safe for concurrent use.
type Collector struct {
	cache  *lru.Cache[scopeKey, []Completion]
	logger *slog.Logger
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCollector creates a Collector caching up to size scopes. A
// non-positive size selects DefaultCacheSize.
func NewCollector(size int, logger *slog.Logger) *Collector {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cache, err := lru.New[scopeKey, []Completion](size)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &Collector{cache: cache, logger: logger}
}

// Stats returns cache counters.
func (c *Collector) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: c.cache.Len()}
}

// Purge drops every cached scope.
func (c *Collector) Purge() {
	c.cache.Purge()
}

// Scope returns the names declared directly in n, in document order.
// Nested function, class, lambda, loop and case scopes are not entered.
// The returned slice is shared and must not be modified.
func (c *Collector) Scope(n syntax.Node) []Completion {
	return c.collect(n, false)
}

func (c *Collector) collect(n syntax.Node, segment bool) []Completion {
	if !n.Valid() {
		return nil
	}
	key := scopeKey{
		kind:    n.Kind(),
		length:  n.Len(),
		hash:    xxhash.Sum64String(n.Text()),
		segment: segment,
	}
	if cached, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return cached
	}
	c.misses.Add(1)

	g := &gatherer{completions: []Completion{}}
	top := !segment
	n.Walk(true, func(cur syntax.Node) bool {
		if !cur.Named() {
			return false
		}
		if cur == n {
			if gather := gathers[cur.Kind()]; gather != nil && !segment && gather(g, cur, top) {
				return false
			}
			top = false
			return true
		}
		if gather := gathers[cur.Kind()]; gather != nil && gather(g, cur, top) {
			return false
		}
		if !top && isScope(cur.Kind()) {
			return false
		}
		top = false
		if cur.Len() > segmentSize && gathers[cur.Kind()] == nil {
			g.completions = append(g.completions, c.collect(cur, true)...)
			return false
		}
		return true
	})

	c.cache.Add(key, g.completions)
	c.logger.Debug("scope collected",
		"kind", n.Kind().String(),
		"from", n.From(),
		"names", len(g.completions),
		"segment", segment,
	)
	return g.completions
}

func isScope(k syntax.Kind) bool {
	switch k {
	case syntax.KindScript, syntax.KindBody, syntax.KindFunctionDefinition,
		syntax.KindClassDefinition, syntax.KindLambdaExpression,
		syntax.KindForStatement, syntax.KindMatchClause:
		return true
	}
	return false
}

type gatherer struct {
	completions []Completion
}

func (g *gatherer) def(n syntax.Node, typ string) {
	g.completions = append(g.completions, Completion{Label: n.Text(), Type: typ})
}

// defTargets defines every plain name in a binding target, descending into
// tuple and list patterns but not into attribute or subscript targets.
func (g *gatherer) defTargets(n syntax.Node, typ string) {
	switch n.Kind() {
	case syntax.KindVariableName:
		g.def(n, typ)
	case syntax.KindAttribute, syntax.KindSubscript, syntax.KindString,
		syntax.KindFormatString, syntax.KindComment:
	default:
		for ch := n.FirstChild(); ch.Valid(); ch = ch.NextSibling() {
			if ch.Named() {
				g.defTargets(ch, typ)
			}
		}
	}
}

// gather inspects a declaration-introducing node. Returning true skips the
// node's subtree.
type gather func(g *gatherer, n syntax.Node, outer bool) bool

var gathers = [syntax.NumKinds]gather{
	syntax.KindFunctionDefinition: defName(TypeFunction),
	syntax.KindClassDefinition:    defName(TypeClass),
	syntax.KindForStatement:       gatherFor,
	syntax.KindImportStatement:    gatherImport,
	syntax.KindAssignStatement:    gatherAssign,
	syntax.KindParamList:          gatherParams,
	syntax.KindNamedExpression:    gatherNamed,
	syntax.KindAsPattern:          gatherAs,
	syntax.KindExceptClause:       gatherAlias,
	syntax.KindWithItem:           gatherAlias,
	syntax.KindCasePattern:        gatherCapture,
	syntax.KindSplatPattern:       gatherSplat,
	syntax.KindKeywordPattern:     gatherKeyword,
}

// defName defines the name of a function or class in the enclosing scope.
// The definition itself is a scope, so its contents are skipped unless it
// is the scope being collected.
func defName(typ string) gather {
	return func(g *gatherer, n syntax.Node, outer bool) bool {
		if outer {
			return false
		}
		if id := n.Child(syntax.KindVariableName); id.Valid() {
			g.def(id, typ)
		}
		return true
	}
}

func gatherFor(g *gatherer, n syntax.Node, outer bool) bool {
	if !outer {
		return false
	}
	for ch := n.FirstChild(); ch.Valid(); ch = ch.NextSibling() {
		if ch.Is("in") {
			break
		}
		if ch.Named() {
			g.defTargets(ch, TypeVariable)
		}
	}
	return false
}

func gatherImport(g *gatherer, n syntax.Node, _ bool) bool {
	typ := TypeNamespace
	if n.FirstChild().Is("from") {
		typ = TypeVariable
	}
	for ch := n.ChildToken("import"); ch.Valid(); ch = ch.NextSibling() {
		switch ch.Kind() {
		case syntax.KindDottedName:
			if id := ch.Child(syntax.KindVariableName); id.Valid() {
				g.def(id, typ)
			}
		case syntax.KindAliasedImport:
			if alias := ch.ChildToken("as").NextSibling(); alias.Kind() == syntax.KindVariableName {
				g.def(alias, typ)
			}
		}
	}
	return false
}

func gatherAssign(g *gatherer, n syntax.Node, _ bool) bool {
	for ch := n.FirstChild(); ch.Valid(); ch = ch.NextSibling() {
		if ch.Is("=") || ch.Is(":") {
			break
		}
		if ch.Named() {
			g.defTargets(ch, TypeVariable)
		}
	}
	return false
}

func gatherParams(g *gatherer, n syntax.Node, _ bool) bool {
	for ch := n.FirstChild(); ch.Valid(); ch = ch.NextSibling() {
		switch ch.Kind() {
		case syntax.KindVariableName:
			g.def(ch, TypeVariable)
		case syntax.KindTypedParameter:
			if first := ch.FirstChild(); first.Kind() == syntax.KindVariableName {
				g.def(first, TypeVariable)
			}
		case syntax.KindDefaultParameter:
			if id := ch.Child(syntax.KindVariableName); id.Valid() {
				g.def(id, TypeVariable)
			}
		}
	}
	return false
}

func gatherNamed(g *gatherer, n syntax.Node, _ bool) bool {
	if first := n.FirstChild(); first.Kind() == syntax.KindVariableName {
		g.def(first, TypeVariable)
	}
	return false
}

func gatherAs(g *gatherer, n syntax.Node, _ bool) bool {
	for ch := n.ChildToken("as").NextSibling(); ch.Valid(); ch = ch.NextSibling() {
		if ch.Named() {
			g.defTargets(ch, TypeVariable)
		}
	}
	return false
}

func gatherAlias(g *gatherer, n syntax.Node, _ bool) bool {
	if alias := n.ChildToken("as").NextSibling(); alias.Kind() == syntax.KindVariableName {
		g.def(alias, TypeVariable)
	}
	return false
}

// gatherCapture defines the name bound by a bare capture pattern such as
// "case x:". Dotted value patterns and the wildcard bind nothing.
func gatherCapture(g *gatherer, n syntax.Node, _ bool) bool {
	first := n.FirstChild()
	if !first.Valid() || first.NextSibling().Valid() || first.Kind() != syntax.KindDottedName {
		return false
	}
	id := first.FirstChild()
	if id.Kind() != syntax.KindVariableName || id.NextSibling().Valid() || id.Text() == "_" {
		return false
	}
	g.def(id, TypeVariable)
	return true
}

// gatherKeyword defines the capture on the right of a keyword pattern such
// as "case Point(x=a):". The keyword itself names an attribute and binds
// nothing. Nested patterns are left to the walk.
func gatherKeyword(g *gatherer, n syntax.Node, _ bool) bool {
	value := n.ChildToken("=").NextSibling()
	if value.Kind() != syntax.KindDottedName {
		return false
	}
	if id := value.FirstChild(); id.Kind() == syntax.KindVariableName && !id.NextSibling().Valid() && id.Text() != "_" {
		g.def(id, TypeVariable)
	}
	return true
}

func gatherSplat(g *gatherer, n syntax.Node, _ bool) bool {
	if id := n.Child(syntax.KindVariableName); id.Valid() && id.Text() != "_" {
		g.def(id, TypeVariable)
	}
	return true
}
