// Package complete provides identifier completion for Python source: names
// declared in the enclosing scopes of the cursor, and a static table of
// builtins, keywords and statement snippets.
package complete

import (
	"regexp"
	"sync"

	"pyedit/internal/syntax"
)

// Completion categories.
const (
	TypeVariable  = "variable"
	TypeFunction  = "function"
	TypeClass     = "class"
	TypeNamespace = "namespace"
	TypeConstant  = "constant"
	TypeType      = "type"
	TypeKeyword   = "keyword"
)

// Completion is a single candidate.
type Completion struct {
	Label  string `json:"label" yaml:"label"`
	Type   string `json:"type" yaml:"type"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	// Apply is a snippet template with ${name} and ${} placeholders.
	Apply string `json:"apply,omitempty" yaml:"apply,omitempty"`
}

// Result is the answer of one completion source. Options replace the text
// in [From, To).
type Result struct {
	Source   string       `json:"source" yaml:"source"`
	Options  []Completion `json:"options" yaml:"options"`
	From     int          `json:"from" yaml:"from"`
	To       int          `json:"to" yaml:"to"`
	ValidFor string       `json:"validFor" yaml:"validFor"`
}

// Valid reports whether typed text still matches the result, so that it
// can be filtered instead of queried again.
func (r *Result) Valid(text string) bool {
	re := validPattern(r.ValidFor)
	return re != nil && re.MatchString(text)
}

// compiled maps ValidFor expressions to their compiled form. The patterns
// of the built-in sources are compiled at init; others are added on first
// use. A pattern that does not compile is stored as nil.
var compiled sync.Map

func init() {
	compiled.Store(wordPattern, word)
	compiled.Store(identifierPattern, identifier)
}

func validPattern(expr string) *regexp.Regexp {
	if re, ok := compiled.Load(expr); ok {
		return re.(*regexp.Regexp)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		re = nil
	}
	actual, _ := compiled.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp)
}

// Context describes a completion request.
type Context struct {
	Tree *syntax.Tree
	Pos  int
	// Explicit is set when the user asked for completion rather than it
	// being triggered by typing.
	Explicit bool
}

// suppressed reports whether a node of kind k never gets completions.
func suppressed(k syntax.Kind) bool {
	switch k {
	case syntax.KindString, syntax.KindFormatString, syntax.KindComment, syntax.KindPropertyName:
		return true
	}
	return false
}
