package complete

import (
	"testing"

	"pyedit/internal/syntax"
)

// buildAssign builds the tree for "foo = 1\nfo" by hand.
func buildAssign() *syntax.Tree {
	src := []byte("foo = 1\nfo")
	b := syntax.NewBuilder(src)
	b.Open(syntax.KindScript, "module", 0)
	b.Open(syntax.KindExpressionStatement, "expression_statement", 0)
	b.Open(syntax.KindAssignStatement, "assignment", 0)
	b.Leaf(syntax.KindVariableName, "identifier", 0, 3)
	b.Token("=", 4, 5)
	b.Leaf(syntax.KindOther, "integer", 6, 7)
	b.Close(7)
	b.Close(7)
	b.Open(syntax.KindExpressionStatement, "expression_statement", 8)
	b.Leaf(syntax.KindVariableName, "identifier", 8, 10)
	b.Close(10)
	return b.Finish()
}

func TestLocal_HandBuiltTree(t *testing.T) {
	tree := buildAssign()
	r := NewCollector(0, nil).Local(Context{Tree: tree, Pos: 10})
	if r == nil {
		t.Fatal("no result")
	}
	if r.From != 8 || r.To != 10 {
		t.Errorf("span = [%d,%d), want [8,10)", r.From, r.To)
	}
	if len(r.Options) != 1 || r.Options[0] != (Completion{Label: "foo", Type: TypeVariable}) {
		t.Errorf("options = %v, want [foo variable]", r.Options)
	}
	if !r.Valid("foob") || r.Valid("foo bar") {
		t.Error("validFor should accept identifiers only")
	}
}

func TestResult_ValidReusesCompiledPattern(t *testing.T) {
	local := &Result{ValidFor: identifierPattern}
	global := &Result{ValidFor: wordPattern}
	if validPattern(local.ValidFor) != identifier || validPattern(global.ValidFor) != word {
		t.Error("source patterns are not the precompiled ones")
	}
	if allocs := testing.AllocsPerRun(100, func() {
		local.Valid("fooba")
		global.Valid("fooba")
	}); allocs > 1 {
		t.Errorf("Valid allocates %v times per call, want the pattern reused", allocs)
	}

	custom := &Result{ValidFor: `^[a-z]+$`}
	if !custom.Valid("abc") || custom.Valid("ABC") {
		t.Error("custom pattern not applied")
	}
	if validPattern(custom.ValidFor) != validPattern(custom.ValidFor) {
		t.Error("custom pattern compiled twice")
	}
	bad := &Result{ValidFor: `([`}
	if bad.Valid("") || bad.Valid("(") {
		t.Error("an invalid pattern should match nothing")
	}
}

func TestGlobal_WordBeforeCursor(t *testing.T) {
	tree := buildAssign()
	r := Global(Context{Tree: tree, Pos: 10})
	if r == nil || r.From != 8 {
		t.Fatalf("Global = %+v, want word starting at 8", r)
	}
	if len(r.Options) != len(Globals)+len(Snippets) {
		t.Errorf("options = %d, want %d", len(r.Options), len(Globals)+len(Snippets))
	}

	// Right after "=" there is no word.
	if r := Global(Context{Tree: tree, Pos: 5}); r != nil {
		t.Errorf("implicit global after punctuation = %+v", r)
	}
	if r := Global(Context{Tree: tree, Pos: 5, Explicit: true}); r == nil || r.From != 5 {
		t.Errorf("explicit global after punctuation = %+v", r)
	}
}

func TestTables(t *testing.T) {
	if len(Snippets) != 9 {
		t.Errorf("snippets = %d, want 9", len(Snippets))
	}
	types := map[string]int{}
	for _, g := range Globals {
		types[g.Type]++
	}
	for _, typ := range []string{TypeConstant, TypeType, TypeClass, TypeFunction} {
		if types[typ] == 0 {
			t.Errorf("no globals of type %s", typ)
		}
	}
}

func TestLSPSnippet(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"def ${name}(${params}):\n\t${}", "def ${1:name}(${2:params}):\n\t$3"},
		{"while ${}:\n\t${}", "while $1:\n\t$2"},
		{"import os", "import os"},
	}
	for _, tt := range tests {
		if got := LSPSnippet(tt.in); got != tt.want {
			t.Errorf("LSPSnippet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
