// Package python bundles the Python editing services: parsing, indentation,
// folding and completion over a document that is edited incrementally.
package python

import "regexp"

// LanguageData describes editor behavior that does not need a syntax tree.
type LanguageData struct {
	// CloseBrackets are the opening tokens that get a matching closer.
	CloseBrackets []string `json:"closeBrackets" yaml:"closeBrackets"`
	// StringPrefixes may precede a quote and still start a string.
	StringPrefixes []string `json:"stringPrefixes" yaml:"stringPrefixes"`
	LineComment    string   `json:"lineComment" yaml:"lineComment"`
	// IndentOnInput matches a line whose indentation must be recomputed
	// once it has been typed.
	IndentOnInput *regexp.Regexp `json:"-" yaml:"-"`
}

// Data is the language data for Python.
var Data = LanguageData{
	CloseBrackets: []string{"(", "[", "{", "'", `"`, "'''", `"""`},
	StringPrefixes: []string{
		"f", "fr", "rf", "r", "u", "b", "br", "rb",
		"F", "FR", "RF", "R", "U", "B", "BR", "RB",
	},
	LineComment:   "#",
	IndentOnInput: regexp.MustCompile(`^\s*([\}\]\)]|else:|elif |except |except:|finally:|case\s+[^:]*:?)$`),
}

// ShouldReindent reports whether the text typed so far on a line requires
// its indentation to be recomputed.
func ShouldReindent(linePrefix string) bool {
	return Data.IndentOnInput.MatchString(linePrefix)
}
