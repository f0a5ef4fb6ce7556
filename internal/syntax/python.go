package syntax

import (
	"errors"
	"strings"
)

var (
	// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
	ErrNoCGO = errors.New("python parsing requires CGO (tree-sitter)")
	// ErrParseFailed wraps failures reported by the parser.
	ErrParseFailed = errors.New("parse failed")
)

// Edit describes a text change in byte offsets: the range [Start, OldEnd)
// of the previous text was replaced and now ends at NewEnd.
type Edit struct {
	Start  int
	OldEnd int
	NewEnd int
}

// Point is a zero-based row and byte column.
type Point struct {
	Row    int
	Column int
}

// PointAt converts a byte offset in src into a row/column point.
func PointAt(src []byte, offset int) Point {
	if offset > len(src) {
		offset = len(src)
	}
	var p Point
	lineStart := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			p.Row++
			lineStart = i + 1
		}
	}
	p.Column = offset - lineStart
	return p
}

var pythonKinds = map[string]Kind{
	"module":                    KindScript,
	"block":                     KindBody,
	"function_definition":       KindFunctionDefinition,
	"class_definition":          KindClassDefinition,
	"lambda":                    KindLambdaExpression,
	"decorated_definition":      KindDecoratedDefinition,
	"for_statement":             KindForStatement,
	"while_statement":           KindWhileStatement,
	"if_statement":              KindIfStatement,
	"elif_clause":               KindElifClause,
	"else_clause":               KindElseClause,
	"try_statement":             KindTryStatement,
	"except_clause":             KindExceptClause,
	"except_group_clause":       KindExceptClause,
	"finally_clause":            KindFinallyClause,
	"with_statement":            KindWithStatement,
	"with_item":                 KindWithItem,
	"match_statement":           KindMatchStatement,
	"case_clause":               KindMatchClause,
	"import_statement":          KindImportStatement,
	"import_from_statement":     KindImportStatement,
	"future_import_statement":   KindImportStatement,
	"aliased_import":            KindAliasedImport,
	"assignment":                KindAssignStatement,
	"augmented_assignment":      KindAugmentedAssignment,
	"expression_statement":      KindExpressionStatement,
	"pass_statement":            KindPassStatement,
	"return_statement":          KindReturnStatement,
	"raise_statement":           KindRaiseStatement,
	"break_statement":           KindBreakStatement,
	"continue_statement":        KindContinueStatement,
	"parameters":                KindParamList,
	"lambda_parameters":         KindParamList,
	"typed_parameter":           KindTypedParameter,
	"default_parameter":         KindDefaultParameter,
	"typed_default_parameter":   KindDefaultParameter,
	"list_splat_pattern":        KindSplatParameter,
	"dictionary_splat_pattern":  KindSplatParameter,
	"argument_list":             KindArgList,
	"tuple":                     KindTupleExpression,
	"parenthesized_expression":  KindParenthesizedExpression,
	"list":                      KindArrayExpression,
	"dictionary":                KindDictionaryExpression,
	"set":                       KindSetExpression,
	"generator_expression":      KindComprehensionExpression,
	"list_comprehension":        KindArrayComprehensionExpression,
	"dictionary_comprehension":  KindDictionaryComprehensionExpression,
	"set_comprehension":         KindSetComprehensionExpression,
	"named_expression":          KindNamedExpression,
	"as_pattern":                KindAsPattern,
	"case_pattern":              KindCasePattern,
	"splat_pattern":             KindSplatPattern,
	"keyword_pattern":           KindKeywordPattern,
	"pattern_list":              KindPatternList,
	"tuple_pattern":             KindPatternList,
	"list_pattern":              KindPatternList,
	"attribute":                 KindAttribute,
	"subscript":                 KindSubscript,
	"dotted_name":               KindDottedName,
	"identifier":                KindVariableName,
	"string":                    KindString,
	"string_start":              KindString,
	"string_content":            KindString,
	"string_end":                KindString,
	"escape_sequence":           KindString,
	"comment":                   KindComment,
	"ERROR":                     KindError,
}

// PythonKind maps a tree-sitter Python node type to its Kind. parent is the
// type of the enclosing node and afterDot reports whether the node directly
// follows a "." token, which makes an identifier a property name.
func PythonKind(typ string, named bool, parent string, afterDot bool) Kind {
	if !named {
		return KindToken
	}
	kind, ok := pythonKinds[typ]
	if !ok {
		if strings.HasSuffix(typ, "_statement") {
			return KindSimpleStatement
		}
		return KindOther
	}
	switch kind {
	case KindBody:
		if parent == "match_statement" {
			return KindMatchBody
		}
	case KindVariableName:
		if parent == "attribute" && afterDot {
			return KindPropertyName
		}
	}
	return kind
}

// stringKind distinguishes formatted string literals by their prefix.
func stringKind(src []byte, from int) Kind {
	for i := from; i < len(src) && i < from+3; i++ {
		switch src[i] {
		case 'f', 'F':
			return KindFormatString
		case '\'', '"':
			return KindString
		}
	}
	return KindString
}
