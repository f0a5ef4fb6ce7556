package syntax

// Kind is the category of a syntax node. The indentation and completion
// engines dispatch on it through fixed tables indexed by Kind.
type Kind uint8

const (
	KindOther Kind = iota
	// KindToken marks anonymous tokens (punctuation and keywords).
	KindToken
	KindError

	KindScript
	KindBody
	KindMatchBody

	KindFunctionDefinition
	KindClassDefinition
	KindLambdaExpression
	KindDecoratedDefinition

	KindForStatement
	KindWhileStatement
	KindIfStatement
	KindElifClause
	KindElseClause
	KindTryStatement
	KindExceptClause
	KindFinallyClause
	KindWithStatement
	KindWithItem
	KindMatchStatement
	KindMatchClause

	KindImportStatement
	KindAliasedImport
	KindAssignStatement
	KindAugmentedAssignment
	KindExpressionStatement
	KindPassStatement
	KindReturnStatement
	KindRaiseStatement
	KindBreakStatement
	KindContinueStatement
	KindSimpleStatement

	KindParamList
	KindTypedParameter
	KindDefaultParameter
	KindSplatParameter

	KindArgList
	KindTupleExpression
	KindParenthesizedExpression
	KindArrayExpression
	KindDictionaryExpression
	KindSetExpression
	KindComprehensionExpression
	KindArrayComprehensionExpression
	KindDictionaryComprehensionExpression
	KindSetComprehensionExpression

	KindNamedExpression
	KindAsPattern
	KindCasePattern
	KindSplatPattern
	KindKeywordPattern
	KindPatternList

	KindAttribute
	KindSubscript
	KindDottedName
	KindVariableName
	KindPropertyName
	KindString
	KindFormatString
	KindComment

	// NumKinds is the size of tables indexed by Kind.
	NumKinds
)

var kindNames = [NumKinds]string{
	KindOther:                             "Other",
	KindToken:                             "Token",
	KindError:                             "Error",
	KindScript:                            "Script",
	KindBody:                              "Body",
	KindMatchBody:                         "MatchBody",
	KindFunctionDefinition:                "FunctionDefinition",
	KindClassDefinition:                   "ClassDefinition",
	KindLambdaExpression:                  "LambdaExpression",
	KindDecoratedDefinition:               "DecoratedDefinition",
	KindForStatement:                      "ForStatement",
	KindWhileStatement:                    "WhileStatement",
	KindIfStatement:                       "IfStatement",
	KindElifClause:                        "ElifClause",
	KindElseClause:                        "ElseClause",
	KindTryStatement:                      "TryStatement",
	KindExceptClause:                      "ExceptClause",
	KindFinallyClause:                     "FinallyClause",
	KindWithStatement:                     "WithStatement",
	KindWithItem:                          "WithItem",
	KindMatchStatement:                    "MatchStatement",
	KindMatchClause:                       "MatchClause",
	KindImportStatement:                   "ImportStatement",
	KindAliasedImport:                     "AliasedImport",
	KindAssignStatement:                   "AssignStatement",
	KindAugmentedAssignment:               "AugmentedAssignment",
	KindExpressionStatement:               "ExpressionStatement",
	KindPassStatement:                     "PassStatement",
	KindReturnStatement:                   "ReturnStatement",
	KindRaiseStatement:                    "RaiseStatement",
	KindBreakStatement:                    "BreakStatement",
	KindContinueStatement:                 "ContinueStatement",
	KindSimpleStatement:                   "SimpleStatement",
	KindParamList:                         "ParamList",
	KindTypedParameter:                    "TypedParameter",
	KindDefaultParameter:                  "DefaultParameter",
	KindSplatParameter:                    "SplatParameter",
	KindArgList:                           "ArgList",
	KindTupleExpression:                   "TupleExpression",
	KindParenthesizedExpression:           "ParenthesizedExpression",
	KindArrayExpression:                   "ArrayExpression",
	KindDictionaryExpression:              "DictionaryExpression",
	KindSetExpression:                     "SetExpression",
	KindComprehensionExpression:           "ComprehensionExpression",
	KindArrayComprehensionExpression:      "ArrayComprehensionExpression",
	KindDictionaryComprehensionExpression: "DictionaryComprehensionExpression",
	KindSetComprehensionExpression:        "SetComprehensionExpression",
	KindNamedExpression:                   "NamedExpression",
	KindAsPattern:                         "AsPattern",
	KindCasePattern:                       "CasePattern",
	KindSplatPattern:                      "SplatPattern",
	KindKeywordPattern:                    "KeywordPattern",
	KindPatternList:                       "PatternList",
	KindAttribute:                         "Attribute",
	KindSubscript:                         "Subscript",
	KindDottedName:                        "DottedName",
	KindVariableName:                      "VariableName",
	KindPropertyName:                      "PropertyName",
	KindString:                            "String",
	KindFormatString:                      "FormatString",
	KindComment:                           "Comment",
}

// String returns the category name.
func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsStatement reports whether nodes of this kind are statements, including
// the clause nodes that carry a compound statement's secondary bodies.
func (k Kind) IsStatement() bool {
	switch k {
	case KindFunctionDefinition, KindClassDefinition, KindDecoratedDefinition,
		KindForStatement, KindWhileStatement, KindIfStatement, KindElifClause,
		KindElseClause, KindTryStatement, KindExceptClause, KindFinallyClause,
		KindWithStatement, KindMatchStatement, KindMatchClause,
		KindImportStatement, KindExpressionStatement, KindPassStatement,
		KindReturnStatement, KindRaiseStatement, KindBreakStatement,
		KindContinueStatement, KindSimpleStatement:
		return true
	}
	return false
}

// IsTerminal reports whether a statement of this kind always ends the
// control flow of its block.
func (k Kind) IsTerminal() bool {
	switch k {
	case KindPassStatement, KindReturnStatement, KindRaiseStatement,
		KindBreakStatement, KindContinueStatement:
		return true
	}
	return false
}

// IsBody reports whether k is an indented block body.
func (k Kind) IsBody() bool {
	return k == KindBody || k == KindMatchBody
}
