package complete

import (
	"regexp"
	"strconv"
	"strings"
)

// maxWordLookback bounds how far before the cursor a word is searched.
const maxWordLookback = 250

const wordPattern = `^\w*$`

var word = regexp.MustCompile(wordPattern)

var wordBefore = regexp.MustCompile(`\w+$`)

func named(typ string, names ...string) []Completion {
	out := make([]Completion, len(names))
	for i, n := range names {
		out[i] = Completion{Label: n, Type: typ}
	}
	return out
}

// Globals are the builtin names of the language.
var Globals = concat(
	named(TypeConstant,
		"__annotations__", "__builtins__", "__debug__", "__doc__", "__import__", "__name__",
		"__loader__", "__package__", "__spec__",
		"False", "None", "True"),
	named(TypeType,
		"ArithmeticError", "AssertionError", "AttributeError", "BaseException", "BlockingIOError",
		"BrokenPipeError", "BufferError", "BytesWarning", "ChildProcessError", "ConnectionAbortedError",
		"ConnectionError", "ConnectionRefusedError", "ConnectionResetError", "DeprecationWarning",
		"EOFError", "Ellipsis", "EncodingWarning", "EnvironmentError", "Exception", "FileExistsError",
		"FileNotFoundError", "FloatingPointError", "FutureWarning", "GeneratorExit", "IOError",
		"ImportError", "ImportWarning", "IndentationError", "IndexError", "InterruptedError",
		"IsADirectoryError", "KeyError", "KeyboardInterrupt", "LookupError", "MemoryError",
		"ModuleNotFoundError", "NameError", "NotADirectoryError", "NotImplemented", "NotImplementedError",
		"OSError", "OverflowError", "PendingDeprecationWarning", "PermissionError", "ProcessLookupError",
		"RecursionError", "ReferenceError", "ResourceWarning", "RuntimeError", "RuntimeWarning",
		"StopAsyncIteration", "StopIteration", "SyntaxError", "SyntaxWarning", "SystemError",
		"SystemExit", "TabError", "TimeoutError", "TypeError", "UnboundLocalError", "UnicodeDecodeError",
		"UnicodeEncodeError", "UnicodeError", "UnicodeTranslateError", "UnicodeWarning", "UserWarning",
		"ValueError", "Warning", "ZeroDivisionError"),
	named(TypeClass,
		"bool", "bytearray", "bytes", "classmethod", "complex", "float", "frozenset", "int", "list",
		"map", "memoryview", "object", "range", "set", "staticmethod", "str", "super", "tuple", "type"),
	named(TypeFunction,
		"abs", "aiter", "all", "anext", "any", "ascii", "bin", "breakpoint", "callable", "chr",
		"compile", "delattr", "dict", "dir", "divmod", "enumerate", "eval", "exec", "exit", "filter",
		"format", "getattr", "globals", "hasattr", "hash", "help", "hex", "id", "input", "isinstance",
		"issubclass", "iter", "len", "license", "locals", "max", "min", "next", "oct", "open",
		"ord", "pow", "print", "property", "quit", "repr", "reversed", "round", "setattr", "slice",
		"sorted", "sum", "vars", "zip"),
)

// Snippets are statement templates. ${name} marks a named placeholder and
// ${} an empty one.
var Snippets = []Completion{
	{Label: "def", Detail: "function", Type: TypeKeyword, Apply: "def ${name}(${params}):\n\t${}"},
	{Label: "for", Detail: "loop", Type: TypeKeyword, Apply: "for ${name} in ${collection}:\n\t${}"},
	{Label: "while", Detail: "loop", Type: TypeKeyword, Apply: "while ${}:\n\t${}"},
	{Label: "try", Detail: "/ except block", Type: TypeKeyword, Apply: "try:\n\t${}\nexcept ${error}:\n\t${}"},
	{Label: "if", Detail: "block", Type: TypeKeyword, Apply: "if ${}:\n\t\n"},
	{Label: "if", Detail: "/ else block", Type: TypeKeyword, Apply: "if ${}:\n\t${}\nelse:\n\t${}"},
	{Label: "class", Detail: "definition", Type: TypeKeyword, Apply: "class ${name}:\n\tdef __init__(self, ${params}):\n\t\t\t${}"},
	{Label: "import", Detail: "statement", Type: TypeKeyword, Apply: "import ${module}"},
	{Label: "from", Detail: "import", Type: TypeKeyword, Apply: "from ${module} import ${names}"},
}

var globalOptions = concat(Globals, Snippets)

func concat(lists ...[]Completion) []Completion {
	var out []Completion
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// Global completes builtins and snippets for the word before the cursor.
// Nothing is offered inside strings, comments or attribute names.
func Global(cx Context) *Result {
	if cx.Tree == nil {
		return nil
	}
	for n := cx.Tree.ResolveInner(cx.Pos, -1); n.Valid(); n = n.Parent() {
		if suppressed(n.Kind()) {
			return nil
		}
	}
	src := cx.Tree.Source()
	pos := cx.Pos
	if pos > len(src) {
		pos = len(src)
	}
	start := pos - maxWordLookback
	if start < 0 {
		start = 0
	}
	if nl := strings.LastIndexByte(string(src[start:pos]), '\n'); nl >= 0 {
		start += nl + 1
	}
	from := pos
	if loc := wordBefore.FindIndex(src[start:pos]); loc != nil {
		from = start + loc[0]
	} else if !cx.Explicit {
		return nil
	}
	return &Result{
		Source:   "global",
		Options:  globalOptions,
		From:     from,
		To:       pos,
		ValidFor: wordPattern,
	}
}

var placeholder = regexp.MustCompile(`\$\{([^}]*)\}`)

// LSPSnippet converts a template into language server snippet syntax,
// numbering placeholders from left to right.
func LSPSnippet(template string) string {
	n := 0
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		n++
		name := m[2 : len(m)-1]
		if name == "" {
			return "$" + strconv.Itoa(n)
		}
		return "${" + strconv.Itoa(n) + ":" + name + "}"
	})
}
