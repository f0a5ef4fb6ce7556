package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for the CLI and language server
type ErrorCode string

const (
	// FileNotFound indicates the requested source file does not exist
	FileNotFound ErrorCode = "FILE_NOT_FOUND"
	// ParseFailed indicates the parser could not produce a tree
	ParseFailed ErrorCode = "PARSE_FAILED"
	// ParserUnavailable indicates the binary was built without cgo
	ParserUnavailable ErrorCode = "PARSER_UNAVAILABLE"
	// PositionOutOfRange indicates a line, column or offset outside the document
	PositionOutOfRange ErrorCode = "POSITION_OUT_OF_RANGE"
	// DocumentNotOpen indicates a request for a document the server does not hold
	DocumentNotOpen ErrorCode = "DOCUMENT_NOT_OPEN"
	// InvalidConfig indicates a configuration value failed validation
	InvalidConfig ErrorCode = "INVALID_CONFIG"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// JSON-RPC error codes reported by the language server.
const (
	rpcInvalidParams = -32602
	rpcInternalError = -32603
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Command     string `json:"command,omitempty"`
	Description string `json:"description"`
}

// PyeditError is an error with a stable code, optional details and
// suggested fixes.
type PyeditError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        any         `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a PyeditError carrying the default fixes for code.
func New(code ErrorCode, message string, cause error) *PyeditError {
	return &PyeditError{
		Code:           code,
		Message:        message,
		SuggestedFixes: GetSuggestedFixes(code),
		cause:          cause,
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...any) *PyeditError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *PyeditError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PyeditError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *PyeditError) WithDetails(details any) *PyeditError {
	e.Details = details
	return e
}

// RPCCode maps the error onto a JSON-RPC error code.
func (e *PyeditError) RPCCode() int {
	switch e.Code {
	case PositionOutOfRange, DocumentNotOpen, InvalidConfig:
		return rpcInvalidParams
	default:
		return rpcInternalError
	}
}

// CodeOf returns the code of the first PyeditError in err's chain, or
// InternalError.
func CodeOf(err error) ErrorCode {
	var pe *PyeditError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return InternalError
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ParserUnavailable: {
		{
			Command:     "CGO_ENABLED=1 go install ./cmd/pyedit",
			Description: "Rebuild pyedit with cgo so the tree-sitter parser is linked in",
		},
	},
	InvalidConfig: {
		{
			Command:     "pyedit config show",
			Description: "Inspect the effective configuration",
		},
		{
			Command:     "pyedit config init --force",
			Description: "Rewrite .pyedit/config.toml with defaults",
		},
	},
	FileNotFound: {
		{
			Description: "Check the path; it is resolved against the working directory",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
