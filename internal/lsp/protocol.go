package lsp

import (
	"encoding/json"

	"go.lsp.dev/protocol"
)

// JSON-RPC 2.0 envelope. Parameters and results use go.lsp.dev/protocol
// types; only the pyedit/indentation extension is declared here.
type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC error codes
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
	codeNotInitialized = -32002
	codeInvalidRequest = -32600
)

// MethodIndentation is the request answering IndentationParams.
const MethodIndentation = "pyedit/indentation"

// IndentationParams asks for the indentation of the line at Position.
// With SimulateBreak the answer is for a line break inserted at Position.
// With SimulateDoubleBreak as well, the line break follows a blank line,
// which closes the innermost body when its block allows that.
type IndentationParams struct {
	protocol.TextDocumentPositionParams
	SimulateBreak       bool `json:"simulateBreak,omitempty"`
	SimulateDoubleBreak bool `json:"simulateDoubleBreak,omitempty"`
}

// IndentationResult carries a nil Indent when the line should be left as is.
type IndentationResult struct {
	Indent *int `json:"indent"`
}
