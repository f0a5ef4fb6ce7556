// Package lsp serves the Python editing providers over the language server
// protocol: Content-Length framed JSON-RPC 2.0 on a byte stream.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	pyerrors "pyedit/internal/errors"
)

// ErrExit is returned by Serve after an exit notification.
var ErrExit = errors.New("exit requested")

// maxContentLength bounds a single message body. Larger frames are
// rejected before any allocation.
const maxContentLength = 64 << 20

// HandlerFunc processes a JSON-RPC request and returns a result or error.
type HandlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

// NotifyFunc processes a JSON-RPC notification (no response expected).
type NotifyFunc func(ctx context.Context, params json.RawMessage)

// Server implements the JSON-RPC 2.0 transport for LSP.
type Server struct {
	reader   *bufio.Reader
	writer   io.Writer
	logger   *slog.Logger
	handlers map[string]HandlerFunc
	notifs   map[string]NotifyFunc
	outMu    sync.Mutex
	exit     bool
}

// NewServer creates a server reading requests from in and writing
// responses to out.
func NewServer(in io.Reader, out io.Writer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		reader:   bufio.NewReader(in),
		writer:   out,
		logger:   logger,
		handlers: make(map[string]HandlerFunc),
		notifs:   make(map[string]NotifyFunc),
	}
}

func (s *Server) Handle(method string, fn HandlerFunc) {
	s.handlers[method] = fn
}

func (s *Server) OnNotify(method string, fn NotifyFunc) {
	s.notifs[method] = fn
}

// Exit makes Serve return ErrExit after the current message.
func (s *Server) Exit() {
	s.exit = true
}

// Serve reads messages in a loop until EOF, exit or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.ServeOnce(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.exit {
			return ErrExit
		}
	}
}

// ServeOnce reads and handles a single message.
func (s *Server) ServeOnce(ctx context.Context) error {
	body, err := readFrame(s.reader)
	if err != nil {
		return err
	}
	var msg rpcMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.logger.Warn("malformed message", "error", err)
		return s.sendError(json.RawMessage("null"), &rpcError{Code: codeParseError, Message: err.Error()})
	}

	isNotification := len(msg.ID) == 0 || string(msg.ID) == "null"
	if isNotification {
		if fn, ok := s.notifs[msg.Method]; ok {
			fn(ctx, msg.Params)
		} else {
			s.logger.Debug("notification ignored", "method", msg.Method)
		}
		return nil
	}

	fn, ok := s.handlers[msg.Method]
	if !ok {
		return s.sendError(msg.ID, &rpcError{Code: codeMethodNotFound, Message: "method not found: " + msg.Method})
	}

	result, handlerErr := fn(ctx, msg.Params)
	if handlerErr != nil {
		s.logger.Debug("request failed", "method", msg.Method, "error", handlerErr)
		return s.sendError(msg.ID, toRPCError(handlerErr))
	}
	return s.sendResult(msg.ID, result)
}

func toRPCError(err error) *rpcError {
	var re *rpcError
	if errors.As(err, &re) {
		return re
	}
	var pe *pyerrors.PyeditError
	if errors.As(err, &pe) {
		return &rpcError{Code: pe.RPCCode(), Message: pe.Error(), Data: map[string]string{"code": string(pe.Code)}}
	}
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &te) {
		return &rpcError{Code: codeInvalidParams, Message: err.Error()}
	}
	return &rpcError{Code: codeInternalError, Message: err.Error()}
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (s *Server) sendResult(id json.RawMessage, result any) error {
	return s.write(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id json.RawMessage, e *rpcError) error {
	return s.write(rpcResponse{JSONRPC: "2.0", ID: id, Error: e})
}

// Notify sends a server-initiated notification.
func (s *Server) Notify(method string, params any) error {
	return s.write(struct {
		JSONRPC string `json:"jsonrpc"`
		Method  string `json:"method"`
		Params  any    `json:"params,omitempty"`
	}{JSONRPC: "2.0", Method: method, Params: params})
}

func (s *Server) write(msg any) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return writeMessage(s.writer, msg)
}

// readFrame reads one Content-Length framed message body.
func readFrame(br *bufio.Reader) ([]byte, error) {
	contentLen := -1
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" && contentLen < 0 {
				return nil, io.EOF
			}
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid Content-Length %q", value)
		}
		if n > maxContentLength {
			return nil, fmt.Errorf("Content-Length %d exceeds limit of %d bytes", n, maxContentLength)
		}
		contentLen = n
	}
	if contentLen < 0 {
		return nil, errors.New("missing Content-Length")
	}
	body := make([]byte, contentLen)
	if _, err := io.ReadFull(br, body); err != nil {
		return nil, err
	}
	return body, nil
}

// writeMessage writes a Content-Length framed JSON-RPC message.
func writeMessage(w io.Writer, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}
