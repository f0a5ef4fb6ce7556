package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.lsp.dev/protocol"

	"pyedit/internal/complete"
	"pyedit/internal/config"
	"pyedit/internal/document"
	pyerrors "pyedit/internal/errors"
	"pyedit/internal/fold"
	"pyedit/internal/indent"
	"pyedit/internal/python"
	"pyedit/internal/version"
)

// Service holds the open documents of one client session and handles its
// requests.
type Service struct {
	support *python.Support
	config  config.LSPConfig
	logger  *slog.Logger
	session string

	mu          sync.RWMutex
	docs        map[protocol.DocumentURI]*python.File
	initialized bool
	shutdown    bool
}

// NewService creates a service. Each service gets a fresh session id that
// tags its log records.
func NewService(support *python.Support, cfg config.LSPConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	session := uuid.NewString()
	return &Service{
		support: support,
		config:  cfg,
		logger:  logger.With("session", session),
		session: session,
		docs:    make(map[protocol.DocumentURI]*python.File),
	}
}

// Session returns the session id.
func (s *Service) Session() string { return s.session }

// Register wires all LSP handlers onto a Server.
func (s *Service) Register(srv *Server) {
	srv.Handle(protocol.MethodInitialize, s.handleInitialize)
	srv.Handle(protocol.MethodShutdown, s.handleShutdown)
	srv.Handle(protocol.MethodTextDocumentCompletion, s.ready(s.handleCompletion))
	srv.Handle(protocol.MethodTextDocumentFoldingRange, s.ready(s.handleFoldingRange))
	srv.Handle(protocol.MethodTextDocumentOnTypeFormatting, s.ready(s.handleOnTypeFormatting))
	srv.Handle(MethodIndentation, s.ready(s.handleIndentation))

	srv.OnNotify(protocol.MethodInitialized, func(context.Context, json.RawMessage) {})
	srv.OnNotify(protocol.MethodTextDocumentDidOpen, s.handleDidOpen)
	srv.OnNotify(protocol.MethodTextDocumentDidChange, s.handleDidChange)
	srv.OnNotify(protocol.MethodTextDocumentDidClose, s.handleDidClose)
	srv.OnNotify(protocol.MethodExit, func(context.Context, json.RawMessage) {
		s.logger.Info("exit", "clean", s.isShutdown())
		srv.Exit()
	})
}

// ready rejects requests outside the initialize/shutdown window.
func (s *Service) ready(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		s.mu.RLock()
		initialized, shutdown := s.initialized, s.shutdown
		s.mu.RUnlock()
		if !initialized {
			return nil, &rpcError{Code: codeNotInitialized, Message: "server not initialized"}
		}
		if shutdown {
			return nil, &rpcError{Code: codeInvalidRequest, Message: "server is shutting down"}
		}
		return fn(ctx, params)
	}
}

// ShutdownRequested reports whether the client sent shutdown. An exit
// without it is abnormal.
func (s *Service) ShutdownRequested() bool { return s.isShutdown() }

func (s *Service) isShutdown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shutdown
}

func (s *Service) handleInitialize(_ context.Context, params json.RawMessage) (any, error) {
	var p protocol.InitializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	s.logger.Info("initialize", "root", p.RootURI, "clientPid", p.ProcessID)

	caps := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.TextDocumentSyncKindIncremental,
		},
		CompletionProvider:   &protocol.CompletionOptions{TriggerCharacters: s.config.TriggerCharacters},
		FoldingRangeProvider: true,
	}
	if len(s.config.OnTypeTriggers) > 0 {
		caps.DocumentOnTypeFormattingProvider = &protocol.DocumentOnTypeFormattingOptions{
			FirstTriggerCharacter: s.config.OnTypeTriggers[0],
			MoreTriggerCharacter:  s.config.OnTypeTriggers[1:],
		}
	}
	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo:   &protocol.ServerInfo{Name: "pyedit", Version: version.Info()},
	}, nil
}

func (s *Service) handleShutdown(context.Context, json.RawMessage) (any, error) {
	s.mu.Lock()
	s.shutdown = true
	s.docs = make(map[protocol.DocumentURI]*python.File)
	s.mu.Unlock()
	s.support.Collector().Purge()
	return nil, nil
}

func (s *Service) handleDidOpen(ctx context.Context, params json.RawMessage) {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("didOpen: bad params", "error", err)
		return
	}
	f, err := s.support.Open(ctx, []byte(p.TextDocument.Text))
	if err != nil {
		s.logger.Error("didOpen: parse failed", "uri", p.TextDocument.URI, "error", err)
		return
	}
	s.mu.Lock()
	s.docs[p.TextDocument.URI] = f
	s.mu.Unlock()
	s.logger.Debug("opened", "uri", p.TextDocument.URI, "bytes", len(p.TextDocument.Text))
}

func (s *Service) handleDidChange(ctx context.Context, params json.RawMessage) {
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("didChange: bad params", "error", err)
		return
	}
	// protocol.TextDocumentContentChangeEvent holds Range by value, so a
	// full replacement is told apart by the range member being absent.
	var ranges struct {
		ContentChanges []struct {
			Range json.RawMessage `json:"range"`
		} `json:"contentChanges"`
	}
	if err := json.Unmarshal(params, &ranges); err != nil || len(ranges.ContentChanges) != len(p.ContentChanges) {
		s.logger.Warn("didChange: bad params", "error", err)
		return
	}
	f, err := s.file(p.TextDocument.URI)
	if err != nil {
		s.logger.Warn("didChange", "error", err)
		return
	}
	for i, change := range p.ContentChanges {
		raw := ranges.ContentChanges[i].Range
		full := len(raw) == 0 || string(raw) == "null"
		if err := applyChange(ctx, f, change, full); err != nil {
			// A failed edit leaves the document out of sync; drop it so
			// the client's next didOpen starts over.
			s.logger.Error("didChange: edit failed", "uri", p.TextDocument.URI, "error", err)
			s.mu.Lock()
			delete(s.docs, p.TextDocument.URI)
			s.mu.Unlock()
			return
		}
	}
}

// applyChange replaces change.Range, or the whole document when full.
func applyChange(ctx context.Context, f *python.File, change protocol.TextDocumentContentChangeEvent, full bool) error {
	if full {
		return f.Replace(ctx, []byte(change.Text))
	}
	doc, _ := f.Snapshot()
	start := offset(doc, change.Range.Start)
	end := offset(doc, change.Range.End)
	if end < start {
		start, end = end, start
	}
	return f.Edit(ctx, start, end, change.Text)
}

func (s *Service) handleDidClose(_ context.Context, params json.RawMessage) {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return
	}
	s.mu.Lock()
	delete(s.docs, p.TextDocument.URI)
	remaining := len(s.docs)
	s.mu.Unlock()
	// Cached scopes of closed documents are unreachable once none is open.
	if remaining == 0 {
		s.support.Collector().Purge()
		s.logger.Debug("scope cache purged", "uri", p.TextDocument.URI)
	}
}

func (s *Service) file(uri protocol.DocumentURI) (*python.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.docs[uri]
	if !ok {
		return nil, pyerrors.Newf(pyerrors.DocumentNotOpen, "document not open: %s", uri)
	}
	return f, nil
}

func (s *Service) handleCompletion(_ context.Context, params json.RawMessage) (any, error) {
	var p protocol.CompletionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	f, err := s.file(p.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	doc, _ := f.Snapshot()
	pos := offset(doc, p.Position)
	explicit := p.Context == nil || p.Context.TriggerKind == protocol.CompletionTriggerKindInvoked

	list := protocol.CompletionList{Items: []protocol.CompletionItem{}}
	for i, r := range f.Complete(pos, explicit) {
		rng := protocol.Range{Start: position(doc, r.From), End: position(doc, r.To)}
		for _, o := range r.Options {
			list.Items = append(list.Items, completionItem(i, o, rng))
		}
	}
	return list, nil
}

// completionItem converts an option of the i-th result. Earlier results
// sort first.
func completionItem(i int, o complete.Completion, rng protocol.Range) protocol.CompletionItem {
	item := protocol.CompletionItem{
		Label:            o.Label,
		Kind:             itemKind(o.Type),
		Detail:           o.Detail,
		SortText:         fmt.Sprintf("%d_%s", i, o.Label),
		InsertTextFormat: protocol.InsertTextFormatPlainText,
		TextEdit:         &protocol.TextEdit{Range: rng, NewText: o.Label},
	}
	if o.Apply != "" {
		item.Kind = protocol.CompletionItemKindSnippet
		item.FilterText = o.Label
		item.InsertTextFormat = protocol.InsertTextFormatSnippet
		item.TextEdit.NewText = complete.LSPSnippet(o.Apply)
	}
	return item
}

func itemKind(typ string) protocol.CompletionItemKind {
	switch typ {
	case complete.TypeFunction:
		return protocol.CompletionItemKindFunction
	case complete.TypeClass:
		return protocol.CompletionItemKindClass
	case complete.TypeType:
		return protocol.CompletionItemKindStruct
	case complete.TypeNamespace:
		return protocol.CompletionItemKindModule
	case complete.TypeConstant:
		return protocol.CompletionItemKindConstant
	case complete.TypeKeyword:
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindVariable
	}
}

func (s *Service) handleFoldingRange(_ context.Context, params json.RawMessage) (any, error) {
	var p protocol.FoldingRangeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	f, err := s.file(p.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	doc, _ := f.Snapshot()
	return foldingRanges(doc, f.Folds()), nil
}

func foldingRanges(doc *document.Document, ranges []fold.Range) []protocol.FoldingRange {
	out := make([]protocol.FoldingRange, 0, len(ranges))
	for _, r := range ranges {
		start := doc.LineAt(r.From)
		end := doc.LineAt(r.To)
		endLine := end.Number
		if r.To == end.From && endLine > start.Number {
			endLine--
		}
		if endLine <= start.Number {
			continue
		}
		out = append(out, protocol.FoldingRange{StartLine: uint32(start.Number - 1), EndLine: uint32(endLine - 1)})
	}
	return out
}

func (s *Service) handleOnTypeFormatting(_ context.Context, params json.RawMessage) (any, error) {
	var p protocol.DocumentOnTypeFormattingParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	f, err := s.file(p.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	doc, _ := f.Snapshot()
	pos := offset(doc, p.Position)
	line := doc.LineAt(pos)

	edits := []protocol.TextEdit{}
	if p.Ch != "\n" && !f.ShouldReindent(line.Number, pos) {
		return edits, nil
	}
	col, ok := f.Indentation(line.From)
	if !ok {
		return edits, nil
	}
	current := line.Text[:len(line.Text)-len(strings.TrimLeft(line.Text, " \t"))]
	want := indentString(col, p.Options)
	if current == want {
		return edits, nil
	}
	edits = append(edits, protocol.TextEdit{
		Range:   protocol.Range{Start: position(doc, line.From), End: position(doc, line.From+len(current))},
		NewText: want,
	})
	return edits, nil
}

// indentString renders col columns of indentation, using tabs where the
// client does not insert spaces.
func indentString(col int, opts protocol.FormattingOptions) string {
	if opts.InsertSpaces || opts.TabSize == 0 {
		return strings.Repeat(" ", col)
	}
	tab := int(opts.TabSize)
	return strings.Repeat("\t", col/tab) + strings.Repeat(" ", col%tab)
}

func (s *Service) handleIndentation(_ context.Context, params json.RawMessage) (any, error) {
	var p IndentationParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	f, err := s.file(p.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	doc, _ := f.Snapshot()
	if int(p.Position.Line) >= doc.Lines() {
		return nil, pyerrors.Newf(pyerrors.PositionOutOfRange, "line %d outside document of %d lines", p.Position.Line, doc.Lines()).
			WithDetails(p.Position)
	}

	var col int
	var ok bool
	switch {
	case p.SimulateDoubleBreak:
		col, ok = f.Indentation(offset(doc, p.Position), indent.SimulateDoubleBreak())
	case p.SimulateBreak:
		col, ok = f.Indentation(offset(doc, p.Position), indent.SimulateBreak())
	default:
		col, ok = f.Indentation(doc.Line(int(p.Position.Line) + 1).From)
	}
	if !ok {
		return IndentationResult{}, nil
	}
	return IndentationResult{Indent: &col}, nil
}

func offset(doc *document.Document, p protocol.Position) int {
	return doc.OffsetAt(int(p.Line), int(p.Character))
}

func position(doc *document.Document, off int) protocol.Position {
	line, char := doc.PositionAt(off)
	return protocol.Position{Line: uint32(line), Character: uint32(char)}
}
