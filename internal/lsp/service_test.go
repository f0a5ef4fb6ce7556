package lsp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.lsp.dev/protocol"

	"pyedit/internal/complete"
	"pyedit/internal/config"
	"pyedit/internal/document"
	"pyedit/internal/fold"
	"pyedit/internal/python"
)

func newService() *Service {
	return NewService(python.New(python.Options{}), config.DefaultConfig().LSP, nil)
}

func TestIndentString(t *testing.T) {
	tests := []struct {
		col  int
		opts protocol.FormattingOptions
		want string
	}{
		{4, protocol.FormattingOptions{TabSize: 4, InsertSpaces: true}, "    "},
		{0, protocol.FormattingOptions{TabSize: 4, InsertSpaces: true}, ""},
		{8, protocol.FormattingOptions{TabSize: 4}, "\t\t"},
		{6, protocol.FormattingOptions{TabSize: 4}, "\t  "},
		{3, protocol.FormattingOptions{}, "   "},
	}
	for _, tt := range tests {
		if got := indentString(tt.col, tt.opts); got != tt.want {
			t.Errorf("indentString(%d, %+v) = %q, want %q", tt.col, tt.opts, got, tt.want)
		}
	}
}

func TestCompletionItem(t *testing.T) {
	rng := protocol.Range{
		Start: protocol.Position{Line: 2, Character: 0},
		End:   protocol.Position{Line: 2, Character: 2},
	}

	v := completionItem(0, complete.Completion{Label: "value", Type: complete.TypeVariable}, rng)
	if v.Kind != protocol.CompletionItemKindVariable || v.InsertTextFormat != protocol.InsertTextFormatPlainText || v.TextEdit.NewText != "value" {
		t.Errorf("variable item = %+v", v)
	}
	if v.SortText != "0_value" {
		t.Errorf("SortText = %q", v.SortText)
	}

	s := completionItem(1, complete.Snippets[1], rng)
	if s.Kind != protocol.CompletionItemKindSnippet || s.InsertTextFormat != protocol.InsertTextFormatSnippet {
		t.Errorf("snippet item = %+v", s)
	}
	if want := "for ${1:name} in ${2:collection}:\n\t$3"; s.TextEdit.NewText != want {
		t.Errorf("snippet text = %q, want %q", s.TextEdit.NewText, want)
	}
	if s.FilterText != "for" || s.TextEdit.Range != rng {
		t.Errorf("snippet item = %+v", s)
	}
}

func TestItemKind(t *testing.T) {
	tests := map[string]protocol.CompletionItemKind{
		complete.TypeFunction:  protocol.CompletionItemKindFunction,
		complete.TypeClass:     protocol.CompletionItemKindClass,
		complete.TypeType:      protocol.CompletionItemKindStruct,
		complete.TypeNamespace: protocol.CompletionItemKindModule,
		complete.TypeConstant:  protocol.CompletionItemKindConstant,
		complete.TypeKeyword:   protocol.CompletionItemKindKeyword,
		complete.TypeVariable:  protocol.CompletionItemKindVariable,
	}
	for typ, want := range tests {
		if got := itemKind(typ); got != want {
			t.Errorf("itemKind(%s) = %v, want %v", typ, got, want)
		}
	}
}

func TestFoldingRanges(t *testing.T) {
	src := "def f():\n    a = 1\n    b = 2\nx = [\n    1,\n]\n"
	doc := document.FromString(src)
	body := strings.Index(src, ":")
	ranges := []fold.Range{
		{From: body + 1, To: strings.Index(src, "b = 2") + 5},
		{From: strings.Index(src, "[") + 1, To: strings.LastIndex(src, "]")},
		{From: 0, To: 3},
	}

	got := foldingRanges(doc, ranges)
	want := []protocol.FoldingRange{{StartLine: 0, EndLine: 2}, {StartLine: 3, EndLine: 4}}
	if len(got) != len(want) {
		t.Fatalf("ranges = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestService_Lifecycle(t *testing.T) {
	input := lspRequest(1, "textDocument/foldingRange", map[string]any{
		"textDocument": map[string]string{"uri": "file:///a.py"},
	}) +
		lspRequest(2, "initialize", map[string]any{"rootUri": "file:///"}) +
		lspRequest(3, "textDocument/foldingRange", map[string]any{
			"textDocument": map[string]string{"uri": "file:///a.py"},
		}) +
		lspRequest(4, "shutdown", nil) +
		lspRequest(5, "pyedit/indentation", map[string]any{
			"textDocument": map[string]string{"uri": "file:///a.py"},
			"position":     map[string]int{"line": 0, "character": 0},
		}) +
		lspNotify("exit", nil)

	var out bytes.Buffer
	svc := newService()
	srv := NewServer(strings.NewReader(input), &out, nil)
	svc.Register(srv)
	if err := srv.Serve(context.Background()); err != ErrExit {
		t.Fatalf("Serve = %v, want ErrExit", err)
	}

	got := responses(t, &out)
	if r := got["1"]; r.Error == nil || r.Error.Code != codeNotInitialized {
		t.Errorf("request before initialize = %+v", r.Error)
	}
	if r := got["2"]; r.Error != nil || !strings.Contains(resultText(r), `"name":"pyedit"`) {
		t.Errorf("initialize = %+v", r)
	}
	var initRes protocol.InitializeResult
	if err := json.Unmarshal([]byte(resultText(got["2"])), &initRes); err != nil {
		t.Fatalf("decode initialize result: %v", err)
	}
	if initRes.Capabilities.CompletionProvider == nil || initRes.Capabilities.DocumentOnTypeFormattingProvider == nil {
		t.Errorf("capabilities = %+v", initRes.Capabilities)
	}
	if !strings.Contains(resultText(got["2"]), `"change":2`) {
		t.Errorf("sync options = %s", resultText(got["2"]))
	}
	if r := got["3"]; r.Error == nil || r.Error.Code != codeInvalidParams {
		t.Errorf("unopened document = %+v", r.Error)
	}
	if r := got["5"]; r.Error == nil || r.Error.Code != codeInvalidRequest {
		t.Errorf("request after shutdown = %+v", r.Error)
	}
	if svc.Session() == "" {
		t.Error("session id not set")
	}
}
