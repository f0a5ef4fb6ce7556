package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	pyerrors "pyedit/internal/errors"
)

func frame(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func lspRequest(id int, method string, params any) string {
	body, _ := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": id, "method": method, "params": params})
	return frame(string(body))
}

func lspNotify(method string, params any) string {
	body, _ := json.Marshal(map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
	return frame(string(body))
}

// responses decodes every framed response in out, keyed by id.
func responses(t *testing.T, out *bytes.Buffer) map[string]rpcResponse {
	t.Helper()
	got := make(map[string]rpcResponse)
	br := bufio.NewReader(bytes.NewReader(out.Bytes()))
	for {
		body, err := readFrame(br)
		if err != nil {
			break
		}
		var resp struct {
			ID     json.RawMessage `json:"id"`
			Result json.RawMessage `json:"result"`
			Error  *rpcError       `json:"error"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("bad response %s: %v", body, err)
		}
		got[string(resp.ID)] = rpcResponse{ID: resp.ID, Result: resp.Result, Error: resp.Error}
	}
	return got
}

func resultText(r rpcResponse) string {
	raw, _ := r.Result.(json.RawMessage)
	return string(raw)
}

func TestReadFrame(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`
	input := "Content-Type: application/vscode-jsonrpc; charset=utf-8\r\n" + frame(body)

	got, err := readFrame(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if string(got) != body {
		t.Errorf("body = %s", got)
	}
}

func TestReadFrame_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing length", "X-Other: 1\r\n\r\n{}"},
		{"bad length", "Content-Length: abc\r\n\r\n{}"},
		{"short body", "Content-Length: 10\r\n\r\n{}"},
		{"overflow", "Content-Length: 99999999999999999999\r\n\r\n{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readFrame(bufio.NewReader(strings.NewReader(tt.input))); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadFrame_Oversized(t *testing.T) {
	input := fmt.Sprintf("Content-Length: %d\r\n\r\n{}", maxContentLength+1)
	_, err := readFrame(bufio.NewReader(strings.NewReader(input)))
	if err == nil || !strings.Contains(err.Error(), "exceeds limit") {
		t.Fatalf("err = %v, want size limit error", err)
	}

	input = fmt.Sprintf("Content-Length: %d\r\n\r\n{}", maxContentLength)
	_, err = readFrame(bufio.NewReader(strings.NewReader(input)))
	if err == nil || strings.Contains(err.Error(), "exceeds limit") {
		t.Fatalf("err = %v, want short read at the limit", err)
	}
}

func TestServe_OversizedFrame(t *testing.T) {
	in := strings.NewReader("Content-Length: 1000000000\r\n\r\n{}")
	var out bytes.Buffer
	srv := NewServer(in, &out, nil)
	err := srv.Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "exceeds limit") {
		t.Fatalf("Serve err = %v, want size limit error", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestWriteMessage_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	resp := rpcResponse{JSONRPC: "2.0", ID: json.RawMessage(`7`), Result: map[string]string{"name": "pyedit"}}
	if err := writeMessage(&buf, resp); err != nil {
		t.Fatalf("writeMessage: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Content-Length: ") {
		t.Errorf("missing header: %q", buf.String())
	}
	got := responses(t, &buf)["7"]
	if resultText(got) != `{"name":"pyedit"}` {
		t.Errorf("result = %s", got.Result)
	}
}

func TestServer_Dispatch(t *testing.T) {
	input := lspRequest(1, "echo", map[string]int{"n": 3}) +
		lspRequest(2, "missing", nil) +
		lspNotify("note", nil) +
		lspRequest(3, "fail", nil) +
		lspRequest(4, "coded", nil) +
		frame("{not json")

	var out bytes.Buffer
	var notified bool
	srv := NewServer(strings.NewReader(input), &out, nil)
	srv.Handle("echo", func(_ context.Context, params json.RawMessage) (any, error) {
		return params, nil
	})
	srv.Handle("fail", func(context.Context, json.RawMessage) (any, error) {
		return nil, errors.New("boom")
	})
	srv.Handle("coded", func(context.Context, json.RawMessage) (any, error) {
		return nil, pyerrors.Newf(pyerrors.PositionOutOfRange, "line 9")
	})
	srv.OnNotify("note", func(context.Context, json.RawMessage) { notified = true })

	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if !notified {
		t.Error("notification handler not called")
	}

	got := responses(t, &out)
	if len(got) != 5 {
		t.Fatalf("responses = %d, want 5: %s", len(got), out.String())
	}
	if r := got["1"]; r.Error != nil || resultText(r) != `{"n":3}` {
		t.Errorf("echo = %+v", r)
	}
	checks := map[string]int{"2": codeMethodNotFound, "3": codeInternalError, "4": codeInvalidParams, "null": codeParseError}
	for id, code := range checks {
		if r := got[id]; r.Error == nil || r.Error.Code != code {
			t.Errorf("response %s error = %+v, want code %d", id, r.Error, code)
		}
	}
}

func TestServer_Exit(t *testing.T) {
	input := lspNotify("exit", nil) + lspRequest(1, "never", nil)
	var out bytes.Buffer
	srv := NewServer(strings.NewReader(input), &out, nil)
	srv.OnNotify("exit", func(context.Context, json.RawMessage) { srv.Exit() })

	if err := srv.Serve(context.Background()); !errors.Is(err, ErrExit) {
		t.Fatalf("Serve = %v, want ErrExit", err)
	}
	if out.Len() != 0 {
		t.Errorf("messages after exit were handled: %s", out.String())
	}
}
