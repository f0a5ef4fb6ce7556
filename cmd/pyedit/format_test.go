package main

import (
	"strings"
	"testing"

	"pyedit/internal/complete"
	"pyedit/internal/config"
	"pyedit/internal/fold"
)

func TestFormatResponse_JSON(t *testing.T) {
	resp := map[string]any{
		"key": "value",
		"num": 42,
	}

	result, err := FormatResponse(resp, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, `"key": "value"`) {
		t.Error("JSON output missing expected key")
	}
	if !strings.Contains(result, `"num": 42`) {
		t.Error("JSON output missing expected number")
	}
}

func TestFormatResponse_YAML(t *testing.T) {
	n := 4
	result, err := FormatResponse(&IndentResponseCLI{File: "a.py", Line: 2, Offset: 9, Indent: &n}, FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"file: a.py", "line: 2", "indent: 4"} {
		if !strings.Contains(result, want) {
			t.Errorf("YAML output missing %q:\n%s", want, result)
		}
	}
	if strings.HasSuffix(result, "\n") {
		t.Error("YAML output should not end with a newline")
	}
}

func TestFormatResponse_UnsupportedFormat(t *testing.T) {
	resp := map[string]string{"key": "value"}

	_, err := FormatResponse(resp, "xml")
	if err == nil {
		t.Error("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error should mention unsupported format, got: %v", err)
	}
}

func TestFormatHuman_Indent(t *testing.T) {
	n := 8
	tests := []struct {
		name string
		resp *IndentResponseCLI
		want string
	}{
		{"line", &IndentResponseCLI{File: "a.py", Line: 3, Indent: &n}, "a.py:3: line 3: indent 8"},
		{"no opinion", &IndentResponseCLI{File: "a.py", Line: 3}, "a.py:3: line 3: keep as is"},
		{"break", &IndentResponseCLI{File: "a.py", Line: 1, Offset: 8, Break: true, Indent: &n}, "a.py:1: new line after offset 8: indent 8"},
		{"blank", &IndentResponseCLI{File: "a.py", Line: 1, Offset: 4, Break: true, Blank: true, Indent: &n}, "a.py:1: new line after offset 4 and a blank line: indent 8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatResponse(tt.resp, FormatHuman)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatHuman_Reindent(t *testing.T) {
	ok, _ := FormatResponse(&ReindentResponseCLI{File: "a.py", Lines: 5}, FormatHuman)
	if ok != "a.py: 5 lines, indentation ok" {
		t.Errorf("got %q", ok)
	}

	resp := &ReindentResponseCLI{File: "a.py", Lines: 5, Changes: []LineChangeCLI{{Line: 2, Current: 2, Want: 4}}}
	got, _ := FormatResponse(resp, FormatHuman)
	want := "a.py:2: indent 2, want 4\n1 of 5 lines need reindenting"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatHuman_Complete(t *testing.T) {
	resp := &CompleteResponseCLI{
		Results: []*complete.Result{{
			Source: "local",
			From:   10,
			To:     12,
			Options: []complete.Completion{
				{Label: "request", Type: complete.TypeVariable},
				{Label: "handler", Type: complete.TypeFunction},
				{Label: "os", Type: complete.TypeNamespace},
			},
		}},
		Limit: 2,
	}
	got, err := FormatResponse(resp, FormatHuman)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"local [10,12) 3 options", "request", "handler", "... 1 more"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "  os ") {
		t.Errorf("limit not applied:\n%s", got)
	}

	empty, _ := FormatResponse(&CompleteResponseCLI{}, FormatHuman)
	if empty != "No completions" {
		t.Errorf("empty = %q", empty)
	}
}

func TestFormatHuman_Fold(t *testing.T) {
	resp := &FoldResponseCLI{File: "a.py", Folds: []FoldCLI{{Range: fold.Range{From: 8, To: 30}, StartLine: 1, EndLine: 3}}}
	got, _ := FormatResponse(resp, FormatHuman)
	if got != "a.py:1-3 [8,30)" {
		t.Errorf("got %q", got)
	}

	js, _ := FormatResponse(resp, FormatJSON)
	if !strings.Contains(js, `"from": 8`) || !strings.Contains(js, `"startLine": 1`) {
		t.Errorf("JSON should flatten the range:\n%s", js)
	}
	ym, _ := FormatResponse(resp, FormatYAML)
	if !strings.Contains(ym, "from: 8") {
		t.Errorf("YAML should inline the range:\n%s", ym)
	}
}

func TestFormatHuman_Watch(t *testing.T) {
	tests := []struct {
		resp WatchReportCLI
		want string
	}{
		{WatchReportCLI{Event: "modify", Path: "a.py", Lines: 3, Folds: 1, Names: 2}, "modify a.py: 3 lines, 1 folds, 2 names, 0 to reindent"},
		{WatchReportCLI{Event: "delete", Path: "a.py"}, "delete a.py"},
		{WatchReportCLI{Event: "create", Path: "a.py", Error: "boom"}, "create a.py: boom"},
	}
	for _, tt := range tests {
		got, _ := FormatResponse(&tt.resp, FormatHuman)
		if got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestFormatHuman_Config(t *testing.T) {
	resp := &ConfigShowResponse{UsedDefaults: true, EnvOverrides: []string{"PYEDIT_INDENT_UNIT=2"}, Config: config.DefaultConfig()}
	got, err := FormatResponse(resp, FormatHuman)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Source: defaults", "PYEDIT_INDENT_UNIT=2", "[indent]", "unit = 4"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatHuman_UnknownFallsBackToJSON(t *testing.T) {
	got, err := FormatResponse(struct {
		Name string `json:"name"`
	}{"x"}, FormatHuman)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"name": "x"`) {
		t.Errorf("got %q", got)
	}
}
