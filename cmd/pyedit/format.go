package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
	FormatYAML  OutputFormat = "yaml"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp any, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp any) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp any) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp any) (string, error) {
	switch v := resp.(type) {
	case *IndentResponseCLI:
		return formatIndentHuman(v), nil
	case *ReindentResponseCLI:
		return formatReindentHuman(v), nil
	case *CompleteResponseCLI:
		return formatCompleteHuman(v), nil
	case *FoldResponseCLI:
		return formatFoldHuman(v), nil
	case *WatchReportCLI:
		return formatWatchHuman(v), nil
	case *ConfigShowResponse:
		return formatConfigHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatIndentHuman(resp *IndentResponseCLI) string {
	what := fmt.Sprintf("line %d", resp.Line)
	if resp.Break {
		what = fmt.Sprintf("new line after offset %d", resp.Offset)
		if resp.Blank {
			what += " and a blank line"
		}
	}
	if resp.Indent == nil {
		return fmt.Sprintf("%s:%d: %s: keep as is", resp.File, resp.Line, what)
	}
	return fmt.Sprintf("%s:%d: %s: indent %d", resp.File, resp.Line, what, *resp.Indent)
}

func formatReindentHuman(resp *ReindentResponseCLI) string {
	if len(resp.Changes) == 0 {
		return fmt.Sprintf("%s: %d lines, indentation ok", resp.File, resp.Lines)
	}
	var b strings.Builder
	for _, c := range resp.Changes {
		fmt.Fprintf(&b, "%s:%d: indent %d, want %d\n", resp.File, c.Line, c.Current, c.Want)
	}
	if resp.Written {
		fmt.Fprintf(&b, "%d of %d lines reindented", len(resp.Changes), resp.Lines)
	} else {
		fmt.Fprintf(&b, "%d of %d lines need reindenting", len(resp.Changes), resp.Lines)
	}
	return b.String()
}

func formatCompleteHuman(resp *CompleteResponseCLI) string {
	var b strings.Builder
	if len(resp.Results) == 0 {
		return "No completions"
	}
	for i, r := range resp.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s [%d,%d) %d options\n", r.Source, r.From, r.To, len(r.Options))
		opts := r.Options
		if resp.Limit > 0 && len(opts) > resp.Limit {
			opts = opts[:resp.Limit]
		}
		for _, o := range opts {
			detail := o.Type
			if o.Detail != "" {
				detail += " " + o.Detail
			}
			fmt.Fprintf(&b, "  %-24s %s\n", o.Label, detail)
		}
		if len(opts) < len(r.Options) {
			fmt.Fprintf(&b, "  ... %d more\n", len(r.Options)-len(opts))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatFoldHuman(resp *FoldResponseCLI) string {
	if len(resp.Folds) == 0 {
		return fmt.Sprintf("%s: no foldable regions", resp.File)
	}
	var b strings.Builder
	for _, f := range resp.Folds {
		fmt.Fprintf(&b, "%s:%d-%d [%d,%d)\n", resp.File, f.StartLine, f.EndLine, f.From, f.To)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatWatchHuman(resp *WatchReportCLI) string {
	switch {
	case resp.Error != "":
		return fmt.Sprintf("%-6s %s: %s", resp.Event, resp.Path, resp.Error)
	case resp.Lines == 0:
		return fmt.Sprintf("%-6s %s", resp.Event, resp.Path)
	}
	return fmt.Sprintf("%-6s %s: %d lines, %d folds, %d names, %d to reindent",
		resp.Event, resp.Path, resp.Lines, resp.Folds, resp.Names, resp.Reindent)
}

func formatConfigHuman(resp *ConfigShowResponse) (string, error) {
	var b strings.Builder
	b.WriteString("pyedit Configuration\n")
	b.WriteString(strings.Repeat("─", 50) + "\n")
	if resp.UsedDefaults {
		b.WriteString("Source: defaults (no config file found)\n")
	} else {
		fmt.Fprintf(&b, "Source: %s\n", resp.ConfigPath)
	}
	if len(resp.EnvOverrides) > 0 {
		b.WriteString("\nEnvironment Overrides:\n")
		for _, ov := range resp.EnvOverrides {
			fmt.Fprintf(&b, "  %s\n", ov)
		}
	}
	b.WriteString("\n")
	data, err := toml.Marshal(resp.Config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal TOML: %w", err)
	}
	b.Write(data)
	return strings.TrimSuffix(b.String(), "\n"), nil
}
