package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyedit/internal/indent"
)

var (
	indentLine   int
	indentCol    int
	indentOffset int
	indentBreak  bool
	indentBlank  bool
	indentAll    bool
	indentWrite  bool
	indentCheck  bool
)

var indentCmd = &cobra.Command{
	Use:   "indent FILE",
	Short: "Compute the indentation of a line",
	Long: `Compute the column a line of a Python file should be indented to.

Examples:
  pyedit indent app.py --line 12            # indentation of line 12
  pyedit indent app.py --line 3 --break     # indentation after pressing Enter at the end of line 3
  pyedit indent app.py --line 1 --col 5 --break --blank
                                            # Enter twice between the brackets of "foo()"
  pyedit indent app.py --all                # list lines whose indentation differs
  pyedit indent app.py --all --write        # rewrite them in place
  pyedit indent app.py --all --check        # fail when any line would change`,
	Args: cobra.ExactArgs(1),
	RunE: runIndent,
}

func init() {
	f := indentCmd.Flags()
	f.IntVar(&indentLine, "line", 1, "Line number (1-based)")
	f.IntVar(&indentCol, "col", 0, "Column for --break (1-based, 0 = end of line)")
	f.IntVar(&indentOffset, "offset", -1, "Byte offset; overrides --line/--col")
	f.BoolVar(&indentBreak, "break", false, "Indentation of a new line inserted at the position")
	f.BoolVar(&indentBlank, "blank", false, "With --break, leave a blank line between the two halves")
	f.BoolVar(&indentAll, "all", false, "Reindent every line of the file")
	f.BoolVar(&indentWrite, "write", false, "With --all, write the result back to FILE")
	f.BoolVar(&indentCheck, "check", false, "With --all, exit non-zero when a line would change")
	rootCmd.AddCommand(indentCmd)
}

// IndentResponseCLI is the answer for a single line.
type IndentResponseCLI struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Offset int    `json:"offset" yaml:"offset"`
	Break  bool   `json:"break,omitempty" yaml:"break,omitempty"`
	Blank  bool   `json:"blank,omitempty" yaml:"blank,omitempty"`
	// Indent is nil when the line should be left alone.
	Indent *int `json:"indent" yaml:"indent"`
}

// ReindentResponseCLI is the answer for --all.
type ReindentResponseCLI struct {
	File    string          `json:"file" yaml:"file"`
	Lines   int             `json:"lines" yaml:"lines"`
	Changes []LineChangeCLI `json:"changes" yaml:"changes"`
	Written bool            `json:"written" yaml:"written"`
}

func runIndent(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	path := args[0]
	file, err := openFile(cmd.Context(), s.support, path)
	if err != nil {
		return err
	}
	doc, _ := file.Snapshot()

	if indentAll {
		indents := file.IndentLines(1, doc.Lines())
		text, changes := reindent(doc, indents, s.cfg.Indent.TabSize)
		resp := &ReindentResponseCLI{File: path, Lines: doc.Lines(), Changes: changes}
		if indentWrite && len(changes) > 0 {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			resp.Written = true
		}
		if err := writeOutput(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
		if indentCheck && len(changes) > 0 && !resp.Written {
			return fmt.Errorf("%s: %d lines need reindenting", path, len(changes))
		}
		return nil
	}

	if indentBlank && !indentBreak {
		return fmt.Errorf("--blank requires --break")
	}
	col := 0
	if indentBreak {
		col = indentCol
	}
	pos, err := resolvePosition(doc, indentLine, col, indentOffset)
	if err != nil {
		return err
	}
	var opts []indent.QueryOption
	switch {
	case indentBlank:
		opts = append(opts, indent.SimulateDoubleBreak())
	case indentBreak:
		opts = append(opts, indent.SimulateBreak())
	default:
		pos = doc.LineAt(pos).From
	}

	resp := &IndentResponseCLI{File: path, Line: doc.LineAt(pos).Number, Offset: pos, Break: indentBreak, Blank: indentBlank}
	n, ok := file.Indentation(pos, opts...)
	if ok {
		resp.Indent = &n
	}
	s.logger.Debug("indentation computed", "file", path, "offset", pos, "indent", n, "opinion", ok)
	return writeOutput(cmd.OutOrStdout(), resp)
}
