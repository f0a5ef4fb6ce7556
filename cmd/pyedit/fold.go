package main

import (
	"github.com/spf13/cobra"

	"pyedit/internal/fold"
)

var foldCmd = &cobra.Command{
	Use:   "fold FILE",
	Short: "List the foldable regions of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFold,
}

func init() {
	rootCmd.AddCommand(foldCmd)
}

// FoldCLI is a fold range with the lines it spans.
type FoldCLI struct {
	fold.Range `yaml:",inline"`
	StartLine  int `json:"startLine" yaml:"startLine"`
	EndLine    int `json:"endLine" yaml:"endLine"`
}

// FoldResponseCLI lists the fold ranges of a file.
type FoldResponseCLI struct {
	File  string    `json:"file" yaml:"file"`
	Folds []FoldCLI `json:"folds" yaml:"folds"`
}

func runFold(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	file, err := openFile(cmd.Context(), s.support, args[0])
	if err != nil {
		return err
	}
	doc, _ := file.Snapshot()
	resp := &FoldResponseCLI{File: args[0], Folds: []FoldCLI{}}
	for _, r := range file.Folds() {
		resp.Folds = append(resp.Folds, FoldCLI{
			Range:     r,
			StartLine: doc.LineAt(r.From).Number,
			EndLine:   doc.LineAt(r.To).Number,
		})
	}
	return writeOutput(cmd.OutOrStdout(), resp)
}
