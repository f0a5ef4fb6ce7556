package main

import (
	"github.com/spf13/cobra"

	"pyedit/internal/complete"
)

var (
	completeLine     int
	completeCol      int
	completeOffset   int
	completeExplicit bool
	completeLimit    int
)

var completeCmd = &cobra.Command{
	Use:   "complete FILE",
	Short: "List completions at a position",
	Long: `List the names in scope at a position of a Python file, followed by
builtins, keywords and statement snippets.

Examples:
  pyedit complete app.py --line 10 --col 9
  pyedit complete app.py --offset 412 --explicit --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	f := completeCmd.Flags()
	f.IntVar(&completeLine, "line", 1, "Line number (1-based)")
	f.IntVar(&completeCol, "col", 0, "Column (1-based, 0 = end of line)")
	f.IntVar(&completeOffset, "offset", -1, "Byte offset; overrides --line/--col")
	f.BoolVar(&completeExplicit, "explicit", false, "Treat the request as explicitly invoked")
	f.IntVar(&completeLimit, "limit", 0, "Maximum options per source in human output (0 = all)")
	rootCmd.AddCommand(completeCmd)
}

// CompleteResponseCLI lists the results of every source.
type CompleteResponseCLI struct {
	File     string             `json:"file" yaml:"file"`
	Offset   int                `json:"offset" yaml:"offset"`
	Explicit bool               `json:"explicit" yaml:"explicit"`
	Results  []*complete.Result `json:"results" yaml:"results"`
	// Limit only affects human output.
	Limit int `json:"-" yaml:"-"`
}

func runComplete(cmd *cobra.Command, args []string) error {
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
	pos, err := resolvePosition(doc, completeLine, completeCol, completeOffset)
	if err != nil {
		return err
	}

	results := file.Complete(pos, completeExplicit)
	if results == nil {
		results = []*complete.Result{}
	}
	stats := s.support.Collector().Stats()
	s.logger.Debug("completion computed", "offset", pos, "results", len(results),
		"cacheHits", stats.Hits, "cacheMisses", stats.Misses)

	return writeOutput(cmd.OutOrStdout(), &CompleteResponseCLI{
		File:     args[0],
		Offset:   pos,
		Explicit: completeExplicit,
		Results:  results,
		Limit:    completeLimit,
	})
}
