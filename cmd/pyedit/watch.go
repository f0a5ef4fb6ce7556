package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"pyedit/internal/python"
	"pyedit/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [PATH...]",
	Short: "Re-analyze Python files as they change",
	Long: `Watch files or directory trees and re-analyze every Python file that is
created or modified. Each report lists the fold count, the number of names
declared at module level and the lines whose indentation differs from the
computed one. Defaults to the project root.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// WatchReportCLI describes one analyzed file.
type WatchReportCLI struct {
	Path     string `json:"path" yaml:"path"`
	Event    string `json:"event" yaml:"event"`
	Lines    int    `json:"lines,omitempty" yaml:"lines,omitempty"`
	Folds    int    `json:"folds" yaml:"folds"`
	Names    int    `json:"names" yaml:"names"`
	Reindent int    `json:"reindent" yaml:"reindent"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// analyzeFile parses path and summarizes it.
func analyzeFile(ctx context.Context, support *python.Support, path string, tabSize int) WatchReportCLI {
	report := WatchReportCLI{Path: path}
	file, err := openFile(ctx, support, path)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	doc, tree := file.Snapshot()
	_, changes := reindent(doc, file.IndentLines(1, doc.Lines()), tabSize)
	report.Lines = doc.Lines()
	report.Folds = len(file.Folds())
	report.Names = len(support.Collector().Scope(tree.Root()))
	report.Reindent = len(changes)
	return report
}

// batchReporter analyzes each batch of events and prints the reports.
type batchReporter struct {
	ctx     context.Context
	support *python.Support
	tabSize int
	logger  *slog.Logger

	mu  sync.Mutex
	out io.Writer
}

func (r *batchReporter) handle(events []watcher.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range events {
		var report WatchReportCLI
		switch ev.Type {
		case watcher.EventDelete, watcher.EventRename:
			report = WatchReportCLI{Path: ev.Path}
		default:
			report = analyzeFile(r.ctx, r.support, ev.Path, r.tabSize)
		}
		report.Event = ev.Type.String()
		if err := writeOutput(r.out, &report); err != nil {
			r.logger.Error("write report", "path", ev.Path, "error", err)
		}
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 0 {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		args = []string{root}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := &batchReporter{
		ctx:     ctx,
		support: s.support,
		tabSize: s.cfg.Indent.TabSize,
		logger:  s.logger,
		out:     cmd.OutOrStdout(),
	}
	wcfg := watcher.DefaultConfig()
	wcfg.DebounceMs = s.cfg.Watcher.DebounceMs
	wcfg.Extensions = s.cfg.Watcher.Extensions

	w, err := watcher.New(wcfg, s.logger.With("component", "watcher"), reporter.handle)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, path := range args {
		if err := w.Add(path); err != nil {
			return err
		}
	}

	stats := w.Stats()
	s.logger.Info("watching", "dirs", stats.Dirs, "files", stats.Files)
	err = w.Run(ctx)
	stats = w.Stats()
	s.logger.Info("watcher stopped", "events", stats.Events, "batches", stats.Batches)
	return err
}
