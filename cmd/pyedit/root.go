package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pyedit/internal/config"
	pyerrors "pyedit/internal/errors"
	"pyedit/internal/python"
	"pyedit/internal/slogutil"
	"pyedit/internal/syntax"
	"pyedit/internal/version"
)

var (
	rootFlag    string
	formatFlag  string
	unitFlag    int
	tabSizeFlag int
	verbosity   int
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "pyedit",
	Short: "pyedit - Python indentation and completion engine",
	Long: `pyedit computes the indentation a Python line should have, the names that
are in scope at a cursor, and the foldable regions of a file. It runs as a
one-shot CLI, as a language server over stdio, or as a file watcher.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("pyedit version {{.Version}}\n")
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlag, "root", "", "Project root holding .pyedit/config.toml (default: working directory)")
	pf.StringVar(&formatFlag, "format", string(FormatHuman), "Output format (json, human, yaml)")
	pf.IntVar(&unitFlag, "unit", 0, "Indent unit in columns (overrides config)")
	pf.IntVar(&tabSizeFlag, "tab-size", 0, "Tab width in columns (overrides config)")
	pf.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress all log output")
}

// projectRoot returns --root or the working directory.
func projectRoot() (string, error) {
	if rootFlag != "" {
		return filepath.Abs(rootFlag)
	}
	return os.Getwd()
}

// loadConfig resolves the effective configuration.
// Precedence: CLI flag > PYEDIT_* env var > .pyedit/config.toml > defaults
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, pyerrors.New(pyerrors.InvalidConfig, "failed to load configuration", err)
	}
	flags := cmd.Flags()
	if flags.Changed("unit") {
		cfg.Indent.Unit = unitFlag
	}
	if flags.Changed("tab-size") {
		cfg.Indent.TabSize = tabSizeFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, pyerrors.New(pyerrors.InvalidConfig, "invalid configuration", err)
	}
	return cfg, nil
}

// levelOverride maps -v/-q onto a log level; nil keeps the configured one.
func levelOverride() *slog.Level {
	if verbosity == 0 && !quietFlag {
		return nil
	}
	level := slogutil.LevelFromVerbosity(verbosity, quietFlag)
	return &level
}

// newLogger builds the command logger. Logs never go to stdout, which
// carries command output and the language server protocol.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	logger, closer, err := slogutil.Setup(cfg.Logging, os.Stderr, levelOverride())
	if err != nil {
		return nil, nil, pyerrors.New(pyerrors.InvalidConfig, "failed to set up logging", err)
	}
	return logger, closer, nil
}

// newSupport creates the language support for cfg.
func newSupport(cfg *config.Config, logger *slog.Logger) *python.Support {
	return python.New(python.Options{
		IndentUnit: cfg.Indent.Unit,
		TabSize:    cfg.Indent.TabSize,
		CacheSize:  cfg.Completion.CacheSize,
		Logger:     logger,
	})
}

// openFile reads and parses path.
func openFile(ctx context.Context, support *python.Support, path string) (*python.File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, pyerrors.New(pyerrors.FileNotFound, fmt.Sprintf("no such file: %s", path), nil)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := support.Open(ctx, src)
	if err != nil {
		return nil, parseError(path, err)
	}
	return f, nil
}

func parseError(path string, err error) error {
	if stderrors.Is(err, syntax.ErrNoCGO) {
		return pyerrors.New(pyerrors.ParserUnavailable, "python parser not available", err)
	}
	return pyerrors.New(pyerrors.ParseFailed, fmt.Sprintf("failed to parse %s", path), err)
}

func asPyeditError(err error, target **pyerrors.PyeditError) bool {
	return stderrors.As(err, target)
}

// session bundles what every file command needs.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	closer  io.Closer
	support *python.Support
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, closer: closer, support: newSupport(cfg, logger)}, nil
}

func (s *session) Close() error { return s.closer.Close() }

// writeOutput formats resp per --format and prints it.
func writeOutput(w io.Writer, resp any) error {
	out, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
