package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pyedit/internal/lsp"
	"pyedit/internal/version"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server over stdio",
	Long: `Run a language server speaking JSON-RPC over stdin/stdout.

Supported requests: initialize, shutdown, textDocument/completion,
textDocument/foldingRange, textDocument/onTypeFormatting and the
pyedit/indentation extension. Documents are synchronized incrementally.

Logs go to the configured log file, or to stderr when none is set.
This command is started by editors, not run directly.`,
	Args: cobra.NoArgs,
	RunE: runLSP,
}

func init() {
	rootCmd.AddCommand(lspCmd)
}

func runLSP(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := lsp.NewService(s.support, s.cfg.LSP, s.logger)
	srv := lsp.NewServer(os.Stdin, os.Stdout, s.logger)
	svc.Register(srv)

	s.logger.Info("language server started", "version", version.Version, "session", svc.Session(), "pid", os.Getpid())
	err = srv.Serve(ctx)
	switch {
	case stderrors.Is(err, lsp.ErrExit):
		if !svc.ShutdownRequested() {
			return fmt.Errorf("exit received before shutdown")
		}
		return nil
	case err == nil, stderrors.Is(err, context.Canceled):
		s.logger.Info("language server stopped")
		return nil
	default:
		return fmt.Errorf("language server: %w", err)
	}
}
