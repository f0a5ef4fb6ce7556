package slogutil

import (
	"io"
	"log/slog"

	"pyedit/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the process logger from the logging config. Output goes to
// cfg.File (rotated per MaxSize/MaxBackups) when set, otherwise to
// fallback. With a file, warnings and errors are still copied to fallback.
// A non-nil override takes precedence over cfg.Level. The returned closer
// releases the log file.
func Setup(cfg config.LoggingConfig, fallback io.Writer, override *slog.Level) (*slog.Logger, io.Closer, error) {
	level := LevelFromString(cfg.Level)
	if override != nil {
		level = *override
	}
	if cfg.File == "" {
		if fallback == nil {
			return NewDiscardLogger(), nopCloser{}, nil
		}
		return NewLogger(fallback, level, cfg.Format), nopCloser{}, nil
	}

	size, err := ParseSize(cfg.MaxSize)
	if err != nil {
		return nil, nil, &config.ConfigError{Field: "logging.maxSize", Message: err.Error()}
	}
	rf, err := OpenRotatingFile(cfg.File, size, cfg.MaxBackups)
	if err != nil {
		return nil, nil, err
	}
	logger := NewLogger(rf, level, cfg.Format)
	if fallback != nil {
		logger = slog.New(TeeHandler{
			logger.Handler(),
			NewLineHandler(fallback, &slog.HandlerOptions{Level: max(level, slog.LevelWarn)}),
		})
	}
	return logger, rf, nil
}
