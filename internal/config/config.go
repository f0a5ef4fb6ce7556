package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = 1

// Dir is the per-project configuration directory.
const Dir = ".pyedit"

// EnvPrefix prefixes environment overrides, e.g. PYEDIT_INDENT_UNIT.
const EnvPrefix = "PYEDIT"

// Config represents the complete pyedit configuration
type Config struct {
	Version    int              `toml:"version" mapstructure:"version" json:"version" yaml:"version"`
	Indent     IndentConfig     `toml:"indent" mapstructure:"indent" json:"indent" yaml:"indent"`
	Completion CompletionConfig `toml:"completion" mapstructure:"completion" json:"completion" yaml:"completion"`
	LSP        LSPConfig        `toml:"lsp" mapstructure:"lsp" json:"lsp" yaml:"lsp"`
	Watcher    WatcherConfig    `toml:"watcher" mapstructure:"watcher" json:"watcher" yaml:"watcher"`
	Logging    LoggingConfig    `toml:"logging" mapstructure:"logging" json:"logging" yaml:"logging"`
}

// IndentConfig controls the indentation engine
type IndentConfig struct {
	Unit    int `toml:"unit" mapstructure:"unit" json:"unit" yaml:"unit"`
	TabSize int `toml:"tabSize" mapstructure:"tabSize" json:"tabSize" yaml:"tabSize"`
}

// CompletionConfig controls the completion sources
type CompletionConfig struct {
	// CacheSize bounds the number of cached scopes.
	CacheSize int `toml:"cacheSize" mapstructure:"cacheSize" json:"cacheSize" yaml:"cacheSize"`
}

// LSPConfig controls the language server
type LSPConfig struct {
	TriggerCharacters []string `toml:"triggerCharacters" mapstructure:"triggerCharacters" json:"triggerCharacters" yaml:"triggerCharacters"`
	// OnTypeTriggers are the characters that re-indent the current line.
	OnTypeTriggers []string `toml:"onTypeTriggers" mapstructure:"onTypeTriggers" json:"onTypeTriggers" yaml:"onTypeTriggers"`
}

// WatcherConfig controls `pyedit watch`
type WatcherConfig struct {
	DebounceMs int      `toml:"debounceMs" mapstructure:"debounceMs" json:"debounceMs" yaml:"debounceMs"`
	Extensions []string `toml:"extensions" mapstructure:"extensions" json:"extensions" yaml:"extensions"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `toml:"level" mapstructure:"level" json:"level" yaml:"level"`     // debug, info, warn, error
	Format string `toml:"format" mapstructure:"format" json:"format" yaml:"format"` // text, json
	// File receives log output instead of stderr when set.
	File       string `toml:"file" mapstructure:"file" json:"file" yaml:"file"`
	MaxSize    string `toml:"maxSize" mapstructure:"maxSize" json:"maxSize" yaml:"maxSize"`
	MaxBackups int    `toml:"maxBackups" mapstructure:"maxBackups" json:"maxBackups" yaml:"maxBackups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Indent: IndentConfig{
			Unit:    4,
			TabSize: 4,
		},
		Completion: CompletionConfig{
			CacheSize: 1024,
		},
		LSP: LSPConfig{
			TriggerCharacters: []string{"."},
			OnTypeTriggers:    []string{"\n", ":", ")", "]", "}"},
		},
		Watcher: WatcherConfig{
			DebounceMs: 300,
			Extensions: []string{".py", ".pyi"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSize:    "10MB",
			MaxBackups: 3,
		},
	}
}

// Path returns the config file path for a project root.
func Path(root string) string {
	return filepath.Join(root, Dir, "config.toml")
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("version", cfg.Version)
	v.SetDefault("indent.unit", cfg.Indent.Unit)
	v.SetDefault("indent.tabSize", cfg.Indent.TabSize)
	v.SetDefault("completion.cacheSize", cfg.Completion.CacheSize)
	v.SetDefault("lsp.triggerCharacters", cfg.LSP.TriggerCharacters)
	v.SetDefault("lsp.onTypeTriggers", cfg.LSP.OnTypeTriggers)
	v.SetDefault("watcher.debounceMs", cfg.Watcher.DebounceMs)
	v.SetDefault("watcher.extensions", cfg.Watcher.Extensions)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.maxSize", cfg.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", cfg.Logging.MaxBackups)
}

// LoadConfig loads configuration from .pyedit/config.toml under root.
// Missing files yield the defaults; PYEDIT_* environment variables
// override both (PYEDIT_INDENT_UNIT, PYEDIT_LOGGING_LEVEL, ...).
func LoadConfig(root string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(root, Dir))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read %s: %w", Path(root), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to .pyedit/config.toml under root.
func (c *Config) Save(root string) error {
	if err := os.MkdirAll(filepath.Join(root, Dir), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(Path(root), data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported version %d", c.Version)}
	}
	if c.Indent.Unit < 1 || c.Indent.Unit > 16 {
		return &ConfigError{Field: "indent.unit", Message: "must be between 1 and 16"}
	}
	if c.Indent.TabSize < 1 {
		return &ConfigError{Field: "indent.tabSize", Message: "must be positive"}
	}
	if c.Completion.CacheSize < 1 {
		return &ConfigError{Field: "completion.cacheSize", Message: "must be positive"}
	}
	if c.Watcher.DebounceMs < 0 {
		return &ConfigError{Field: "watcher.debounceMs", Message: "must not be negative"}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
