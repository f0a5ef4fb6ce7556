package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pyedit/internal/config"
	pyerrors "pyedit/internal/errors"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pyedit configuration",
	Long:  "View and manage pyedit configuration stored in .pyedit/config.toml",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after applying defaults, the config file,
PYEDIT_* environment variables and command line flags.

Examples:
  pyedit config show
  pyedit config show --format json
  PYEDIT_INDENT_UNIT=2 pyedit config show`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .pyedit/config.toml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the response format for config show
type ConfigShowResponse struct {
	ConfigPath   string         `json:"configPath" yaml:"configPath"`
	UsedDefaults bool           `json:"usedDefaults" yaml:"usedDefaults"`
	EnvOverrides []string       `json:"envOverrides,omitempty" yaml:"envOverrides,omitempty"`
	Config       *config.Config `json:"config" yaml:"config"`
}

// envOverrides lists the PYEDIT_* variables set in the environment.
func envOverrides(environ []string) []string {
	var out []string
	for _, kv := range environ {
		if strings.HasPrefix(kv, config.EnvPrefix+"_") {
			out = append(out, kv)
		}
	}
	return out
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	root, err := projectRoot()
	if err != nil {
		return err
	}
	path := config.Path(root)
	_, statErr := os.Stat(path)
	return writeOutput(cmd.OutOrStdout(), &ConfigShowResponse{
		ConfigPath:   path,
		UsedDefaults: statErr != nil,
		EnvOverrides: envOverrides(os.Environ()),
		Config:       cfg,
	})
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	path := config.Path(root)
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(root); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return pyerrors.New(pyerrors.InvalidConfig, "failed to load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return pyerrors.New(pyerrors.InvalidConfig, "invalid configuration", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
	return nil
}
