package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage keysmith configuration",
	Long: `Provides commands for managing the keysmith config file.

The config file lives at $XDG_CONFIG_HOME/keysmith/config.toml unless
KEYSMITH_CONFIG or --config points elsewhere. The key directory defaults to
$XDG_DATA_HOME/keysmith/keys and can be overridden with KEYSMITH_HOME,
[store] path, or --dir.

Examples:
  # Write a config file with a fresh installation id
  keysmith config init --index main --algorithm aes-256-gcm

  # Show the effective configuration
  keysmith config show --json`,
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}
