package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/keysmith/internal/ui"

	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		cfg := currentConfig()

		if configShowJSON {
			output, err := json.MarshalIndent(map[string]any{
				"config_path": configPath,
				"key_dir":     env.Dir,
				"config":      cfg,
			}, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		source := configPath
		if _, err := os.Stat(configPath); err != nil {
			source = configPath + " " + ui.Muted.Sprint("not found, using defaults")
		}

		fmt.Println(ui.Info.Sprint("Configuration") + " " + source)
		fmt.Println()
		fmt.Printf("  %-20s %s\n", "Installation ID:", valueOrNone(cfg.InstallationID))
		fmt.Printf("  %-20s %s\n", "Key directory:", ui.Path.Sprint(env.Dir))
		fmt.Println()
		fmt.Println("  [store]")
		fmt.Printf("  %-20s %s\n", "index:", valueOrNone(cfg.Store.Index))
		fmt.Printf("  %-20s %s\n", "current_version:", ui.Version.Sprint(cfg.Store.CurrentVersion))
		fmt.Println("  [encryption]")
		fmt.Printf("  %-20s %s\n", "algorithm:", ui.Highlight.Sprint(cfg.Algorithm()))
		fmt.Printf("  %-20s %d\n", "chunk_size:", cfg.Encryption.ChunkSize)
		fmt.Printf("  %-20s %t\n", "release_unverified:", cfg.Encryption.ReleaseUnverified)
		fmt.Println("  [mnemonic]")
		fmt.Printf("  %-20s %s\n", "language:", cfg.Mnemonic.Language)
		fmt.Printf("  %-20s %d\n", "strength:", cfg.Mnemonic.Strength)

		if cfg.InstallationID == "" {
			fmt.Println()
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("keysmith config init") + " to write a config file")
		}
		return nil
	},
}

func valueOrNone(s string) string {
	if s == "" {
		return ui.Muted.Sprint("none")
	}
	return ui.Success.Sprint(s)
}
