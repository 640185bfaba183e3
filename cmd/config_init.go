package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/keysmith/internal/configs"
	"github.com/PolarWolf314/keysmith/internal/ui"

	"github.com/spf13/cobra"
)

var (
	configInitStorePath string
	configInitIndex     string
	configInitAlgorithm string
	configInitLanguage  string
	configInitStrength  int
	configInitForce     bool
)

func init() {
	configInitCmd.Flags().StringVar(&configInitStorePath, "store-path", "", "key directory to record as [store] path")
	configInitCmd.Flags().StringVar(&configInitIndex, "index", "", "default index name")
	configInitCmd.Flags().StringVar(&configInitAlgorithm, "algorithm", "", "default envelope algorithm")
	configInitCmd.Flags().StringVar(&configInitLanguage, "language", "", "default mnemonic language")
	configInitCmd.Flags().IntVar(&configInitStrength, "strength", 0, "default mnemonic strength")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "rewrite an existing or invalid config file")
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file",
	Long: `Writes the config file with the given settings and a fresh installation
id. An existing valid config keeps its values unless flags override them.
Use --force to replace a config file that no longer parses.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		cfg := Config
		if cfg == nil {
			if _, err := os.Stat(configPath); err == nil && !configInitForce {
				fmt.Println(ui.Error.Sprint("✗") + " " + ui.Path.Sprint(configPath) + " is invalid")
				fmt.Println(ui.Info.Sprint("→") + " Fix it by hand or rerun with " + ui.Flag.Sprint("--force"))
				return nil
			}
			cfg = configs.DefaultConfig()
		}

		existing := cfg.InstallationID != ""
		flags := cmd.Flags()
		if flags.Changed("store-path") {
			cfg.Store.Path = configInitStorePath
		}
		if flags.Changed("index") {
			cfg.Store.Index = configInitIndex
		}
		if flags.Changed("algorithm") {
			cfg.Encryption.Algorithm = configInitAlgorithm
		}
		if flags.Changed("language") {
			cfg.Mnemonic.Language = configInitLanguage
		}
		if flags.Changed("strength") {
			cfg.Mnemonic.Strength = configInitStrength
		}

		if err := configs.SaveConfig(configPath, cfg); err != nil {
			fmt.Println(formatError("save config", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}
		Logger.Infof("Config written to %s", configPath)

		verb := "created"
		if existing {
			verb = "updated"
		}
		fmt.Println(ui.Success.Sprint("✓") + " Config " + verb + " at " + ui.Path.Sprint(configPath))
		fmt.Println("  Installation ID: " + ui.Highlight.Sprint(cfg.InstallationID))
		return nil
	},
}
