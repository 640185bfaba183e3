package cmd

import (
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/configs"
	logger "github.com/PolarWolf314/keysmith/internal/logging"
	"github.com/PolarWolf314/keysmith/internal/workflows"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// skipConfigAnnotation marks commands that fall back to the defaults when
// the config file cannot be loaded.
const skipConfigAnnotation = "keysmith/skip-config"

var (
	verbose    bool
	debug      bool
	keyDirFlag string
	configFlag string

	Logger logger.Logger

	// Config is the loaded configuration, nil when a command fell back to
	// the defaults.
	Config *configs.Config

	// configPath is the config file in use after flag overrides.
	configPath string

	// env is handed to every workflow.
	env workflows.Env
)

// AddGlobalFlags registers the flags shared by every command and the hook
// that loads configuration before any of them runs.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	root.PersistentFlags().StringVar(&keyDirFlag, "dir", "", "key directory (overrides [store] path)")
	root.PersistentFlags().StringVar(&configFlag, "config", "", "config file (overrides "+configs.EnvConfig+")")
	root.PersistentPreRunE = setup
}

// AddCommands attaches every top-level command to root.
func AddCommands(root *cobra.Command) {
	root.AddCommand(SecretsCmd, KeysCmd, MnemonicCmd, PasswordCmd, ConfigCmd, logCmd, doctorCmd)
}

// PrintBanner prints the keysmith wordmark.
func PrintBanner() {
	fmt.Println()
	banner := figure.NewColorFigure("keysmith", "standard", "cyan", true)
	banner.Print()
	fmt.Println()
}

func setup(cmd *cobra.Command, args []string) error {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}
	Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)

	configPath = configs.KeysmithSettings.ConfigPath
	if configFlag != "" {
		configPath = configFlag
	}

	Logger.Debugf("Loading config from %s", configPath)
	cfg, err := configs.LoadConfig(configPath)
	switch {
	case err == nil:
		Config = cfg
	case cmd.Annotations[skipConfigAnnotation] == "true":
		Logger.Warnf("Ignoring config %s: %v", configPath, err)
		Config = nil
		cfg = configs.DefaultConfig()
	default:
		return Logger.ErrorfAndReturn("Failed to load config %s: %v", configPath, err)
	}

	dir := cfg.KeysDir(configs.KeysmithSettings)
	if keyDirFlag != "" {
		dir = keyDirFlag
	}
	env = workflows.Env{
		Dir:            dir,
		InstallationID: cfg.InstallationID,
		CurrentVersion: cfg.Store.CurrentVersion,
	}
	Logger.Debugf("Key directory: %s", dir)
	return nil
}

// ResetGlobalState restores every package global and flag to its default.
// Tests call it between command runs.
func ResetGlobalState() {
	verbose = false
	debug = false
	keyDirFlag = ""
	configFlag = ""
	Config = nil
	configPath = ""
	env = workflows.Env{}
	Logger = logger.Logger{}

	for _, c := range []*cobra.Command{SecretsCmd, KeysCmd, MnemonicCmd, ConfigCmd, logCmd, doctorCmd} {
		resetFlags(c)
	}
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
