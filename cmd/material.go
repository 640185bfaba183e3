package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/PolarWolf314/keysmith/internal/configs"
	"github.com/PolarWolf314/keysmith/internal/mnemonic"
	"github.com/PolarWolf314/keysmith/internal/store"
	"github.com/PolarWolf314/keysmith/internal/ui"
	"github.com/PolarWolf314/keysmith/internal/utils"
	"github.com/PolarWolf314/keysmith/internal/workflows"

	"github.com/spf13/cobra"
)

// materialFlags are shared by generate and recover for both kinds.
type materialFlags struct {
	version        int
	index          string
	language       string
	strength       int
	algorithm      string
	mnemonic       string
	passwordPrompt bool
}

func (f *materialFlags) register(cmd *cobra.Command, kind string, recovering bool) {
	cmd.Flags().IntVar(&f.version, "version", 0, "version to write (default: current version when indexed)")
	cmd.Flags().StringVar(&f.index, "index", "", "record the version in this index (default: [store] index)")
	cmd.Flags().BoolVar(&f.passwordPrompt, "password-prompt", false, "prompt for a password mixed into the mnemonic seed")
	if recovering {
		cmd.Flags().StringVar(&f.mnemonic, "mnemonic", "", "mnemonic to recover from (default: read from stdin or prompt)")
	} else {
		cmd.Flags().StringVar(&f.language, "language", "", "mnemonic language (default: [mnemonic] language)")
		cmd.Flags().IntVar(&f.strength, "strength", 0, "mnemonic entropy in bits (default: [mnemonic] strength)")
	}
	if kind == store.KindKeyPairs {
		cmd.Flags().StringVar(&f.algorithm, "algorithm", "ed25519", "key pair algorithm")
	}
}

func kindNoun(kind string) string {
	if kind == store.KindKeyPairs {
		return "key pair"
	}
	return "secret"
}

func newGenerateCmd(kind string) *cobra.Command {
	flags := &materialFlags{}
	noun := kindNoun(kind)
	cmd := &cobra.Command{
		Use:   "generate <name>",
		Short: fmt.Sprintf("Generate a new mnemonic and the %s derived from it", noun),
		Long: fmt.Sprintf(`Generates a new mnemonic, derives a %s from it and writes it to the key
directory. The mnemonic is shown once and never stored.

Examples:
  keysmith %s generate deploy
  keysmith %s generate deploy --index main --version 2
  keysmith %s generate deploy --language japanese --strength 256 --password-prompt`,
			noun, cmdGroup(kind), cmdGroup(kind), cmdGroup(kind)),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterial(cmd, kind, args[0], flags, false)
		},
	}
	flags.register(cmd, kind, false)
	return cmd
}

func newRecoverCmd(kind string) *cobra.Command {
	flags := &materialFlags{}
	noun := kindNoun(kind)
	cmd := &cobra.Command{
		Use:   "recover <name>",
		Short: fmt.Sprintf("Rewrite a %s from its mnemonic", noun),
		Long: fmt.Sprintf(`Re-derives a %s from its mnemonic and writes it back, replacing the file
if it exists. With an index the version is re-recorded.

The mnemonic is taken from --mnemonic, piped stdin, or a hidden prompt.

Examples:
  keysmith %s recover deploy --mnemonic "abandon ... about"
  cat words.txt | keysmith %s recover deploy --index main --version 2`,
			noun, cmdGroup(kind), cmdGroup(kind)),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterial(cmd, kind, args[0], flags, true)
		},
	}
	flags.register(cmd, kind, true)
	return cmd
}

func cmdGroup(kind string) string {
	if kind == store.KindKeyPairs {
		return "keys"
	}
	return "secrets"
}

// currentConfig is Config or the defaults when the command skipped loading.
func currentConfig() *configs.Config {
	if Config != nil {
		return Config
	}
	return configs.DefaultConfig()
}

// indexFor returns the --index flag, falling back to [store] index.
func indexFor(cmd *cobra.Command, flag string) string {
	if cmd.Flags().Changed("index") {
		return flag
	}
	return currentConfig().Store.Index
}

func readMnemonic(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if utils.IsTerminal() {
		phrase, err := utils.ReadPassphrase("Mnemonic: ")
		return string(phrase), err
	}
	data, err := utils.ReadStdin()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// knownMnemonic reports whether phrase checks out against any wordlist.
func knownMnemonic(phrase string) bool {
	for _, l := range supportedLanguages() {
		if mnemonic.Valid(phrase, l) {
			return true
		}
	}
	return false
}

func readPassword(prompt, confirm bool) (string, error) {
	if !prompt {
		return "", nil
	}
	if confirm {
		pw, err := utils.ReadPassphraseConfirm("Mnemonic password: ", "Confirm password: ")
		return string(pw), err
	}
	pw, err := utils.ReadPassphrase("Mnemonic password: ")
	return string(pw), err
}

func runMaterial(cmd *cobra.Command, kind, name string, flags *materialFlags, recovering bool) error {
	action := "generate " + kindNoun(kind)
	if recovering {
		action = "recover " + kindNoun(kind)
	}
	Logger.Infof("Starting %s for %s", action, name)

	// Prompts run before the spinner takes over the terminal.
	var phrase string
	if recovering {
		var err error
		if phrase, err = readMnemonic(flags.mnemonic); err != nil {
			return Logger.ErrorfAndReturn("Failed to read mnemonic: %v", err)
		}
		if !knownMnemonic(phrase) {
			Logger.WarnfAlways("Mnemonic fails the checksum of every wordlist; a typo derives different material")
		}
	}
	password, err := readPassword(flags.passwordPrompt, !recovering)
	if err != nil {
		fmt.Println(formatError("read password", err))
		if isUnexpectedError(err) {
			return err
		}
		return nil
	}

	spinner, cleanup := startSpinner(strings.ToUpper(action[:1]) + action[1:] + "...")
	defer cleanup()

	cfg := currentConfig()
	language := flags.language
	if language == "" {
		language = cfg.Mnemonic.Language
	}
	strength := flags.strength
	if strength == 0 {
		strength = cfg.Mnemonic.Strength
	}
	index := indexFor(cmd, flags.index)
	Logger.Debugf("index=%q version=%d language=%s strength=%d", index, flags.version, language, strength)

	ctx := context.Background()
	var (
		resultPhrase string
		files        []string
		version      int
		extra        string
	)
	switch kind {
	case store.KindSecrets:
		opts := workflows.SecretOptions{
			Name:     name,
			Version:  flags.version,
			Index:    index,
			Mnemonic: phrase,
			Password: password,
			Language: language,
			Strength: strength,
		}
		var result *workflows.SecretResult
		if recovering {
			result, err = workflows.RecoverSecret(ctx, env, opts)
		} else {
			result, err = workflows.GenerateSecret(ctx, env, opts)
		}
		if err != nil {
			return finishWithError(spinner, action, err)
		}
		resultPhrase = result.Mnemonic
		files = store.SecretKind{}.Files(result.Files.Record)
		version = result.Files.Record.Version
		name = result.Files.Record.Name
	default:
		opts := workflows.KeyPairOptions{
			Name:      name,
			Algorithm: flags.algorithm,
			Version:   flags.version,
			Index:     index,
			Mnemonic:  phrase,
			Password:  password,
			Language:  language,
			Strength:  strength,
		}
		var result *workflows.KeyPairResult
		if recovering {
			result, err = workflows.RecoverKeyPair(ctx, env, opts)
		} else {
			result, err = workflows.GenerateKeyPair(ctx, env, opts)
		}
		if err != nil {
			return finishWithError(spinner, action, err)
		}
		resultPhrase = result.Mnemonic
		files = store.KeyPairKind{}.Files(result.Files.Record)
		version = result.Files.Record.Version
		name = result.Files.Record.Name
		extra = "Public key: " + ui.Highlight.Sprint(base64.StdEncoding.EncodeToString(result.PublicKey)) + "\n"
	}

	verb := "generated"
	if recovering {
		verb = "recovered"
	}
	Logger.Infof("%s %s %s version %d", kindNoun(kind), name, verb, version)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("%s %s %s %s %s\n", ui.Success.Sprint("✓"), strings.ToUpper(kindNoun(kind)[:1])+kindNoun(kind)[1:],
		ui.Highlight.Sprint(name), ui.VersionLabel(version), verb))
	if index != "" {
		msg.WriteString("Recorded in index " + ui.Highlight.Sprint(index) + "\n")
	}
	msg.WriteString("Files:" + utils.FormatPaths(files))
	msg.WriteString(extra)
	if !recovering {
		msg.WriteString("\nMnemonic:\n")
		msg.WriteString(ui.MnemonicBlock(mnemonic.SplitWords(resultPhrase, 0)))
		msg.WriteString(mnemonicWarning())
	}
	spinner.FinalMSG = msg.String()
	return nil
}
