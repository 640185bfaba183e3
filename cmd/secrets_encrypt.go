package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/ui"
	"github.com/PolarWolf314/keysmith/internal/utils"
	"github.com/PolarWolf314/keysmith/internal/workflows"

	"github.com/spf13/cobra"
)

// fileFlags are shared by encrypt and decrypt.
type fileFlags struct {
	secret    string
	index     string
	version   int
	algorithm string
	aad       string
	keyFiles  []string
	dryRun    bool
}

func (f *fileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.secret, "secret", "s", "", "name of the stored secret")
	cmd.Flags().StringVar(&f.index, "index", "", "index the secret is recorded in (default: [store] index)")
	cmd.Flags().IntVar(&f.version, "version", 0, "secret version (default: current version)")
	cmd.Flags().StringVar(&f.algorithm, "algorithm", "", "aes-256-gcm or aes-256-ctr (default: [encryption] algorithm)")
	cmd.Flags().StringVar(&f.aad, "aad", "", "additional authenticated data bound to every file")
	cmd.Flags().StringSliceVar(&f.keyFiles, "key-file", nil, "auxiliary key file mixed into the derivation (repeatable)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "list the files that would be processed")
	_ = cmd.MarkFlagRequired("secret")
}

func (f *fileFlags) options(cmd *cobra.Command, patterns []string) workflows.FileOptions {
	cfg := currentConfig()
	algorithm := f.algorithm
	if algorithm == "" {
		algorithm = cfg.Encryption.Algorithm
	}
	var aad []byte
	if f.aad != "" {
		aad = []byte(f.aad)
	}
	return workflows.FileOptions{
		Patterns:  patterns,
		Secret:    f.secret,
		Index:     indexFor(cmd, f.index),
		Version:   f.version,
		Algorithm: algorithm,
		AAD:       aad,
		KeyFiles:  f.keyFiles,
		ChunkSize: cfg.Encryption.ChunkSize,
		DryRun:    f.dryRun,
	}
}

var encryptFlags = &fileFlags{}

func init() {
	encryptFlags.register(encryptCmd)
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <files/globs...>",
	Short: "Encrypt files with a stored secret",
	Long: `Encrypts each matched file into <file>.enc using a stored secret.

Arguments may be files, directories or doublestar globs. Key files, index
files and files already ending in .enc are skipped.

Examples:
  keysmith secrets encrypt .env --secret app
  keysmith secrets encrypt "config/**/*.yaml" --secret app --index main --version 2
  keysmith secrets encrypt secrets/ --secret app --algorithm aes-256-ctr --aad prod`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		spinner, cleanup := startSpinner("Encrypting files...")
		defer cleanup()

		opts := encryptFlags.options(cmd, args)
		Logger.Debugf("Encrypting %v with secret %s (algorithm %s)", args, opts.Secret, opts.Algorithm)

		result, err := workflows.EncryptFiles(context.Background(), env, opts)
		if err != nil {
			return finishWithError(spinner, "encrypt files", err)
		}

		if len(result.SourceFiles) > 20 {
			Logger.Warnf("Processed %d files", len(result.SourceFiles))
		}

		if result.DryRun {
			spinner.FinalMSG = ui.Info.Sprint("ℹ") + fmt.Sprintf(" Would encrypt %d files:", len(result.SourceFiles)) +
				utils.FormatPaths(result.OutputFiles)
			return nil
		}

		Logger.Infof("Encrypted %d files with %s", len(result.OutputFiles), result.Algorithm)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Files encrypted with " + ui.Highlight.Sprint(result.Secret) + " " +
			ui.VersionLabel(result.Version) + " " + ui.Muted.Sprint(string(result.Algorithm)) + "\n" +
			"The following files were created:" + utils.FormatPaths(result.OutputFiles) +
			ui.Info.Sprint("→") + " Decrypt with the same secret, algorithm, key files and AAD"
		return nil
	},
}
