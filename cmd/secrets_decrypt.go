package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/ui"
	"github.com/PolarWolf314/keysmith/internal/utils"
	"github.com/PolarWolf314/keysmith/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	decryptFlags             = &fileFlags{}
	decryptReleaseUnverified bool
)

func init() {
	decryptFlags.register(decryptCmd)
	decryptCmd.Flags().BoolVar(&decryptReleaseUnverified, "release-unverified", false,
		"write plaintext before the tag is checked (default: [encryption] release_unverified)")
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <files/globs...>",
	Short: "Decrypt .enc files with a stored secret",
	Long: `Decrypts each matched .enc file next to itself without the suffix.

By default plaintext is only written after the authentication tag has been
verified, so a tampered file leaves the existing output untouched. With
--release-unverified plaintext is streamed out as it is decrypted and the
output is deleted if verification fails.

Examples:
  keysmith secrets decrypt .env.enc --secret app
  keysmith secrets decrypt "**/*.enc" --secret app --index main`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		spinner, cleanup := startSpinner("Decrypting files...")
		defer cleanup()

		release := currentConfig().Encryption.ReleaseUnverified
		if cmd.Flags().Changed("release-unverified") {
			release = decryptReleaseUnverified
		}
		if release {
			Logger.WarnfAlways("Releasing plaintext before verification; a failed tag removes the partial output")
		}

		opts := workflows.DecryptOptions{
			FileOptions:       decryptFlags.options(cmd, args),
			ReleaseUnverified: release,
		}
		result, err := workflows.DecryptFiles(context.Background(), env, opts)
		if err != nil {
			return finishWithError(spinner, "decrypt files", err)
		}

		if result.DryRun {
			spinner.FinalMSG = ui.Info.Sprint("ℹ") + fmt.Sprintf(" Would decrypt %d files:", len(result.SourceFiles)) +
				utils.FormatPaths(result.OutputFiles)
			return nil
		}

		Logger.Infof("Decrypted %d files", len(result.OutputFiles))
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Files decrypted with " + ui.Highlight.Sprint(result.Secret) + " " +
			ui.VersionLabel(result.Version) + "\n" +
			"The following files were created:" + utils.FormatPaths(result.OutputFiles) +
			ui.Warning.Sprint("⚠") + " Keep plaintext files out of version control"
		return nil
	},
}
