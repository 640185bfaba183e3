package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/ui"
	"github.com/PolarWolf314/keysmith/internal/workflows"

	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
}

var statusCmd = &cobra.Command{
	Use:   "status [files/globs...]",
	Short: "Show which files are encrypted and up to date",
	Long: `Compares each matched file with its .enc copy and reports whether the
encrypted copy is current, stale, missing, or has no plaintext.

Without arguments the working directory is scanned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")
		if len(args) == 0 {
			args = []string{"."}
		}

		result, err := workflows.Status(context.Background(), workflows.StatusOptions{Patterns: args})
		if err != nil {
			fmt.Println(formatError("read file status", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		if statusJSONOutput {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal status to JSON: %v", err)
			}
			fmt.Println(string(data))
			return nil
		}

		for _, f := range result.Files {
			var icon string
			switch f.Status {
			case workflows.StatusCurrent:
				icon = ui.Success.Sprint("✓")
			case workflows.StatusStale:
				icon = ui.Warning.Sprint("⚠")
			case workflows.StatusUnencrypted:
				icon = ui.Error.Sprint("✗")
			case workflows.StatusEncryptedOnly:
				icon = ui.Info.Sprint("ℹ")
			}
			fmt.Printf("%s %-40s %s\n", icon, ui.Path.Sprint(f.Path), ui.Muted.Sprint(string(f.Status)))
		}

		s := result.Summary
		fmt.Println()
		fmt.Printf("Summary: %d current, %d stale, %d unencrypted, %d encrypted only\n",
			s.Current, s.Stale, s.Unencrypted, s.EncryptedOnly)
		if s.Stale > 0 || s.Unencrypted > 0 {
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("keysmith secrets encrypt") + " to update them")
		}
		return nil
	},
}
