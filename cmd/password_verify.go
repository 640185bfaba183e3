package cmd

import (
	"fmt"

	"github.com/PolarWolf314/keysmith/internal/ui"

	"github.com/spf13/cobra"
)

var passwordVerifyCmd = &cobra.Command{
	Use:   "verify <hash>",
	Short: "Check a password against a hash",
	Long: `Checks a password against a bcrypt or argon2id hash. The hash type is
detected from its prefix.

Examples:
  keysmith password verify '$2a$12$...'
  echo -n hunter2 | keysmith password verify '$argon2id$v=19$...'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting password verify command")

		plain, err := readPlainPassword(false)
		if err != nil {
			fmt.Println(formatError("read password", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		spinner, cleanup := startSpinner("Verifying password...")
		defer cleanup()

		ok, err := comparePassword(plain, args[0])
		if err != nil {
			return finishWithError(spinner, "verify password", err)
		}
		if !ok {
			Logger.Infof("Password does not match")
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Password does not match"
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Password matches"
		return nil
	},
}
