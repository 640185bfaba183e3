package cmd

import (
	"fmt"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/passwords"

	"github.com/spf13/cobra"
)

var (
	passwordHashAlgorithm string
	passwordHashCost      int
	passwordHashMemory    uint32
	passwordHashTime      uint32
)

func init() {
	passwordHashCmd.Flags().StringVar(&passwordHashAlgorithm, "algorithm", "bcrypt", "bcrypt or argon2id")
	passwordHashCmd.Flags().IntVar(&passwordHashCost, "cost", 0, fmt.Sprintf("bcrypt cost (default %d)", passwords.DefaultBcryptCost))
	passwordHashCmd.Flags().Uint32Var(&passwordHashMemory, "memory", 0, fmt.Sprintf("argon2id memory in KiB (default %d)", passwords.DefaultArgon2.Memory))
	passwordHashCmd.Flags().Uint32Var(&passwordHashTime, "time", 0, fmt.Sprintf("argon2id passes (default %d)", passwords.DefaultArgon2.Time))
}

var passwordHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Hash a password",
	Long: `Hashes a password and prints the encoded hash.

Examples:
  keysmith password hash
  echo -n hunter2 | keysmith password hash --algorithm argon2id --memory 65536`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting password hash command")

		algorithm, ok := passwordAlgorithm(passwordHashAlgorithm)
		if !ok {
			err := fmt.Errorf("password algorithm %q: %w", passwordHashAlgorithm, kerrors.ErrUnsupportedAlgorithm)
			fmt.Println(formatError("hash password", err))
			return nil
		}

		plain, err := readPlainPassword(true)
		if err != nil {
			fmt.Println(formatError("read password", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		spinner, cleanup := startSpinner("Hashing password...")
		defer cleanup()

		var hash string
		if algorithm == "argon2id" {
			hash, err = passwords.Argon2Hash(plain, passwords.Argon2Params{
				Memory: passwordHashMemory,
				Time:   passwordHashTime,
			})
		} else {
			hash, err = passwords.BcryptHash(plain, passwordHashCost)
		}
		if err != nil {
			return finishWithError(spinner, "hash password", err)
		}
		Logger.Debugf("Hashed password with %s", algorithm)

		spinner.FinalMSG = hash
		return nil
	},
}
