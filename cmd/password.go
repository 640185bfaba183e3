package cmd

import (
	"strings"

	"github.com/PolarWolf314/keysmith/internal/passwords"
	"github.com/PolarWolf314/keysmith/internal/utils"

	"github.com/spf13/cobra"
)

// PasswordCmd groups the password hashing helpers.
var PasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Hash and verify passwords with bcrypt or argon2id",
	Long: `Hashes passwords for storage elsewhere and checks a password against a
stored hash. The password is read from a hidden prompt, or from stdin when
it is piped.`,
}

func init() {
	PasswordCmd.AddCommand(passwordHashCmd, passwordVerifyCmd)
}

// readPlainPassword prompts on a terminal and reads piped stdin otherwise.
func readPlainPassword(confirm bool) (string, error) {
	if !utils.IsTerminal() {
		data, err := utils.ReadStdin()
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	if confirm {
		pw, err := utils.ReadPassphraseConfirm("Password: ", "Confirm password: ")
		return string(pw), err
	}
	pw, err := utils.ReadPassphrase("Password: ")
	return string(pw), err
}

// isArgon2Hash reports whether hash is in the encoded argon2id form.
func isArgon2Hash(hash string) bool {
	return strings.HasPrefix(hash, "$argon2id$")
}

// passwordAlgorithm normalises the --algorithm flag.
func passwordAlgorithm(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "", "bcrypt":
		return "bcrypt", true
	case "argon2", "argon2id":
		return "argon2id", true
	}
	return "", false
}

// comparePassword checks plain against a bcrypt or argon2id hash.
func comparePassword(plain, hash string) (bool, error) {
	if isArgon2Hash(hash) {
		return passwords.Argon2Compare(plain, hash, false)
	}
	return passwords.BcryptCompare(plain, hash, false)
}
