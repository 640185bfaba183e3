package cmd

import (
	"github.com/PolarWolf314/keysmith/internal/store"
	"github.com/spf13/cobra"
)

// SecretsCmd groups the secret and file encryption commands.
var SecretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage mnemonic-backed secrets and encrypt files with them",
	Long: `Generates and recovers 32-byte secrets from mnemonics, and uses them to
encrypt and decrypt files with AES-256-GCM or AES-256-CTR with HMAC-SHA256.

Secrets live in the key directory as <name>.secret.key, or
<name>.v<N>.secret.key when versioned. An index records which versions of
each name exist.`,
}

func init() {
	SecretsCmd.AddCommand(newGenerateCmd(store.KindSecrets))
	SecretsCmd.AddCommand(newRecoverCmd(store.KindSecrets))
	SecretsCmd.AddCommand(encryptCmd)
	SecretsCmd.AddCommand(decryptCmd)
	SecretsCmd.AddCommand(statusCmd)
	SecretsCmd.AddCommand(newListCmd(store.KindSecrets))
	SecretsCmd.AddCommand(newRemoveCmd(store.KindSecrets))
}
