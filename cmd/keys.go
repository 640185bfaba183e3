package cmd

import (
	"github.com/PolarWolf314/keysmith/internal/store"
	"github.com/spf13/cobra"
)

// KeysCmd groups the signing key pair commands.
var KeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage mnemonic-backed Ed25519 key pairs",
	Long: `Generates and recovers Ed25519 signing key pairs from mnemonics and
exports them as PEM.

Key pairs live in the key directory as <name>.sk.key and <name>.pk.key, or
with a .v<N> infix when versioned.`,
}

func init() {
	KeysCmd.AddCommand(newGenerateCmd(store.KindKeyPairs))
	KeysCmd.AddCommand(newRecoverCmd(store.KindKeyPairs))
	KeysCmd.AddCommand(newListCmd(store.KindKeyPairs))
	KeysCmd.AddCommand(newRemoveCmd(store.KindKeyPairs))
	KeysCmd.AddCommand(exportCmd)
}
