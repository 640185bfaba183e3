package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/keysmith/cmd"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keysmith",
	Short: "keysmith - mnemonic-backed secrets, signing keys and file encryption.",
	Long: `keysmith derives 32-byte secrets and Ed25519 key pairs from BIP-39
mnemonics, keeps versioned copies in a key directory, and encrypts files
with AES-256-GCM or AES-256-CTR with HMAC-SHA256.

Usage:
  keysmith <command> [flags]

Available Commands:
  mnemonic   Generate a mnemonic
  secrets    Generate secrets and encrypt files with them
  keys       Generate and export signing key pairs
  config     Manage configuration
  log        View the audit log
  doctor     Check the key directory

Run 'keysmith help <command>' for more details on a specific command.
`,
	SilenceUsage: true,
	Run: func(c *cobra.Command, args []string) {
		cmd.PrintBanner()
		fmt.Println("Run 'keysmith --help' to see available commands.")
	},
}

func init() {
	cmd.AddGlobalFlags(rootCmd)
	cmd.AddCommands(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
