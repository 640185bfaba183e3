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
	exportIndex      string
	exportVersion    int
	exportOutputDir  string
	exportPublicOnly bool
)

func init() {
	exportCmd.Flags().StringVar(&exportIndex, "index", "", "index the key pair is recorded in (default: [store] index)")
	exportCmd.Flags().IntVar(&exportVersion, "version", 0, "key pair version (default: current version)")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", "", "write <name>.pem and <name>.pub.pem into this directory")
	exportCmd.Flags().BoolVar(&exportPublicOnly, "public", false, "export only the public key")
}

var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a key pair as PEM",
	Long: `Encodes a stored Ed25519 key pair as PKCS#8 (private) and PKIX (public) PEM.

Without --output the PEM text is printed. Existing files are never
overwritten.

Examples:
  keysmith keys export signer --public
  keysmith keys export signer --index main --version 2 -o ./export`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting export command for %s", args[0])

		result, err := workflows.ExportKeyPair(context.Background(), env, workflows.ExportOptions{
			Name:       args[0],
			Index:      indexFor(cmd, exportIndex),
			Version:    exportVersion,
			OutputDir:  exportOutputDir,
			PublicOnly: exportPublicOnly,
		})
		if err != nil {
			fmt.Println(formatError("export key pair", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		if exportOutputDir != "" {
			fmt.Println(ui.Success.Sprint("✓") + " Key pair exported:" + utils.FormatPaths(result.Files))
			if !exportPublicOnly {
				fmt.Println(ui.Warning.Sprint("⚠") + " The .pem file holds the private key")
			}
			return nil
		}

		fmt.Print(result.PublicPEM)
		if !exportPublicOnly {
			fmt.Print(result.PrivatePEM)
		}
		return nil
	},
}
