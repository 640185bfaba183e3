package cmd

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/keysmith/internal/mnemonic"
	"github.com/PolarWolf314/keysmith/internal/ui"

	"github.com/spf13/cobra"
)

var (
	mnemonicLanguage  string
	mnemonicStrength  int
	mnemonicLanguages bool
	mnemonicPlain     bool
)

func init() {
	MnemonicCmd.Flags().StringVar(&mnemonicLanguage, "language", "", "wordlist language (default: [mnemonic] language)")
	MnemonicCmd.Flags().IntVar(&mnemonicStrength, "strength", 0, "entropy in bits: 128, 160, 192, 224 or 256")
	MnemonicCmd.Flags().BoolVar(&mnemonicLanguages, "languages", false, "list the supported languages")
	MnemonicCmd.Flags().BoolVar(&mnemonicPlain, "plain", false, "print the words on one line")
}

// MnemonicCmd prints a fresh mnemonic without storing anything.
var MnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Generate a mnemonic without deriving anything from it",
	Long: `Generates a BIP-39 mnemonic. Nothing is written to the key directory; feed
the words to 'keysmith secrets recover' or 'keysmith keys recover' later.

Examples:
  keysmith mnemonic
  keysmith mnemonic --language spanish --strength 256
  keysmith mnemonic --languages`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mnemonicLanguages {
			for _, l := range mnemonic.Languages() {
				if mnemonic.SupportedLanguage(l) {
					fmt.Println(l)
				} else {
					fmt.Println(l + " " + ui.Muted.Sprint("no wordlist"))
				}
			}
			return nil
		}

		cfg := currentConfig()
		language := mnemonicLanguage
		if language == "" {
			language = cfg.Mnemonic.Language
		}
		strength := mnemonicStrength
		if strength == 0 {
			strength = cfg.Mnemonic.Strength
		}
		Logger.Debugf("Generating %d-bit mnemonic in %s", strength, language)

		phrase, err := mnemonic.Generate(language, strength)
		if err != nil {
			fmt.Println(formatError("generate mnemonic", err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		if mnemonicPlain {
			fmt.Println(phrase)
			return nil
		}
		fmt.Print(ui.MnemonicBlock(mnemonic.SplitWords(phrase, 0)))
		fmt.Println(ui.Muted.Sprint(fmt.Sprintf("%d words, %s", len(strings.Fields(phrase)), language)))
		return nil
	},
}
