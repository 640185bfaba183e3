package mnemonic

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
)

const (
	DefaultLanguage = "english"
	DefaultStrength = 128
	// WordsPerLine is how many words SplitWords puts in each group.
	WordsPerLine = 6
)

// Portuguese is accepted as a name but has no wordlist in go-bip39.
var languages = map[string][]string{
	"chinese_simplified":  wordlists.ChineseSimplified,
	"chinese_traditional": wordlists.ChineseTraditional,
	"czech":               wordlists.Czech,
	"english":             wordlists.English,
	"french":              wordlists.French,
	"italian":             wordlists.Italian,
	"japanese":            wordlists.Japanese,
	"korean":              wordlists.Korean,
	"portuguese":          nil,
	"spanish":             wordlists.Spanish,
}

// go-bip39 keeps its wordlist in package state.
var wordListMu sync.Mutex

// Languages lists every language name Generate recognizes.
func Languages() []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SupportedLanguage reports whether a wordlist is available for language.
func SupportedLanguage(language string) bool {
	return wordlist(language) != nil
}

func wordlist(language string) []string {
	if language == "" {
		language = DefaultLanguage
	}
	return languages[strings.ToLower(language)]
}

func withWordList(language string, fn func() error) error {
	list := wordlist(language)
	if list == nil {
		return fmt.Errorf("%q: %w", language, kerrors.ErrUnsupportedLanguage)
	}

	wordListMu.Lock()
	defer wordListMu.Unlock()
	prev := bip39.GetWordList()
	bip39.SetWordList(list)
	defer bip39.SetWordList(prev)

	return fn()
}

// Generate returns a new mnemonic. strength is the entropy in bits and must
// be a multiple of 32 between 128 and 256. Zero values pick the defaults.
func Generate(language string, strength int) (string, error) {
	if strength == 0 {
		strength = DefaultStrength
	}
	if strength < 128 || strength > 256 || strength%32 != 0 {
		return "", fmt.Errorf("strength %d must be a multiple of 32 in [128, 256]: %w", strength, kerrors.ErrValidation)
	}

	var phrase string
	err := withWordList(language, func() error {
		entropy, err := bip39.NewEntropy(strength)
		if err != nil {
			return fmt.Errorf("generating entropy: %w", err)
		}
		phrase, err = bip39.NewMnemonic(entropy)
		if err != nil {
			return fmt.Errorf("encoding mnemonic: %w", err)
		}
		return nil
	})
	return phrase, err
}

// Valid reports whether phrase is a well-formed mnemonic in language.
func Valid(phrase, language string) bool {
	valid := false
	_ = withWordList(language, func() error {
		valid = bip39.IsMnemonicValid(normalize(phrase))
		return nil
	})
	return valid
}

// Seed stretches phrase and an optional password into a 64-byte seed.
// The phrase is not checked against a wordlist so recovered phrases from
// any language work.
func Seed(phrase, password string) ([]byte, error) {
	phrase = normalize(phrase)
	if phrase == "" {
		return nil, fmt.Errorf("empty mnemonic: %w", kerrors.ErrValidation)
	}
	return bip39.NewSeed(phrase, password), nil
}

// SplitWords groups the words of phrase into lines of size words each.
// A size below one means WordsPerLine.
func SplitWords(phrase string, size int) [][]string {
	if size < 1 {
		size = WordsPerLine
	}
	words := strings.Fields(phrase)
	var out [][]string
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		out = append(out, words[i:end])
	}
	return out
}

func normalize(phrase string) string {
	return strings.Join(strings.Fields(phrase), " ")
}
