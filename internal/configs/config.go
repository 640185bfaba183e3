package configs

import (
	"errors"
	"fmt"
	"os"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/mnemonic"
	"github.com/PolarWolf314/keysmith/internal/secrets"
	"github.com/google/uuid"
)

// MaxChunkSize bounds [encryption] chunk_size.
const MaxChunkSize = 64 * 1024 * 1024

type Config struct {
	InstallationID string           `toml:"installation_id" json:"installation_id"`
	Store          StoreConfig      `toml:"store" json:"store"`
	Encryption     EncryptionConfig `toml:"encryption" json:"encryption"`
	Mnemonic       MnemonicConfig   `toml:"mnemonic" json:"mnemonic"`
}

type StoreConfig struct {
	// Path overrides Settings.KeysPath when set.
	Path           string `toml:"path" json:"path"`
	Index          string `toml:"index" json:"index"`
	CurrentVersion int    `toml:"current_version" json:"current_version"`
}

type EncryptionConfig struct {
	Algorithm         string `toml:"algorithm" json:"algorithm"`
	ChunkSize         int    `toml:"chunk_size" json:"chunk_size"`
	ReleaseUnverified bool   `toml:"release_unverified" json:"release_unverified"`
}

type MnemonicConfig struct {
	Language string `toml:"language" json:"language"`
	Strength int    `toml:"strength" json:"strength"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			CurrentVersion: 1,
		},
		Encryption: EncryptionConfig{
			Algorithm: string(secrets.AES256GCM),
			ChunkSize: secrets.DefaultChunkSize,
		},
		Mnemonic: MnemonicConfig{
			Language: mnemonic.DefaultLanguage,
			Strength: mnemonic.DefaultStrength,
		},
	}
}

// LoadConfig reads the config at path over the defaults. A missing file
// yields the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %v: %w", err, kerrors.ErrFormat)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes config to path, assigning an installation id first if
// it has none.
func SaveConfig(path string, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if config.InstallationID == "" {
		config.InstallationID = GenerateInstallationID()
	}

	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// EnsureConfig loads the config at path and saves it back if it has no
// installation id yet.
func EnsureConfig(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if config.InstallationID == "" {
		if err := SaveConfig(path, config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// GenerateInstallationID generates a new UUID for this installation.
func GenerateInstallationID() string {
	return uuid.New().String()
}

// Validate rejects unknown algorithms and out-of-range numbers.
func (c *Config) Validate() error {
	if _, err := secrets.ParseAlgorithm(c.Encryption.Algorithm); err != nil {
		return fmt.Errorf("[encryption] algorithm: %w", err)
	}
	if c.Encryption.ChunkSize < 0 || c.Encryption.ChunkSize > MaxChunkSize {
		return fmt.Errorf("[encryption] chunk_size %d out of range: %w", c.Encryption.ChunkSize, kerrors.ErrValidation)
	}
	if c.Store.CurrentVersion < 1 {
		return fmt.Errorf("[store] current_version must be at least 1: %w", kerrors.ErrValidation)
	}
	if c.Mnemonic.Language != "" && !mnemonic.SupportedLanguage(c.Mnemonic.Language) {
		return fmt.Errorf("[mnemonic] language %q: %w", c.Mnemonic.Language, kerrors.ErrUnsupportedLanguage)
	}
	switch c.Mnemonic.Strength {
	case 0, 128, 160, 192, 224, 256:
	default:
		return fmt.Errorf("[mnemonic] strength %d: %w", c.Mnemonic.Strength, kerrors.ErrValidation)
	}
	if c.InstallationID != "" {
		if _, err := uuid.Parse(c.InstallationID); err != nil {
			return fmt.Errorf("installation_id %q: %w", c.InstallationID, kerrors.ErrValidation)
		}
	}
	return nil
}

// KeysDir is the directory key material lives in.
func (c *Config) KeysDir(s *Settings) string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return s.KeysPath
}

// Algorithm returns the parsed [encryption] algorithm.
func (c *Config) Algorithm() secrets.Algorithm {
	alg, err := secrets.ParseAlgorithm(c.Encryption.Algorithm)
	if err != nil {
		return secrets.AES256GCM
	}
	return alg
}
