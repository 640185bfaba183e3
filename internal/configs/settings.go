package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const appName = "keysmith"

// Environment overrides for the resolved paths.
const (
	EnvConfig = "KEYSMITH_CONFIG"
	EnvHome   = "KEYSMITH_HOME"
)

type Settings struct {
	// ConfigPath is the config.toml location.
	ConfigPath string
	// KeysPath is the default directory for key material when the config
	// does not set [store] path.
	KeysPath string
}

// KeysmithSettings is resolved once at startup from the environment.
var KeysmithSettings *Settings

func init() {
	s, err := ResolveSettings()
	if err != nil {
		log.Fatalf("error resolving settings: %s", err)
	}
	KeysmithSettings = s
}

// ResolveSettings computes paths from XDG locations and the KEYSMITH_*
// overrides.
func ResolveSettings() (*Settings, error) {
	configPath := os.Getenv(EnvConfig)
	if configPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("error getting config directory: %w", err)
		}
		configPath = filepath.Join(configDir, appName, "config.toml")
	}

	keysPath := os.Getenv(EnvHome)
	if keysPath == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("error getting home directory: %w", err)
			}
			dataDir = filepath.Join(homeDir, ".local", "share")
		}
		keysPath = filepath.Join(dataDir, appName, "keys")
	}

	return &Settings{ConfigPath: configPath, KeysPath: keysPath}, nil
}
