// Package configs loads and saves keysmith's TOML configuration.
//
// Paths come from XDG locations:
//
//   - config: $XDG_CONFIG_HOME/keysmith/config.toml (KEYSMITH_CONFIG overrides)
//   - keys:   $XDG_DATA_HOME/keysmith/keys (KEYSMITH_HOME overrides)
//
// The config file has three sections:
//
//	installation_id = "..."
//
//	[store]
//	path = ""            # overrides the keys directory
//	index = "main"       # default index for versioned records
//	current_version = 1
//
//	[encryption]
//	algorithm = "aes-256-gcm"
//	chunk_size = 65536
//	release_unverified = false
//
//	[mnemonic]
//	language = "english"
//	strength = 128
//
// Keys missing from the file keep their defaults. The installation id is a
// UUID generated on first save and stamped on audit entries.
package configs
