// Package config loads, normalizes, and validates stemsplit's TOML
// configuration.
//
// Load resolves the config path (explicit flag, then
// ~/.config/stemsplit/config.toml, then ./stemsplit.toml), decodes the file
// over repository defaults, expands ~ in path fields, applies environment
// overrides, and validates every field before anything else runs. A config
// that fails validation never reaches a tool adapter.
package config
