// Package config loads, normalizes, and validates romsel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ROMSEL_ROMSET_DIR. Commands obtain directories through ResolveDirs so that
// flags, config values, and environment variables are merged in one place.
package config
