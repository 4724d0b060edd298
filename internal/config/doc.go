// Package config loads, normalizes, and validates rompick configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Command-line flags override file
// values, so validation runs after the merge rather than at load time.
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical region and language codes, and clear
// validation errors.
package config
