// Package config loads, normalizes, and validates uttale configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// server and CLI need: the indexed media root, database and log directories,
// the API bind address, audio extraction settings, and reindex tuning.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths and clear validation errors.
package config
