// Package config loads, normalizes, and validates imgopt configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours IMGOPT_* environment overrides.
// The pictures folder defaults to XDG_PICTURES_DIR or ~/Pictures and acts as
// the root for the compress, convert, and rename output subdirectories.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log settings, and clear validation errors.
package config
