// Package config loads, normalizes, and validates the tool's
// configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates every knob before any file
// processing starts. Obtain settings through this package so downstream
// code receives sanitized paths and clear validation errors.
package config
