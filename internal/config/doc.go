// Package config loads, normalizes, and validates putmig configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PUTIO_TOKEN. The Config type centralizes every knob the CLI and migration
// engine need, so destination directories, filter lists, and API credentials
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config
