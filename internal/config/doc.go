// Package config loads, normalizes, and validates scrub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SCRUB_SOURCE_ROOT. The Config type centralizes every knob the CLI needs,
// from library roots and ledger location to zone padding and encoder
// settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
