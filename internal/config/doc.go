// Package config loads, normalizes, and validates acbfe configuration data.
//
// It supplies repository defaults (the preferences of the desktop editor:
// default language, tmpfs workspace override, default document author,
// overlay colours), expands user paths including tilde shortcuts, reads
// TOML files, and honours environment overrides such as ACBFE_LOG_LEVEL.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical enum casing, and clear validation errors.
package config
