// Package config loads, normalizes, and validates subseek configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENSUBTITLES_USERNAME and the OSC_DEBUG toggle. The Config type centralizes
// every knob the CLI needs: catalog endpoint and credentials, transport
// compression, lookup cache placement, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
