// Package config loads, normalizes, and validates shotexport configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SHOTEXPORT_EXPORT_ROOT. The Config type centralizes the export templates,
// cut-handle policy, publish settings, and handoff backend so every stage
// reads the same values in one pass.
package config
