// Package config loads, normalizes, and validates wallswitch configuration.
//
// It supplies defaults matching a two-monitor 4K desktop, expands user paths
// (including tilde shortcuts), reads TOML files, detects the running desktop
// from XDG session variables, and applies command-line overrides before
// validation. The resulting Config is built once at startup and passed to
// every component.
//
// Always obtain settings through this package so downstream code receives
// expanded paths and clear validation errors.
package config
