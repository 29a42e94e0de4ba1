// Package config loads, normalizes, and validates the TOML configuration for
// soundrip. Configuration lives at ~/.config/soundrip/config.toml by default;
// a soundrip.toml in the working directory is honored as a fallback for
// development checkouts.
package config
