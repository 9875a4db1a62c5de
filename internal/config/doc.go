// Package config loads and validates the subgen configuration.
//
// Configuration is read from a TOML file (default
// ~/.config/subgen/config.toml, with a project-local subgen.toml
// fallback), then overlaid with the SUBTITLE_* environment variables so
// container deployments need no file. Loading always normalizes paths to
// absolute form and validates the result, so downstream packages can rely
// on a usable Config.
package config
