// Package config loads, normalizes, and validates Turntable configuration.
//
// Configuration lives in a single TOML file. Load applies defaults, expands
// home-relative paths, pulls the bot token from the environment when the file
// omits it, and validates the result so that the daemon either starts with a
// usable config or fails before touching any chat state.
package config
