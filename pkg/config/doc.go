// Package config loads dopatch configuration.
//
// Sources are layered, later ones winning: the embedded defaults, the user
// file (dopatch.toml in the XDG config directory, or DOPATCH_CONFIG), the
// DOPATCH_* environment and finally explicit overrides such as command-line
// flags.
package config
