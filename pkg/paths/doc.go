// Package paths resolves the directories dopatch reads and writes.
//
// It follows the XDG Base Directory specification:
//
//   - Cache: $XDG_CACHE_HOME/dopatch (downloaded artifacts, manifests)
//   - Config: $XDG_CONFIG_HOME/dopatch (dopatch.toml)
//   - State: $XDG_STATE_HOME/dopatch (log file)
//
// # Environment Variables
//
//   - DOPATCH_CACHE_DIR: override the cache directory
//   - DOPATCH_CONFIG_DIR: override the config directory
//   - DOPATCH_STATE_DIR: override the state directory
//   - DOPATCH_CONFIG: path of the config file itself
//
// A leading ~ in any override is expanded to the home directory.
package paths
