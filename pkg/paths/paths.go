package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/dopatch/pkg/errors"
)

// Environment variable names
const (
	EnvCacheDir  = "DOPATCH_CACHE_DIR"
	EnvConfigDir = "DOPATCH_CONFIG_DIR"
	EnvStateDir  = "DOPATCH_STATE_DIR"
	EnvConfig    = "DOPATCH_CONFIG"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory created under each XDG base
	AppDirName = "dopatch"

	// ConfigFileName is the user configuration file
	ConfigFileName = "dopatch.toml"

	// ConfigFileNameYAML is read when ConfigFileName does not exist
	ConfigFileNameYAML = "dopatch.yaml"
)

// Paths holds the resolved directories. It is a value type; build it once
// with New and pass it around.
type Paths struct {
	cache  string
	config string
	state  string
}

// New resolves all directories from the environment.
func New() (Paths, error) {
	p := Paths{
		cache:  fromEnv(EnvCacheDir, filepath.Join(xdg.CacheHome, AppDirName)),
		config: fromEnv(EnvConfigDir, filepath.Join(xdg.ConfigHome, AppDirName)),
		state:  fromEnv(EnvStateDir, filepath.Join(xdg.StateHome, AppDirName)),
	}
	for _, dir := range []string{p.cache, p.config, p.state} {
		if dir == "" || !filepath.IsAbs(dir) {
			return Paths{}, errors.Newf(errors.ErrConfigValid, "directory %q is not absolute", dir)
		}
	}
	return p, nil
}

func fromEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return ExpandHome(v)
	}
	return fallback
}

// CacheDir is the root of the local artifact cache.
func (p Paths) CacheDir() string { return p.cache }

// ConfigDir holds the user configuration.
func (p Paths) ConfigDir() string { return p.config }

// StateDir holds the log file.
func (p Paths) StateDir() string { return p.state }

// ConfigFile returns DOPATCH_CONFIG when set, otherwise dopatch.toml in the
// config directory.
func (p Paths) ConfigFile() string {
	if v := os.Getenv(EnvConfig); v != "" {
		return ExpandHome(v)
	}
	return filepath.Join(p.config, ConfigFileName)
}

// ExpandHome expands a leading ~ or ~/ to the home directory. Other forms,
// such as ~user, are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
