package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config in the shape of dopatch.toml. Durations are
// written as strings so the file reads "5m0s" rather than nanoseconds.
type fileConfig struct {
	Repository struct {
		URL       string `toml:"url"`
		Extension string `toml:"extension"`
		UserAgent string `toml:"user_agent"`
	} `toml:"repository"`
	Cache struct {
		Dir string `toml:"dir"`
	} `toml:"cache"`
	Resolver struct {
		Timeout string `toml:"timeout"`
	} `toml:"resolver"`
	Diff struct {
		IncludeUnchanged bool `toml:"include_unchanged"`
	} `toml:"diff"`
	Output struct {
		Format string `toml:"format"`
	} `toml:"output"`
}

// Render encodes cfg as a dopatch.toml document.
func Render(cfg *Config) ([]byte, error) {
	var f fileConfig
	f.Repository.URL = cfg.Repository.URL
	f.Repository.Extension = cfg.Repository.Extension
	f.Repository.UserAgent = cfg.Repository.UserAgent
	f.Cache.Dir = cfg.Cache.Dir
	f.Resolver.Timeout = cfg.Resolver.Timeout.String()
	f.Diff.IncludeUnchanged = cfg.Diff.IncludeUnchanged
	f.Output.Format = cfg.Output.Format
	return toml.Marshal(f)
}

// GenerateConfigContent returns the documented defaults with every value
// commented out, ready to be saved as a starting dopatch.toml.
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues comments out every assignment, keeping comments,
// blank lines and section headers.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
