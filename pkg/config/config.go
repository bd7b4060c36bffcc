package config

import (
	"strings"
	"time"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/repository"
)

// Config is the fully resolved configuration.
type Config struct {
	Repository Repository `koanf:"repository" json:"repository" yaml:"repository"`
	Cache      Cache      `koanf:"cache" json:"cache" yaml:"cache"`
	Resolver   Resolver   `koanf:"resolver" json:"resolver" yaml:"resolver"`
	Diff       Diff       `koanf:"diff" json:"diff" yaml:"diff"`
	Output     Output     `koanf:"output" json:"output" yaml:"output"`
}

// Repository describes the remote artifact store.
type Repository struct {
	URL       string `koanf:"url" json:"url" yaml:"url"`
	Extension string `koanf:"extension" json:"extension" yaml:"extension"`
	UserAgent string `koanf:"user_agent" json:"userAgent" yaml:"userAgent"`
}

// Cache locates the local artifact cache.
type Cache struct {
	Dir string `koanf:"dir" json:"dir" yaml:"dir"`
}

// Resolver holds resolution limits.
type Resolver struct {
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`
}

// Diff holds diff defaults.
type Diff struct {
	IncludeUnchanged bool `koanf:"include_unchanged" json:"includeUnchanged" yaml:"includeUnchanged"`
}

// Output holds rendering defaults.
type Output struct {
	Format string `koanf:"format" json:"format" yaml:"format"`
}

// OutputFormats lists the accepted values of output.format.
var OutputFormats = []string{"auto", "term", "text", "json", "yaml"}

// Endpoint returns the resolver endpoint the configuration describes.
func (c *Config) Endpoint() repository.Endpoint {
	return repository.Endpoint{RemoteURL: c.Repository.URL, LocalCachePath: c.Cache.Dir}
}

// Validate checks values that cannot be fixed up silently. An empty
// repository URL is allowed; commands that need the remote report it.
func (c *Config) Validate() error {
	ext := strings.TrimPrefix(c.Repository.Extension, ".")
	if ext == "" {
		return errors.New(errors.ErrConfigValid, "repository.extension is empty")
	}
	if manifest.DetectFormat("artifact."+ext) == manifest.FormatUnknown {
		return errors.Newf(errors.ErrConfigValid, "repository.extension %q is not a supported archive format", ext).
			WithDetail("key", "repository.extension")
	}
	if c.Resolver.Timeout < 0 {
		return errors.Newf(errors.ErrConfigValid, "resolver.timeout %s is negative", c.Resolver.Timeout).
			WithDetail("key", "resolver.timeout")
	}
	if c.Cache.Dir == "" {
		return errors.New(errors.ErrConfigValid, "cache.dir is empty")
	}
	for _, f := range OutputFormats {
		if c.Output.Format == f {
			return nil
		}
	}
	return errors.Newf(errors.ErrConfigValid, "output.format %q is not one of %s", c.Output.Format, strings.Join(OutputFormats, ", ")).
		WithDetail("key", "output.format")
}
