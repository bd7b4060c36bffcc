package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/logging"
	"github.com/arthur-debert/dopatch/pkg/paths"
)

var log = logging.GetLogger("config")

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "DOPATCH_"

var sections = map[string]bool{
	"repository": true,
	"cache":      true,
	"resolver":   true,
	"diff":       true,
	"output":     true,
}

// LoadOptions selects extra sources.
type LoadOptions struct {
	// File is an explicit config file. Unlike the default location it must
	// exist.
	File string

	// Overrides are flat "section.key" values applied last.
	Overrides map[string]interface{}
}

// Load resolves the configuration for the directories in p.
func Load(p paths.Paths, opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User file
	path, explicit := opts.File, opts.File != ""
	if !explicit {
		path = p.ConfigFile()
		explicit = os.Getenv(paths.EnvConfig) != ""
		if !explicit {
			path = firstExisting(path, filepath.Join(p.ConfigDir(), paths.ConfigFileNameYAML))
		}
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		log.Debug().Str("path", path).Msg("Loaded config file")
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path).
			WithDetail("path", path)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to unmarshal configuration")
	}

	// 6. Post-process
	postProcess(&cfg, p)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parserFor picks the koanf parser from the file extension. Anything that
// is not YAML is read as TOML.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// firstExisting returns the first of candidates that exists, or the first
// candidate when none does.
func firstExisting(candidates ...string) string {
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return candidates[0]
}

// envKey maps DOPATCH_REPOSITORY_URL to repository.url. Only the first
// underscore separates section from key, so DOPATCH_DIFF_INCLUDE_UNCHANGED
// maps to diff.include_unchanged. Variables outside a known section, such
// as DOPATCH_CONFIG, are skipped.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok || key == "" || !sections[section] {
		return ""
	}
	return section + "." + key
}

func postProcess(cfg *Config, p paths.Paths) {
	cfg.Repository.URL = strings.TrimSpace(cfg.Repository.URL)
	cfg.Repository.Extension = strings.TrimPrefix(cfg.Repository.Extension, ".")
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = p.CacheDir()
	}
	cfg.Cache.Dir = paths.ExpandHome(cfg.Cache.Dir)
}
