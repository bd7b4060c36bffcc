// Package styles defines the terminal styles used by the terminal renderer.
//
// Styles use semantic names and adaptive colors that follow the terminal's
// light or dark background. The definitions live in the embedded
// styles.yaml.
package styles

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Registry maps semantic names to lipgloss styles.
type Registry map[string]lipgloss.Style

//go:embed styles.yaml
var embeddedStyles []byte

// Default is the registry built from the embedded definitions.
var Default = mustLoad(embeddedStyles)

func mustLoad(data []byte) Registry {
	r, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return r
}

// Parse builds a registry from YAML style definitions.
func Parse(data []byte) (Registry, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	r := make(Registry, len(cfg.Styles))
	for name, def := range cfg.Styles {
		style := lipgloss.NewStyle().
			Bold(def.Bold).
			Italic(def.Italic).
			Underline(def.Underline)
		if c, ok := colors[def.Foreground]; ok {
			style = style.Foreground(c)
		} else if def.Foreground != "" {
			return nil, fmt.Errorf("style %s: unknown color %q", name, def.Foreground)
		}
		if c, ok := colors[def.Background]; ok {
			style = style.Background(c)
		} else if def.Background != "" {
			return nil, fmt.Errorf("style %s: unknown color %q", name, def.Background)
		}
		r[name] = style
	}
	return r, nil
}

// Render applies the named style to s. Unknown names render s unchanged.
func (r Registry) Render(name, s string) string {
	style, ok := r[name]
	if !ok {
		return s
	}
	return style.Render(s)
}
