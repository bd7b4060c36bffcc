package topics

import (
	"path"

	"github.com/charmbracelet/glamour"
)

// Renderer formats a topic's raw content for display
type Renderer interface {
	Render(content string, name string) string
}

// PlainRenderer returns content as-is
type PlainRenderer struct{}

// Render returns the content unchanged
func (r *PlainRenderer) Render(content string, name string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour. Other files pass
// through unchanged.
type GlamourRenderer struct {
	Style string // "auto", a glamour style name, or a path to a style file
	Width int    // word wrap width, 0 keeps glamour's default
}

// NewGlamourRenderer creates a markdown renderer with automatic style detection
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

// Render converts markdown to terminal output. Rendering errors fall back to
// the raw content.
func (r *GlamourRenderer) Render(content string, name string) string {
	if path.Ext(name) != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
