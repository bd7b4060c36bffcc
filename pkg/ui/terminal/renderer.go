// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"io"

	"github.com/arthur-debert/dopatch/pkg/ui/styles"
	"github.com/arthur-debert/dopatch/pkg/ui/text"
)

// New returns a text renderer decorated with the default lipgloss styles.
func New(output io.Writer) *text.Renderer {
	return NewWithStyles(output, styles.Default)
}

// NewWithStyles is New with an explicit style registry.
func NewWithStyles(output io.Writer, registry styles.Registry) *text.Renderer {
	return text.NewStyled(output, registry.Render)
}
