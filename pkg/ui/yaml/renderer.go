// Package yaml provides YAML output
package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dopatch/pkg/ui/display"
)

// Renderer writes one YAML document per call.
type Renderer struct {
	encoder *yaml.Encoder
}

// New creates a new YAML renderer
func New(output io.Writer) *Renderer {
	encoder := yaml.NewEncoder(output)
	encoder.SetIndent(2)
	return &Renderer{encoder: encoder}
}

// RenderResult renders any result type as YAML
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// RenderError renders an error as YAML
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(display.NewErrorResult(err))
}

// RenderMessage renders a simple message as YAML
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}

// Close flushes the encoder.
func (r *Renderer) Close() error {
	return r.encoder.Close()
}
