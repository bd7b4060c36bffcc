// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/ui/display"
)

// StyleFunc decorates s with the named semantic style.
type StyleFunc func(style, s string) string

func plain(_, s string) string { return s }

// Renderer writes line-oriented output. With the default style function the
// output contains no escape sequences and manifest listings are valid
// manifest files.
type Renderer struct {
	output io.Writer
	style  StyleFunc
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output, style: plain}
}

// NewStyled creates a text renderer that decorates output with style.
func NewStyled(output io.Writer, style StyleFunc) *Renderer {
	return &Renderer{output: output, style: style}
}

// Symbol returns the one-character marker for an action.
func Symbol(a manifest.Action) string {
	switch a {
	case manifest.ActionAdd:
		return "+"
	case manifest.ActionUpdate:
		return "~"
	case manifest.ActionDelete:
		return "-"
	case manifest.ActionUnchanged:
		return "="
	default:
		return "?"
	}
}

func styleFor(a manifest.Action) string {
	switch a {
	case manifest.ActionAdd:
		return "Add"
	case manifest.ActionUpdate:
		return "Update"
	case manifest.ActionDelete:
		return "Delete"
	default:
		return "Unchanged"
	}
}

func (r *Renderer) println(s string) error {
	_, err := fmt.Fprintln(r.output, s)
	return err
}

// RenderResult renders any result type as text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.ArtifactResult:
		return r.renderArtifact(v)
	case *display.VersionsResult:
		return r.renderVersions(v)
	case *display.ManifestResult:
		return r.renderManifest(v)
	case *display.PlanResult:
		return r.renderPlan(v)
	default:
		_, err := fmt.Fprintf(r.output, "%v\n", v)
		return err
	}
}

func (r *Renderer) renderArtifact(a *display.ArtifactResult) error {
	origin := "cached"
	if a.Downloaded {
		origin = "downloaded"
	}
	if err := r.println(r.style("Header", a.Identity) + " " + r.style("Muted", "("+origin+")")); err != nil {
		return err
	}
	if err := r.println("  path:     " + r.style("Path", a.Path)); err != nil {
		return err
	}
	return r.println("  checksum: " + a.Checksum)
}

func (r *Renderer) renderVersions(v *display.VersionsResult) error {
	if len(v.Versions) == 0 {
		return r.println(r.style("Muted", "no versions published for "+v.Name))
	}
	for _, version := range v.Versions {
		line := version
		if version == v.Latest {
			line += " " + r.style("Success", "(latest)")
		}
		if err := r.println(line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderManifest(m *display.ManifestResult) error {
	sep := r.style("Muted", manifest.Separator)
	for _, rec := range m.Records {
		if err := r.println(r.style("Path", rec.Path) + sep + rec.Fingerprint); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderPlan(p *display.PlanResult) error {
	var header string
	switch {
	case p.Target == "":
		header = "diff"
	case p.Fresh:
		header = p.Target + " (fresh install)"
	case p.Baseline != "":
		header = p.Baseline + " -> " + p.Target
	default:
		header = "baseline -> " + p.Target
	}
	if err := r.println(r.style("Header", header)); err != nil {
		return err
	}

	for _, a := range p.Actions {
		line := "  " + r.style(styleFor(a.Action), Symbol(a.Action)+" "+a.Path)
		if err := r.println(line); err != nil {
			return err
		}
	}

	if p.Summary.Changes() == 0 {
		return r.println(r.style("Muted", "No changes."))
	}
	return r.println(summaryLine(p.Summary))
}

func summaryLine(s manifest.Summary) string {
	parts := []string{
		fmt.Sprintf("%d added", s.Added),
		fmt.Sprintf("%d updated", s.Updated),
		fmt.Sprintf("%d deleted", s.Deleted),
	}
	if s.Unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", s.Unchanged))
	}
	return strings.Join(parts, ", ")
}

// RenderError renders an error as text
func (r *Renderer) RenderError(err error) error {
	return r.println(r.style("Error", "Error:") + " " + err.Error())
}

// RenderMessage renders a simple message as text
func (r *Renderer) RenderMessage(msg string) error {
	return r.println(msg)
}
