// Package render serializes a DiffResult as unified text, Markdown, an HTML
// fragment or JSON. Renderers never fail on valid results; they only project
// the lines the comparison produced.
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/multimediallc/revdiff/pkg/revdiff"
)

const noChangesMarker = "(no changes)"

type UnifiedOptions struct {
	// Color enables ANSI styling of headers and changed lines.
	Color bool
	// Profile is the terminal color profile used when Color is set. The zero
	// value is termenv.TrueColor.
	Profile termenv.Profile
}

type palette struct {
	enabled  bool
	header   lipgloss.Style
	addition lipgloss.Style
	deletion lipgloss.Style
	comment  lipgloss.Style
}

func newPalette(opts UnifiedOptions) palette {
	if !opts.Color {
		return palette{}
	}
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(opts.Profile)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return palette{
		enabled:  true,
		header:   base.Bold(true),
		addition: base.Foreground(lipgloss.Color("2")),
		deletion: base.Foreground(lipgloss.Color("1")),
		comment:  base.Faint(true),
	}
}

func (p palette) paint(style lipgloss.Style, s string) string {
	if !p.enabled || s == "" {
		return s
	}
	return style.Render(s)
}

func (p palette) line(line revdiff.DiffLine) string {
	switch line.Kind() {
	case revdiff.Addition:
		return p.paint(p.addition, line.Content)
	case revdiff.Deletion:
		return p.paint(p.deletion, line.Content)
	}
	return line.Content
}

// Unified renders the result as unified-diff-like text.
func Unified(result *revdiff.DiffResult, opts UnifiedOptions) string {
	p := newPalette(opts)

	var sb strings.Builder
	for path, lines := range result.Diffs.All() {
		sb.WriteString(p.paint(p.header, "--- a/"+path) + "\n")
		sb.WriteString(p.paint(p.header, "+++ b/"+path) + "\n")
		if revdiff.IsUnchanged(lines) {
			sb.WriteString(noChangesMarker + "\n")
		} else {
			for _, line := range lines {
				sb.WriteString(p.line(line) + "\n")
			}
		}
		sb.WriteString("\n")
	}

	if len(result.ExcludedFiles) > 0 {
		sb.WriteString(p.paint(p.comment, "# Excluded files (not present at end revision):") + "\n")
		for _, path := range result.ExcludedFiles {
			sb.WriteString(p.paint(p.comment, "#   "+path) + "\n")
		}
	}
	return sb.String()
}
