package render

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/multimediallc/revdiff/internal/language"
	"github.com/multimediallc/revdiff/pkg/revdiff"
)

const (
	DefaultHighlightStyle = "github"
	minGutterWidth        = 4
)

type HTMLOptions struct {
	// Highlight enables syntax highlighting of code content.
	Highlight bool
	// Style names the chroma style whose CSS HTMLPage embeds.
	Style string
}

func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{Highlight: true, Style: DefaultHighlightStyle}
}

// highlighter turns one line of bare code into highlighted HTML for a single
// language. A nil highlighter escapes only.
type highlighter struct {
	lexer     chroma.Lexer
	formatter *chromahtml.Formatter
}

func newHighlighter(path string, enabled bool) *highlighter {
	if !enabled {
		return nil
	}
	lang, ok := language.ForPath(path)
	if !ok {
		return nil
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return nil
	}
	return &highlighter{
		lexer:     chroma.Coalesce(lexer),
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.PreventSurroundingPre(true)),
	}
}

func (h *highlighter) code(code string) string {
	if h == nil || code == "" {
		return html.EscapeString(code)
	}
	iterator, err := h.lexer.Tokenise(nil, code)
	if err != nil {
		return html.EscapeString(code)
	}
	// Lexers append a newline to their input; the row markup supplies line breaks.
	tokens := iterator.Tokens()
	for len(tokens) > 0 {
		last := &tokens[len(tokens)-1]
		last.Value = strings.TrimSuffix(last.Value, "\n")
		if last.Value != "" {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, styles.Fallback, chroma.Literator(tokens...)); err != nil {
		return html.EscapeString(code)
	}
	return buf.String()
}

func lineClass(line revdiff.DiffLine) string {
	switch line.Kind() {
	case revdiff.Addition:
		return "diff-line addition"
	case revdiff.Deletion:
		return "diff-line deletion"
	}
	return "diff-line"
}

func gutterWidth(lines []revdiff.DiffLine) int {
	largest := 0
	for _, l := range lines {
		largest = max(largest, l.OldLineNumber, l.NewLineNumber)
	}
	return max(minGutterWidth, len(strconv.Itoa(largest)))
}

func gutter(n, width int) string {
	if n == 0 {
		return strings.Repeat(" ", width)
	}
	return fmt.Sprintf("%0*d", width, n)
}

// HTML renders the result as an HTML fragment: one block per file with
// line-number gutters and per-line addition/deletion classes.
func HTML(result *revdiff.DiffResult, opts HTMLOptions) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"diff-result\">\n")

	for path, lines := range result.Diffs.All() {
		escapedPath := html.EscapeString(path)
		sb.WriteString(fmt.Sprintf("<div class=\"diff-file\" data-path=\"%s\">\n", escapedPath))
		sb.WriteString(fmt.Sprintf("<div class=\"diff-file-header\">%s</div>\n", escapedPath))

		if revdiff.IsUnchanged(lines) {
			sb.WriteString("<div class=\"diff-no-changes\">No changes</div>\n")
			sb.WriteString("</div>\n")
			continue
		}

		h := newHighlighter(path, opts.Highlight)
		width := gutterWidth(lines)
		sb.WriteString("<pre class=\"diff-lines chroma\">")
		for _, line := range lines {
			sb.WriteString(fmt.Sprintf("<div class=\"%s\">", lineClass(line)))
			sb.WriteString(fmt.Sprintf("<span class=\"line-number old\">%s</span>", gutter(line.OldLineNumber, width)))
			sb.WriteString(fmt.Sprintf("<span class=\"line-number new\">%s</span>", gutter(line.NewLineNumber, width)))
			sb.WriteString("<span class=\"line-content\">")
			sb.WriteString(html.EscapeString(line.Marker()))
			sb.WriteString(h.code(line.Code()))
			sb.WriteString("</span></div>\n")
		}
		sb.WriteString("</pre>\n")
		sb.WriteString("</div>\n")
	}

	if len(result.ExcludedFiles) > 0 {
		sb.WriteString("<div class=\"excluded-files\">\n")
		sb.WriteString("<h3>Excluded Files</h3>\n<ul>\n")
		for _, path := range result.ExcludedFiles {
			sb.WriteString(fmt.Sprintf("<li>%s</li>\n", html.EscapeString(path)))
		}
		sb.WriteString("</ul>\n</div>\n")
	}

	sb.WriteString("</div>\n")
	return sb.String()
}

const diffCSS = `.diff-file { margin-bottom: 1.5em; border: 1px solid #d0d7de; border-radius: 6px; }
.diff-file-header { padding: 6px 10px; font-family: monospace; font-weight: bold; background: #f6f8fa; }
.diff-no-changes { padding: 6px 10px; font-style: italic; color: #57606a; }
.diff-lines { margin: 0; font-family: monospace; }
.diff-line { white-space: pre; }
.diff-line.addition { background: #e6ffec; }
.diff-line.deletion { background: #ffebe9; }
.line-number { display: inline-block; padding: 0 8px; color: #8c959f; user-select: none; }
.excluded-files { color: #57606a; }
`

// HTMLPage wraps the HTML fragment in a standalone document with the diff
// and syntax highlighting stylesheets embedded.
func HTMLPage(result *revdiff.DiffResult, title string, opts HTMLOptions) string {
	style := styles.Get(opts.Style)
	var css bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&css, style); err != nil {
		css.Reset()
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"UTF-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString("<style>\n")
	sb.WriteString(diffCSS)
	sb.WriteString(css.String())
	sb.WriteString("</style>\n</head>\n<body>\n")
	sb.WriteString(HTML(result, opts))
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
