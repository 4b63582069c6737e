package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/multimediallc/revdiff/internal/language"
	"github.com/multimediallc/revdiff/pkg/revdiff"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Metadata describes the comparison a Markdown report was produced from.
type Metadata struct {
	RepoPath     string
	StartCommit  string
	EndCommit    string
	ContextLines int
}

// Markdown renders the result as a Markdown report. Diff bodies always use a
// "diff" fence so the +/- markers stay highlighted.
func Markdown(result *revdiff.DiffResult, meta Metadata) string {
	var sb strings.Builder

	sb.WriteString("# Diff Report\n\n")

	sb.WriteString("## Metadata\n\n")
	sb.WriteString(fmt.Sprintf("- **Repository**: %s\n", inlineCode(meta.RepoPath)))
	sb.WriteString(fmt.Sprintf("- **Start Commit**: %s\n", inlineCode(meta.StartCommit)))
	sb.WriteString(fmt.Sprintf("- **End Commit**: %s\n", inlineCode(meta.EndCommit)))
	sb.WriteString(fmt.Sprintf("- **Context Lines**: %d\n", meta.ContextLines))
	sb.WriteString(fmt.Sprintf("- **Changed Files**: %d\n", result.ChangedFiles()))
	sb.WriteString("\n")

	if len(result.ExcludedFiles) > 0 {
		sb.WriteString("## Excluded Files\n\n")
		sb.WriteString("Not present at the end commit:\n\n")
		for _, path := range result.ExcludedFiles {
			sb.WriteString(fmt.Sprintf("- %s\n", inlineCode(path)))
		}
		sb.WriteString("\n")
	}

	if result.ChangedFiles() > 0 {
		sb.WriteString("## Changes\n\n")
	}
	for path, lines := range result.Diffs.All() {
		sb.WriteString(fmt.Sprintf("### %s\n\n", escapeMarkdown(path)))
		if revdiff.IsUnchanged(lines) {
			sb.WriteString("*No changes*\n\n")
			continue
		}
		stat := revdiff.Stat(lines)
		sb.WriteString(fmt.Sprintf("Language: %s, +%d -%d\n\n", language.FenceTag(path), stat.Additions, stat.Deletions))

		fence := fenceFor(lines)
		sb.WriteString(fence + "diff\n")
		for _, line := range lines {
			sb.WriteString(line.Content)
			sb.WriteString("\n")
		}
		sb.WriteString(fence + "\n\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// fenceFor returns a backtick fence longer than any backtick run in the lines.
func fenceFor(lines []revdiff.DiffLine) string {
	longest := 0
	for _, line := range lines {
		run := 0
		for _, r := range line.Content {
			if r == '`' {
				run++
				longest = max(longest, run)
			} else {
				run = 0
			}
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

func inlineCode(s string) string {
	if s == "" {
		return "_(none)_"
	}
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// MarkdownHTML converts a Markdown report to HTML for previewing.
func MarkdownHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}
