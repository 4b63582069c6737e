// Package diffparse turns the unified diff git produces for a single file into
// numbered diff lines.
package diffparse

import (
	"fmt"
	"io"
	"strings"

	"github.com/multimediallc/revdiff/pkg/revdiff"
	"github.com/sourcegraph/go-diff/diff"
)

const noNewlineMarker = `\ No newline at end of file`

func isHunkHeader(line string) bool {
	return strings.HasPrefix(line, "@@")
}

// isHeaderBlockStart reports whether line opens a per-file header block.
// Content lines always start with a space, "+" or "-", so they never match.
func isHeaderBlockStart(line string) bool {
	return strings.HasPrefix(line, "diff ")
}

// splitLines splits raw diff text on "\n". A single trailing newline does not
// produce an empty line. Carriage returns are content and are kept.
func splitLines(raw string) []string {
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func isNoNewlineMarker(line string) bool {
	return strings.TrimSuffix(line, "\r") == noNewlineMarker
}

// hunkStart reads the old and new starting line numbers from a hunk header.
func hunkStart(header string) (oldStart, newStart int, err error) {
	hunks, err := diff.ParseHunks([]byte(strings.TrimSuffix(header, "\r") + "\n"))
	if err != nil {
		return 0, 0, err
	}
	if len(hunks) != 1 {
		return 0, 0, fmt.Errorf("expected one hunk header, found %d", len(hunks))
	}
	return int(hunks[0].OrigStartLine), int(hunks[0].NewStartLine), nil
}

// ParseLines converts raw unified diff text into diff lines carrying old/new
// line numbers. Everything before the first valid hunk header is ignored. A
// hunk header that cannot be parsed is reported to warn and the line counters
// keep their previous values; content after a malformed header that follows no
// valid one is skipped, since it has no line numbers.
func ParseLines(raw string, warn io.Writer) []revdiff.DiffLine {
	if warn == nil {
		warn = io.Discard
	}
	lines := make([]revdiff.DiffLine, 0)
	inHunk := false
	oldLine, newLine := 0, 0

	for _, line := range splitLines(raw) {
		if isHunkHeader(line) {
			oldStart, newStart, err := hunkStart(line)
			if err != nil {
				_, _ = fmt.Fprintf(warn, "WARNING: Malformed hunk header %q: %v\n", line, err)
				continue
			}
			inHunk = true
			oldLine, newLine = oldStart, newStart
			continue
		}
		if !inHunk || isNoNewlineMarker(line) {
			continue
		}

		dl := revdiff.DiffLine{Content: line}
		switch dl.Kind() {
		case revdiff.Addition:
			dl.NewLineNumber = newLine
			newLine++
		case revdiff.Deletion:
			dl.OldLineNumber = oldLine
			oldLine++
		default:
			dl.OldLineNumber = oldLine
			dl.NewLineNumber = newLine
			oldLine++
			newLine++
		}
		lines = append(lines, dl)
	}
	return lines
}

// StripHeaders removes file and hunk headers from raw diff text and returns
// the remaining content lines unchanged. Input with neither a hunk header nor a
// leading "diff " line is already header-free and is returned as is, which
// makes stripping its own output a no-op.
func StripHeaders(raw string) string {
	lines := splitLines(raw)
	if !hasHeaders(lines) {
		return strings.Join(lines, "\n")
	}

	kept := make([]string, 0)
	inHeader := true
	for _, line := range lines {
		switch {
		case isHunkHeader(line):
			inHeader = false
		case isHeaderBlockStart(line):
			inHeader = true
		case inHeader, isNoNewlineMarker(line):
		default:
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func hasHeaders(lines []string) bool {
	if len(lines) > 0 && isHeaderBlockStart(lines[0]) {
		return true
	}
	for _, line := range lines {
		if isHunkHeader(line) {
			return true
		}
	}
	return false
}
