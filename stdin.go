package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// stdinArg in the file list means "read further paths from stdin".
const stdinArg = "-"

// scanLines reads input and returns a slice of non-empty, trimmed lines
func scanLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	lines := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from stdin: %w", err)
	}
	return lines, nil
}

// expandStdinArg replaces each "-" argument with the paths read from stdin.
// Stdin is consumed at most once.
func expandStdinArg(args []string, stdin io.Reader) ([]string, error) {
	var fromStdin []string
	files := make([]string, 0, len(args))
	for _, arg := range args {
		if arg != stdinArg {
			files = append(files, arg)
			continue
		}
		if fromStdin == nil {
			lines, err := scanLines(stdin)
			if err != nil {
				return nil, err
			}
			fromStdin = lines
		}
		files = append(files, fromStdin...)
	}
	return files, nil
}
