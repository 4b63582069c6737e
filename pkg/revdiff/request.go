package revdiff

import (
	"errors"
	"strconv"
	"strings"
)

const (
	DefaultContextLines = 3
	MaxContextLines     = 999999
)

var ErrInvalidRequest = errors.New("invalid comparison request")

type ComparisonRequest struct {
	StartCommit  string
	EndCommit    string
	Files        []string
	ContextLines int
}

// Validate checks the request shape only; whether the commits resolve is up
// to the version-control backend.
func (r ComparisonRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.StartCommit) == "" {
		missing = append(missing, "start commit")
	}
	if strings.TrimSpace(r.EndCommit) == "" {
		missing = append(missing, "end commit")
	}
	if len(r.Files) == 0 {
		missing = append(missing, "files")
	}
	if len(missing) > 0 {
		return errors.Join(ErrInvalidRequest, errors.New("missing "+strings.Join(missing, ", ")))
	}
	return nil
}

// NormalizeContextLines replaces out-of-range context widths with the default.
// Bad values are never an error.
func NormalizeContextLines(n int) int {
	if n < 1 || n > MaxContextLines {
		return DefaultContextLines
	}
	return n
}

// ParseContextLines is NormalizeContextLines for raw user input; anything that
// is not an integer becomes the default.
func ParseContextLines(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultContextLines
	}
	return NormalizeContextLines(n)
}
