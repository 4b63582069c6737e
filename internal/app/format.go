package app

import (
	"fmt"
	"slices"
	"strings"
)

type OutputFormat string

const (
	FormatUnified      OutputFormat = "unified"
	FormatMarkdown     OutputFormat = "markdown"
	FormatMarkdownHTML OutputFormat = "markdown-html"
	FormatHTML         OutputFormat = "html"
	FormatJSON         OutputFormat = "json"
)

var AllowedFormats = []string{
	string(FormatUnified),
	string(FormatMarkdown),
	string(FormatMarkdownHTML),
	string(FormatHTML),
	string(FormatJSON),
}

func ValidateFormat(format string) (OutputFormat, error) {
	if !slices.Contains(AllowedFormats, format) {
		return "", fmt.Errorf("invalid format %s. Must be one of %s", format, strings.Join(AllowedFormats, ", "))
	}
	return OutputFormat(format), nil
}

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

var allowedColorModes = []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}

func ValidateColorMode(mode string) (ColorMode, error) {
	if !slices.Contains(allowedColorModes, mode) {
		return "", fmt.Errorf("invalid color mode %s. Must be one of %s", mode, strings.Join(allowedColorModes, ", "))
	}
	return ColorMode(mode), nil
}

// Enabled resolves the mode against whether output goes to a terminal.
func (m ColorMode) Enabled(isTerminal bool) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}
