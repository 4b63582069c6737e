// Package language maps file extensions to language identifiers understood
// by the syntax highlighter.
package language

import (
	"path"
	"strings"
)

// FallbackFence is the fence tag used for files with no known language.
const FallbackFence = "text"

var byExtension = map[string]string{
	"bash":  "bash",
	"c":     "c",
	"cc":    "cpp",
	"cpp":   "cpp",
	"cs":    "csharp",
	"css":   "css",
	"cxx":   "cpp",
	"dart":  "dart",
	"go":    "go",
	"h":     "c",
	"hpp":   "cpp",
	"htm":   "html",
	"html":  "html",
	"java":  "java",
	"js":    "javascript",
	"json":  "json",
	"jsx":   "jsx",
	"kt":    "kotlin",
	"lua":   "lua",
	"md":    "markdown",
	"mjs":   "javascript",
	"php":   "php",
	"pl":    "perl",
	"proto": "protobuf",
	"py":    "python",
	"rb":    "ruby",
	"rs":    "rust",
	"scala": "scala",
	"scss":  "scss",
	"sh":    "bash",
	"sql":   "sql",
	"swift": "swift",
	"toml":  "toml",
	"ts":    "typescript",
	"tsx":   "tsx",
	"vue":   "vue",
	"xml":   "xml",
	"yaml":  "yaml",
	"yml":   "yaml",
	"zsh":   "bash",
}

// Extension returns the lowercase extension of a slash-separated path
// without its dot.
func Extension(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}

// ForPath returns the language for a file path, or false when its extension
// is missing or unknown.
func ForPath(p string) (string, bool) {
	lang, ok := byExtension[Extension(p)]
	return lang, ok
}

// FenceTag returns the Markdown fence tag for a file path.
func FenceTag(p string) string {
	if lang, ok := ForPath(p); ok {
		return lang
	}
	return FallbackFence
}
