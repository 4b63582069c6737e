package revdiff

// NoChanges is the content of the single line recorded for a file that is
// identical at both revisions.
const NoChanges = "NO_CHANGES"

// DiffLine is one row of a file's diff. Line numbers are 1-based; zero means
// the line has no counterpart in that revision.
type DiffLine struct {
	Content       string `json:"content"`
	OldLineNumber int    `json:"oldLineNumber,omitempty"`
	NewLineNumber int    `json:"newLineNumber,omitempty"`
}

type LineKind int

const (
	Context LineKind = iota
	Addition
	Deletion
	Unchanged
)

func (k LineKind) String() string {
	switch k {
	case Addition:
		return "addition"
	case Deletion:
		return "deletion"
	case Unchanged:
		return "unchanged"
	default:
		return "context"
	}
}

// Kind classifies a line by its marker character. Every renderer uses this so
// the classification rule lives in one place.
func (l DiffLine) Kind() LineKind {
	if l.Content == NoChanges {
		return Unchanged
	}
	if l.Content == "" {
		return Context
	}
	switch l.Content[0] {
	case '+':
		return Addition
	case '-':
		return Deletion
	default:
		return Context
	}
}

// Code returns the line content without its leading marker character.
func (l DiffLine) Code() string {
	if l.Content == NoChanges || l.Content == "" {
		return ""
	}
	switch l.Content[0] {
	case '+', '-', ' ':
		return l.Content[1:]
	}
	return l.Content
}

// Marker returns the leading marker character, or "" when the line has none.
func (l DiffLine) Marker() string {
	if l.Content == NoChanges || l.Content == "" {
		return ""
	}
	switch l.Content[0] {
	case '+', '-', ' ':
		return l.Content[:1]
	}
	return ""
}

func IsUnchanged(lines []DiffLine) bool {
	return len(lines) == 1 && lines[0].Content == NoChanges
}

type FileStat struct {
	Additions int
	Deletions int
}

func Stat(lines []DiffLine) FileStat {
	var s FileStat
	for _, l := range lines {
		switch l.Kind() {
		case Addition:
			s.Additions++
		case Deletion:
			s.Deletions++
		}
	}
	return s
}
