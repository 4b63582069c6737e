package revdiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// FileDiff maps repository-relative paths to their diff lines, keeping the
// order in which paths were first set.
type FileDiff struct {
	paths []string
	lines map[string][]DiffLine
}

func NewFileDiff() *FileDiff {
	return &FileDiff{lines: make(map[string][]DiffLine)}
}

// Set stores lines for path. Re-setting a path replaces its lines but keeps
// its original position.
func (d *FileDiff) Set(path string, lines []DiffLine) {
	if d.lines == nil {
		d.lines = make(map[string][]DiffLine)
	}
	if _, ok := d.lines[path]; !ok {
		d.paths = append(d.paths, path)
	}
	d.lines[path] = lines
}

func (d *FileDiff) Get(path string) ([]DiffLine, bool) {
	if d == nil {
		return nil, false
	}
	lines, ok := d.lines[path]
	return lines, ok
}

func (d *FileDiff) Paths() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.paths)
}

func (d *FileDiff) Len() int {
	if d == nil {
		return 0
	}
	return len(d.paths)
}

// All iterates over paths and their lines in insertion order.
func (d *FileDiff) All() iter.Seq2[string, []DiffLine] {
	return func(yield func(string, []DiffLine) bool) {
		if d == nil {
			return
		}
		for _, p := range d.paths {
			if !yield(p, d.lines[p]) {
				return
			}
		}
	}
}

func (d *FileDiff) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range d.paths {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		lines := d.lines[p]
		if lines == nil {
			lines = []DiffLine{}
		}
		value, err := json.Marshal(lines)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *FileDiff) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("file diff: expected object, got %v", tok)
	}
	*d = FileDiff{lines: make(map[string][]DiffLine)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		path, ok := tok.(string)
		if !ok {
			return fmt.Errorf("file diff: expected path key, got %v", tok)
		}
		var lines []DiffLine
		if err := dec.Decode(&lines); err != nil {
			return fmt.Errorf("file diff: %s: %w", path, err)
		}
		d.Set(path, lines)
	}
	_, err = dec.Token()
	return err
}

// DiffResult is the outcome of one comparison. ExcludedFiles lists requested
// paths that do not exist at the end revision, in request order; they never
// appear in Diffs.
type DiffResult struct {
	Diffs         *FileDiff `json:"diffs"`
	ExcludedFiles []string  `json:"excludedFiles"`
}

func NewDiffResult() *DiffResult {
	return &DiffResult{Diffs: NewFileDiff(), ExcludedFiles: []string{}}
}

// ChangedFiles is the number of files with a diff entry, excluded files not counted.
func (r *DiffResult) ChangedFiles() int {
	return r.Diffs.Len()
}
