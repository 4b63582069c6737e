package revdiff

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestDiffLineKind(t *testing.T) {
	tt := []struct {
		name     string
		content  string
		expected LineKind
		code     string
		marker   string
	}{
		{name: "addition", content: "+added", expected: Addition, code: "added", marker: "+"},
		{name: "deletion", content: "-removed", expected: Deletion, code: "removed", marker: "-"},
		{name: "context", content: " same", expected: Context, code: "same", marker: " "},
		{name: "blank context", content: "", expected: Context, code: "", marker: ""},
		{name: "sentinel", content: NoChanges, expected: Unchanged, code: "", marker: ""},
		{name: "unmarked", content: "plain", expected: Context, code: "plain", marker: ""},
		{name: "header-like deletion", content: "--- a/file", expected: Deletion, code: "-- a/file", marker: "-"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			line := DiffLine{Content: tc.content}
			if got := line.Kind(); got != tc.expected {
				t.Errorf("Kind() = %v, expected %v", got, tc.expected)
			}
			if got := line.Code(); got != tc.code {
				t.Errorf("Code() = %q, expected %q", got, tc.code)
			}
			if got := line.Marker(); got != tc.marker {
				t.Errorf("Marker() = %q, expected %q", got, tc.marker)
			}
		})
	}
}

func TestStat(t *testing.T) {
	lines := []DiffLine{
		{Content: " ctx", OldLineNumber: 1, NewLineNumber: 1},
		{Content: "-a", OldLineNumber: 2},
		{Content: "+b", NewLineNumber: 2},
		{Content: "+c", NewLineNumber: 3},
	}
	if got := Stat(lines); got != (FileStat{Additions: 2, Deletions: 1}) {
		t.Errorf("Stat() = %+v, expected 2 additions and 1 deletion", got)
	}
	if got := Stat([]DiffLine{{Content: NoChanges}}); got != (FileStat{}) {
		t.Errorf("Stat() of unchanged file = %+v, expected zero", got)
	}
}

func TestIsUnchanged(t *testing.T) {
	tt := []struct {
		name     string
		lines    []DiffLine
		expected bool
	}{
		{name: "sentinel only", lines: []DiffLine{{Content: NoChanges}}, expected: true},
		{name: "addition", lines: []DiffLine{{Content: "+x", NewLineNumber: 1}}, expected: false},
		{name: "nil", lines: nil, expected: false},
	}
	for _, tc := range tt {
		if got := IsUnchanged(tc.lines); got != tc.expected {
			t.Errorf("%s: IsUnchanged() = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}

func TestFileDiffKeepsInsertionOrder(t *testing.T) {
	d := NewFileDiff()
	d.Set("z.go", []DiffLine{{Content: NoChanges}})
	d.Set("a.go", []DiffLine{{Content: "+x", NewLineNumber: 1}})
	d.Set("m.go", nil)
	d.Set("z.go", []DiffLine{{Content: "-y", OldLineNumber: 1}})

	expected := []string{"z.go", "a.go", "m.go"}
	if got := d.Paths(); !slices.Equal(got, expected) {
		t.Errorf("Paths() = %v, expected %v", got, expected)
	}
	if d.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", d.Len())
	}

	lines, ok := d.Get("z.go")
	if !ok {
		t.Fatal("Get(z.go) not found")
	}
	if lines[0].Content != "-y" {
		t.Errorf("Get(z.go) content = %q, expected the replaced lines", lines[0].Content)
	}
	if _, ok := d.Get("missing"); ok {
		t.Error("Get(missing) found a path that was never set")
	}

	var seen []string
	for p := range d.All() {
		seen = append(seen, p)
	}
	if !slices.Equal(seen, expected) {
		t.Errorf("All() yielded %v, expected %v", seen, expected)
	}
}

func TestDiffResultJSONRoundTripKeepsOrder(t *testing.T) {
	r := NewDiffResult()
	r.Diffs.Set("b.ts", []DiffLine{{Content: "-old line", OldLineNumber: 1}, {Content: "+new line", NewLineNumber: 1}})
	r.Diffs.Set("a.ts", []DiffLine{{Content: NoChanges}})
	r.ExcludedFiles = append(r.ExcludedFiles, "gone.ts")

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got, expected map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() of encoded result error = %v", err)
	}
	_ = json.Unmarshal([]byte(`{
		"diffs": {
			"b.ts": [{"content": "-old line", "oldLineNumber": 1}, {"content": "+new line", "newLineNumber": 1}],
			"a.ts": [{"content": "NO_CHANGES"}]
		},
		"excludedFiles": ["gone.ts"]
	}`), &expected)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Marshal() = %s, expected %v", data, expected)
	}
	if strings.Index(string(data), "b.ts") > strings.Index(string(data), "a.ts") {
		t.Errorf("Marshal() = %s, expected b.ts before a.ts", data)
	}

	var decoded DiffResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if paths := decoded.Diffs.Paths(); !slices.Equal(paths, []string{"b.ts", "a.ts"}) {
		t.Errorf("decoded Paths() = %v, expected [b.ts a.ts]", paths)
	}
	if !slices.Equal(decoded.ExcludedFiles, []string{"gone.ts"}) {
		t.Errorf("decoded ExcludedFiles = %v, expected [gone.ts]", decoded.ExcludedFiles)
	}
	if decoded.ChangedFiles() != 2 {
		t.Errorf("decoded ChangedFiles() = %d, expected 2", decoded.ChangedFiles())
	}
}

func TestFileDiffUnmarshalRejectsNonObject(t *testing.T) {
	var d FileDiff
	if err := json.Unmarshal([]byte(`["a.go"]`), &d); err == nil {
		t.Error("Unmarshal() of an array succeeded, expected an error")
	}
}
