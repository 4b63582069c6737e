package render

import "github.com/multimediallc/revdiff/pkg/revdiff"

// sampleResult has an unchanged file, a modified file and an excluded file.
func sampleResult() *revdiff.DiffResult {
	r := revdiff.NewDiffResult()
	r.Diffs.Set("a.ts", []revdiff.DiffLine{{Content: revdiff.NoChanges}})
	r.Diffs.Set("src/main.go", []revdiff.DiffLine{
		{Content: " package main", OldLineNumber: 1, NewLineNumber: 1},
		{Content: "-old line", OldLineNumber: 2},
		{Content: "+new line", NewLineNumber: 2},
	})
	r.ExcludedFiles = []string{"b.ts"}
	return r
}
