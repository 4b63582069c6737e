package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	full := append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com", "-c", "commit.gpgsign=false"}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// setupRepo creates a repository with two commits and returns its directory
// and the two revisions.
func setupRepo(t *testing.T) (string, string, string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	write := func(name, content string) {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}

	gitRun(t, dir, "init", "-q")
	write("a.txt", "one\ntwo\nthree\n")
	write("gone.txt", "bye\n")
	write("same.txt", "same\n")
	gitRun(t, dir, "add", ".")
	gitRun(t, dir, "commit", "-q", "-m", "first")
	start := gitRun(t, dir, "rev-parse", "HEAD")

	write("a.txt", "one\n2\nthree\n")
	write("new/b.txt", "hello\n")
	gitRun(t, dir, "rm", "-q", "gone.txt")
	gitRun(t, dir, "add", ".")
	gitRun(t, dir, "commit", "-q", "-m", "second")
	end := gitRun(t, dir, "rev-parse", "HEAD")
	return dir, start, end
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	WarningBuffer.Reset()
	InfoBuffer.Reset()
	var stdout bytes.Buffer
	cliApp := newCLIApp(strings.NewReader(stdin), &stdout)
	err := cliApp.Run(append([]string{"revdiff"}, args...))
	return stdout.String(), err
}

func TestCLI_Unified(t *testing.T) {
	dir, start, end := setupRepo(t)

	out, err := runCLI(t, "", "--repo", dir, "--color", "never", start, end, "a.txt", "gone.txt", "same.txt", "new/b.txt")
	require.NoError(t, err)

	expected := "--- a/a.txt\n+++ b/a.txt\n one\n-two\n+2\n three\n\n" +
		"--- a/same.txt\n+++ b/same.txt\n(no changes)\n\n" +
		"--- a/new/b.txt\n+++ b/new/b.txt\n+hello\n\n" +
		"# Excluded files (not present at end revision):\n" +
		"#   gone.txt\n"
	assert.Equal(t, expected, out)
}

func TestCLI_ChangedFilesAsJSON(t *testing.T) {
	dir, start, end := setupRepo(t)

	out, err := runCLI(t, "", "-r", dir, "-f", "json", "-U", "0", start, end)
	require.NoError(t, err)

	var decoded struct {
		Diffs map[string][]struct {
			Content       string `json:"content"`
			OldLineNumber int    `json:"oldLineNumber"`
			NewLineNumber int    `json:"newLineNumber"`
		} `json:"diffs"`
		ExcludedFiles []string `json:"excludedFiles"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []string{"gone.txt"}, decoded.ExcludedFiles)
	// "-U 0" is not a valid width, so the default of three applies.
	require.Len(t, decoded.Diffs["a.txt"], 4)
	assert.Equal(t, "-two", decoded.Diffs["a.txt"][1].Content)
	assert.Equal(t, 2, decoded.Diffs["a.txt"][1].OldLineNumber)
	assert.Equal(t, "+2", decoded.Diffs["a.txt"][2].Content)
	assert.Equal(t, 2, decoded.Diffs["a.txt"][2].NewLineNumber)
	assert.Equal(t, 1, decoded.Diffs["new/b.txt"][0].NewLineNumber)
}

func TestCLI_GlobAndStdin(t *testing.T) {
	dir, start, end := setupRepo(t)

	out, err := runCLI(t, "same.txt\n", "--repo", dir, "--color", "never", start, end, "*.txt", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "--- a/a.txt")
	assert.Contains(t, out, "--- a/same.txt")
	assert.Contains(t, out, "#   gone.txt")
	assert.NotContains(t, out, "new/b.txt")
	assert.Equal(t, 1, strings.Count(out, "--- a/same.txt"))
}

func TestCLI_MarkdownToFile(t *testing.T) {
	dir, start, end := setupRepo(t)
	output := filepath.Join(t.TempDir(), "report.md")

	out, err := runCLI(t, "", "--repo", dir, "--format", "markdown", "--output", output, start, end, "a.txt")
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(written), "# Diff Report\n"))
	assert.Contains(t, string(written), "```diff\n one\n-two\n+2\n three\n```")
}

func TestCLI_Verbose(t *testing.T) {
	dir, start, end := setupRepo(t)

	_, err := runCLI(t, "", "--repo", dir, "--verbose", "--color", "never", start, end)
	require.NoError(t, err)
	assert.Contains(t, InfoBuffer.String(), "Changed files: 3")
	assert.Contains(t, InfoBuffer.String(), "Excluding gone.txt: not present at "+end)
}

func TestCLI_FilesCommand(t *testing.T) {
	dir, _, end := setupRepo(t)

	out, err := runCLI(t, "", "files", "--repo", dir, end)
	require.NoError(t, err)
	assert.Equal(t, "a.txt\nnew/b.txt\nsame.txt\n", out)

	out, err = runCLI(t, "", "files", "--repo", dir, "--match", "new/**", end)
	require.NoError(t, err)
	assert.Equal(t, "new/b.txt\n", out)
}

func TestCLI_Errors(t *testing.T) {
	dir, start, _ := setupRepo(t)

	tt := []struct {
		name string
		args []string
	}{
		{name: "missing end revision", args: []string{"--repo", dir, start}},
		{name: "invalid format", args: []string{"--repo", dir, "--format", "pdf", start, "HEAD"}},
		{name: "unknown revision", args: []string{"--repo", dir, start, "no-such-ref", "a.txt"}},
		{name: "files without revision", args: []string{"files", "--repo", dir}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCLI(t, "", tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestFlushBuffers(t *testing.T) {
	WarningBuffer.Reset()
	InfoBuffer.Reset()
	WarningBuffer.WriteString("WARNING: warning message\n")
	InfoBuffer.WriteString("info message\n")

	var out bytes.Buffer
	flushBuffers(&out)

	assert.Equal(t, "WARNING: warning message\ninfo message\n", out.String())
	assert.Zero(t, WarningBuffer.Len())
	assert.Zero(t, InfoBuffer.Len())
}
