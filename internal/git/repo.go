package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Repo answers revision queries against one local git repository.
type Repo struct {
	dir      string
	executor gitCommandExecutor
}

func NewRepo(dir string) *Repo {
	return &Repo{
		dir:      dir,
		executor: newRealGitExecutor(dir),
	}
}

// normalizePath makes a path relative to the repository root in the form git
// expects after "<rev>:".
func (r *Repo) normalizePath(path string) string {
	path = filepath.ToSlash(path)
	dir := strings.TrimSuffix(filepath.ToSlash(r.dir), "/")
	if dir != "" && dir != "." && strings.HasPrefix(path, dir+"/") {
		path = strings.TrimPrefix(path, dir+"/")
	}
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}

// FileExistsAt reports whether path exists at revision. Git's "path does not
// exist" failures mean false; any other failure, such as an unknown revision,
// is returned as an error.
func (r *Repo) FileExistsAt(ctx context.Context, revision, path string) (bool, error) {
	path = r.normalizePath(path)
	_, err := r.executor.execute(ctx, "git", "cat-file", "-e", fmt.Sprintf("%s:%s", revision, path))
	if err == nil {
		return true, nil
	}
	if isMissingPath(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check %s at %s: %w", path, revision, err)
}

func isMissingPath(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return strings.Contains(cmdErr.Stderr, "does not exist") ||
		strings.Contains(cmdErr.Stderr, "exists on disk, but not in")
}

// DiffBetween returns the unified diff of path between two revisions with
// contextLines lines of context. An empty string means git found no textual
// difference.
func (r *Repo) DiffBetween(ctx context.Context, start, end, path string, contextLines int) (string, error) {
	path = r.normalizePath(path)
	output, err := r.executor.execute(ctx, "git", "diff", "--no-color", "--no-ext-diff",
		fmt.Sprintf("-U%d", contextLines), start, end, "--", path)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s between %s and %s: %w", path, start, end, err)
	}
	return string(output), nil
}

// FullContentAt returns the content of path at revision.
func (r *Repo) FullContentAt(ctx context.Context, revision, path string) (string, error) {
	path = r.normalizePath(path)
	output, err := r.executor.execute(ctx, "git", "show", fmt.Sprintf("%s:%s", revision, path))
	if err != nil {
		return "", fmt.Errorf("failed to read file %s from ref %s: %w", path, revision, err)
	}
	return string(output), nil
}

// ListFiles returns every tracked file at revision.
func (r *Repo) ListFiles(ctx context.Context, revision string) ([]string, error) {
	output, err := r.executor.execute(ctx, "git", "ls-tree", "-r", "--name-only", "-z", revision)
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", revision, err)
	}
	return splitNul(output), nil
}

// ChangedFiles returns the paths that differ between two revisions.
func (r *Repo) ChangedFiles(ctx context.Context, start, end string) ([]string, error) {
	output, err := r.executor.execute(ctx, "git", "diff", "--name-only", "--no-renames", "-z", start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list changes between %s and %s: %w", start, end, err)
	}
	return splitNul(output), nil
}

func splitNul(output []byte) []string {
	files := make([]string, 0)
	for _, name := range strings.Split(string(output), "\x00") {
		if name != "" {
			files = append(files, name)
		}
	}
	return files
}
