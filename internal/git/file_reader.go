package git

import (
	"context"
	"fmt"
)

// RefFileReader reads repository files as they exist at a fixed revision.
type RefFileReader struct {
	ctx  context.Context
	ref  string
	repo *Repo
}

func (r *Repo) FileReaderAt(ctx context.Context, ref string) *RefFileReader {
	return &RefFileReader{ctx: ctx, ref: ref, repo: r}
}

func (r *RefFileReader) ReadFile(path string) ([]byte, error) {
	path = r.repo.normalizePath(path)
	output, err := r.repo.executor.execute(r.ctx, "git", "show", fmt.Sprintf("%s:%s", r.ref, path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s from ref %s: %w", path, r.ref, err)
	}
	return output, nil
}

func (r *RefFileReader) PathExists(path string) bool {
	exists, err := r.repo.FileExistsAt(r.ctx, r.ref, path)
	return err == nil && exists
}
