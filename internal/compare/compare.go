// Package compare builds a DiffResult for a comparison request by querying a
// revision source file by file.
package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/multimediallc/revdiff/internal/diffparse"
	f "github.com/multimediallc/revdiff/pkg/functional"
	"github.com/multimediallc/revdiff/pkg/revdiff"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

// ErrComparisonFailed stands in for revision source failures that carry no
// message of their own.
var ErrComparisonFailed = errors.New("failed to compute diff")

// RevisionSource answers the queries the comparison needs from a version
// control backend.
type RevisionSource interface {
	// FileExistsAt reports whether path exists at revision. A missing path
	// is false with a nil error.
	FileExistsAt(ctx context.Context, revision, path string) (bool, error)
	// DiffBetween returns the unified diff of path, or "" when there is no
	// textual difference.
	DiffBetween(ctx context.Context, start, end, path string, contextLines int) (string, error)
	FullContentAt(ctx context.Context, revision, path string) (string, error)
}

type Comparer struct {
	source        RevisionSource
	concurrency   int
	warningBuffer io.Writer
	infoBuffer    io.Writer
}

type Option func(*Comparer)

// WithConcurrency bounds how many files are acquired at once. Values below
// one mean sequential acquisition.
func WithConcurrency(n int) Option {
	return func(c *Comparer) {
		if n < 1 {
			n = 1
		}
		c.concurrency = n
	}
}

func WithWarningWriter(w io.Writer) Option {
	return func(c *Comparer) { c.warningBuffer = w }
}

func WithInfoWriter(w io.Writer) Option {
	return func(c *Comparer) { c.infoBuffer = w }
}

func New(source RevisionSource, opts ...Option) *Comparer {
	c := &Comparer{
		source:        source,
		concurrency:   DefaultConcurrency,
		warningBuffer: io.Discard,
		infoBuffer:    io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Comparer) printDebug(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(c.infoBuffer, format, args...)
}

// fileOutcome is the result of acquiring one requested file. Each worker logs
// into its own outcome; the logs are copied to the shared writers in request
// order once every worker has finished.
type fileOutcome struct {
	excluded bool
	lines    []revdiff.DiffLine
	warnings bytes.Buffer
	debug    bytes.Buffer
}

func (o *fileOutcome) printDebug(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(&o.debug, format, args...)
}

// Compare produces the diff of every requested file. Files missing at the end
// revision are listed in ExcludedFiles; any other failure aborts the whole
// comparison. Results follow the request's file order. A path requested more
// than once is acquired and reported once, at its first position.
func (c *Comparer) Compare(ctx context.Context, req revdiff.ComparisonRequest) (*revdiff.DiffResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.ContextLines = revdiff.NormalizeContextLines(req.ContextLines)
	c.printDebug("Comparing %d files between %s and %s with %d context lines\n",
		len(req.Files), req.StartCommit, req.EndCommit, req.ContextLines)

	files := f.RemoveDuplicates(req.Files)
	outcomes := make([]*fileOutcome, len(files))
	for i := range outcomes {
		outcomes[i] = &fileOutcome{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, file := range files {
		g.Go(func() error {
			return c.compareFile(gctx, req, file, outcomes[i])
		})
	}
	err := g.Wait()
	for _, outcome := range outcomes {
		_, _ = outcome.warnings.WriteTo(c.warningBuffer)
		_, _ = outcome.debug.WriteTo(c.infoBuffer)
	}
	if err != nil {
		return nil, requestError(err)
	}

	result := revdiff.NewDiffResult()
	for i, file := range files {
		if outcomes[i].excluded {
			result.ExcludedFiles = append(result.ExcludedFiles, file)
			continue
		}
		result.Diffs.Set(file, outcomes[i].lines)
	}
	return result, nil
}

func (c *Comparer) compareFile(ctx context.Context, req revdiff.ComparisonRequest, file string, out *fileOutcome) error {
	// A file missing at the end revision would diff as nothing, so check first.
	existsAtEnd, err := c.source.FileExistsAt(ctx, req.EndCommit, file)
	if err != nil {
		return err
	}
	if !existsAtEnd {
		out.printDebug("Excluding %s: not present at %s\n", file, req.EndCommit)
		out.excluded = true
		return nil
	}

	raw, err := c.source.DiffBetween(ctx, req.StartCommit, req.EndCommit, file, req.ContextLines)
	if err != nil {
		return err
	}
	if raw != "" {
		out.lines = diffparse.ParseLines(raw, &out.warnings)
		return nil
	}

	existsAtStart, err := c.source.FileExistsAt(ctx, req.StartCommit, file)
	if err != nil {
		return err
	}
	if existsAtStart {
		out.lines = []revdiff.DiffLine{{Content: revdiff.NoChanges}}
		return nil
	}

	out.printDebug("%s is new at %s\n", file, req.EndCommit)
	content, err := c.source.FullContentAt(ctx, req.EndCommit, file)
	if err != nil {
		return err
	}
	out.lines = AdditionsFromContent(content)
	return nil
}

// AdditionsFromContent renders full file content as a diff of a newly added
// file: every line prefixed with "+" and numbered from 1. Lines are split on
// "\n" only, so carriage returns stay in the content as they do in git diffs.
func AdditionsFromContent(content string) []revdiff.DiffLine {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return []revdiff.DiffLine{}
	}
	split := strings.Split(content, "\n")
	lines := make([]revdiff.DiffLine, len(split))
	for i, line := range split {
		lines[i] = revdiff.DiffLine{Content: "+" + line, NewLineNumber: i + 1}
	}
	return lines
}

func requestError(err error) error {
	if err.Error() == "" {
		return fmt.Errorf("%w%w", ErrComparisonFailed, err)
	}
	return err
}
