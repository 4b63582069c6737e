package app

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/muesli/termenv"
	"github.com/multimediallc/revdiff/internal/compare"
	"github.com/multimediallc/revdiff/internal/config"
	"github.com/multimediallc/revdiff/internal/git"
	"github.com/multimediallc/revdiff/internal/render"
	f "github.com/multimediallc/revdiff/pkg/functional"
	"github.com/multimediallc/revdiff/pkg/revdiff"
)

// Config holds the application configuration. Empty or zero fields fall back
// to revdiff.toml and then to the built-in defaults.
type Config struct {
	RepoDir      string
	StartCommit  string
	EndCommit    string
	Files        []string
	ContextLines string
	Format       string
	Color        string
	Concurrency  int
	// ConfigRef reads revdiff.toml from this revision instead of the
	// working tree.
	ConfigRef     string
	IsTerminal    bool
	ColorProfile  termenv.Profile
	Verbose       bool
	InfoBuffer    io.Writer
	WarningBuffer io.Writer
}

// repository is the subset of the git backend the application drives.
type repository interface {
	compare.RevisionSource
	ListFiles(ctx context.Context, revision string) ([]string, error)
	ChangedFiles(ctx context.Context, start, end string) ([]string, error)
}

// App represents the application with its dependencies
type App struct {
	Conf         *config.Config
	config       *Config
	repo         repository
	configReader func(ctx context.Context) config.FileReader
}

// New creates a new App backed by the git repository at cfg.RepoDir.
func New(cfg Config) *App {
	if cfg.InfoBuffer == nil {
		cfg.InfoBuffer = io.Discard
	}
	if cfg.WarningBuffer == nil {
		cfg.WarningBuffer = io.Discard
	}
	repo := git.NewRepo(cfg.RepoDir)
	app := &App{
		config: &cfg,
		repo:   repo,
	}
	if cfg.ConfigRef != "" {
		app.configReader = func(ctx context.Context) config.FileReader {
			return repo.FileReaderAt(ctx, cfg.ConfigRef)
		}
	}
	return app
}

func (a *App) printDebug(format string, args ...interface{}) {
	if a.config.Verbose {
		_, _ = fmt.Fprintf(a.config.InfoBuffer, format, args...)
	}
}

func (a *App) printWarn(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.config.WarningBuffer, format, args...)
}

func (a *App) loadConfig(ctx context.Context) {
	if a.Conf != nil {
		return
	}
	dir := a.config.RepoDir
	var reader config.FileReader
	if a.configReader != nil {
		dir = ""
		reader = a.configReader(ctx)
	}
	conf, err := config.ReadConfig(dir, reader)
	if err != nil {
		a.printWarn("WARNING: Error reading %s - using default config: %v\n", config.FileName, err)
	}
	a.Conf = conf
}

// options is the effective configuration after flags override revdiff.toml.
type options struct {
	contextLines int
	format       OutputFormat
	color        bool
	concurrency  int
}

func (a *App) resolveOptions() (options, error) {
	opts := options{contextLines: revdiff.DefaultContextLines}
	switch {
	case a.config.ContextLines != "":
		opts.contextLines = revdiff.ParseContextLines(a.config.ContextLines)
	case a.Conf.ContextLines != nil:
		opts.contextLines = revdiff.NormalizeContextLines(*a.Conf.ContextLines)
	}

	format := a.config.Format
	if format == "" {
		format = a.Conf.Format
	}
	outputFormat, err := ValidateFormat(format)
	if err != nil {
		return opts, err
	}
	opts.format = outputFormat

	color := a.config.Color
	if color == "" {
		color = a.Conf.Color
	}
	mode, err := ValidateColorMode(color)
	if err != nil {
		return opts, err
	}
	opts.color = mode.Enabled(a.config.IsTerminal)

	opts.concurrency = a.config.Concurrency
	if opts.concurrency <= 0 {
		opts.concurrency = a.Conf.Concurrency
	}
	if opts.concurrency <= 0 {
		opts.concurrency = compare.DefaultConcurrency
	}
	return opts, nil
}

// Run compares the configured revisions and returns the rendered report.
func (a *App) Run(ctx context.Context) (string, error) {
	if a.config.StartCommit == "" || a.config.EndCommit == "" {
		return "", fmt.Errorf("start and end revisions are required")
	}
	a.loadConfig(ctx)
	opts, err := a.resolveOptions()
	if err != nil {
		return "", err
	}
	a.printDebug("Comparing %s..%s with %d context lines\n", a.config.StartCommit, a.config.EndCommit, opts.contextLines)

	files, err := a.resolveFiles(ctx)
	if err != nil {
		return "", err
	}

	result := revdiff.NewDiffResult()
	if len(files) == 0 {
		a.printWarn("WARNING: No files to compare\n")
	} else {
		comparer := compare.New(a.repo,
			compare.WithConcurrency(opts.concurrency),
			compare.WithWarningWriter(a.config.WarningBuffer),
			compare.WithInfoWriter(a.infoWriter()),
		)
		result, err = comparer.Compare(ctx, revdiff.ComparisonRequest{
			StartCommit:  a.config.StartCommit,
			EndCommit:    a.config.EndCommit,
			Files:        files,
			ContextLines: opts.contextLines,
		})
		if err != nil {
			return "", err
		}
	}
	return a.render(result, opts)
}

func (a *App) infoWriter() io.Writer {
	if a.config.Verbose {
		return a.config.InfoBuffer
	}
	return io.Discard
}

func (a *App) render(result *revdiff.DiffResult, opts options) (string, error) {
	htmlOpts := render.HTMLOptions{
		Highlight: a.Conf.Highlight == nil || *a.Conf.Highlight,
		Style:     a.Conf.HighlightStyle,
	}
	switch opts.format {
	case FormatMarkdown:
		return render.Markdown(result, a.metadata(opts)), nil
	case FormatMarkdownHTML:
		return render.MarkdownHTML(render.Markdown(result, a.metadata(opts)))
	case FormatHTML:
		title := fmt.Sprintf("%s..%s", a.config.StartCommit, a.config.EndCommit)
		return render.HTMLPage(result, title, htmlOpts), nil
	case FormatJSON:
		out, err := render.JSON(result)
		if err != nil {
			return "", err
		}
		return string(out) + "\n", nil
	default:
		return render.Unified(result, render.UnifiedOptions{
			Color:   opts.color,
			Profile: a.config.ColorProfile,
		}), nil
	}
}

func (a *App) metadata(opts options) render.Metadata {
	return render.Metadata{
		RepoPath:     a.config.RepoDir,
		StartCommit:  a.config.StartCommit,
		EndCommit:    a.config.EndCommit,
		ContextLines: opts.contextLines,
	}
}

func isGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// resolveFiles turns the file arguments into the request's file list: no
// arguments means every changed file, glob arguments expand against the files
// tracked at either revision, and ignore patterns are dropped last.
func (a *App) resolveFiles(ctx context.Context) ([]string, error) {
	var files []string
	if len(a.config.Files) == 0 {
		changed, err := a.repo.ChangedFiles(ctx, a.config.StartCommit, a.config.EndCommit)
		if err != nil {
			return nil, err
		}
		a.printDebug("Changed files: %d\n", len(changed))
		files = changed
	} else {
		var tracked []string
		args := f.Map(a.config.Files, func(arg string) string { return strings.TrimPrefix(arg, "./") })
		for _, arg := range args {
			if !isGlob(arg) {
				files = append(files, arg)
				continue
			}
			if !doublestar.ValidatePattern(arg) {
				return nil, fmt.Errorf("invalid file pattern: %s", arg)
			}
			if tracked == nil {
				var err error
				tracked, err = a.trackedAtEitherRevision(ctx)
				if err != nil {
					return nil, err
				}
			}
			matches := f.Filtered(tracked, func(file string) bool {
				match, _ := doublestar.Match(arg, file)
				return match
			})
			if len(matches) == 0 {
				a.printWarn("WARNING: Pattern %s matched no files\n", arg)
			}
			files = append(files, matches...)
		}
	}
	files = f.RemoveDuplicates(files)

	ignored := f.Filtered(files, func(file string) bool { return matchesAny(a.Conf.Ignore, file) })
	for _, file := range ignored {
		a.printDebug("Ignoring %s\n", file)
	}
	return f.Filtered(files, func(file string) bool { return !matchesAny(a.Conf.Ignore, file) }), nil
}

func (a *App) trackedAtEitherRevision(ctx context.Context) ([]string, error) {
	start, err := a.repo.ListFiles(ctx, a.config.StartCommit)
	if err != nil {
		return nil, err
	}
	end, err := a.repo.ListFiles(ctx, a.config.EndCommit)
	if err != nil {
		return nil, err
	}
	union := f.NewSet[string]()
	for _, files := range [][]string{start, end} {
		for _, file := range files {
			union.Add(file)
		}
	}
	tracked := union.Items()
	slices.Sort(tracked)
	return tracked, nil
}

func matchesAny(patterns []string, file string) bool {
	for _, pattern := range patterns {
		if match, err := doublestar.Match(pattern, file); err == nil && match {
			return true
		}
	}
	return false
}

// TrackedFiles lists the files tracked at revision, optionally narrowed to
// those matching a doublestar pattern.
func (a *App) TrackedFiles(ctx context.Context, revision, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid file pattern: %s", pattern)
	}
	files, err := a.repo.ListFiles(ctx, revision)
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		return files, nil
	}
	return f.Filtered(files, func(file string) bool {
		match, _ := doublestar.Match(pattern, file)
		return match
	}), nil
}
