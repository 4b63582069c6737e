package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/multimediallc/revdiff/internal/app"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var (
	WarningBuffer = bytes.NewBuffer([]byte{})
	InfoBuffer    = bytes.NewBuffer([]byte{})
)

// flushBuffers writes collected warnings and debug output to w. The info
// buffer only receives output in verbose mode.
func flushBuffers(w io.Writer) {
	_, err := WarningBuffer.WriteTo(w)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error writing warning buffer: %v\n", err)
	}
	_, err = InfoBuffer.WriteTo(w)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error writing info buffer: %v\n", err)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorProfile picks the profile for colored output. Forced color on a
// non-terminal still gets basic ANSI colors.
func colorProfile() termenv.Profile {
	profile := termenv.EnvColorProfile()
	if profile == termenv.Ascii {
		return termenv.ANSI
	}
	return profile
}

func repoFlag(destination *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "repo",
		Aliases:     []string{"r", "root"},
		Value:       "./",
		Usage:       "Path to local Git repo",
		EnvVars:     []string{"REVDIFF_REPO"},
		Destination: destination,
	}
}

func newCLIApp(stdin io.Reader, stdout io.Writer) *cli.App {
	var repo string
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "Print version",
	}
	return &cli.App{
		Name:      "revdiff",
		Usage:     "Show line-numbered differences between two git revisions",
		UsageText: "revdiff [options] <start> <end> [file|glob|- ...]",
		Version:   "v0.1.0",
		Description: "Compare files between two revisions of a git repository. Without file arguments every " +
			"changed file is compared. Glob arguments are matched against the files tracked at either " +
			"revision, and \"-\" reads further paths from stdin.",
		Writer:    stdout,
		ErrWriter: WarningBuffer,
		Flags: []cli.Flag{
			repoFlag(&repo),
			&cli.StringFlag{
				Name:    "context",
				Aliases: []string{"U"},
				Usage:   "Lines of context around each change (invalid values fall back to 3)",
				EnvVars: []string{"REVDIFF_CONTEXT"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format.  Allowed values are: " + strings.Join(app.AllowedFormats, ", "),
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Colorize unified output: auto, always or never",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Maximum number of files compared at once",
			},
			&cli.StringFlag{
				Name:  "config-ref",
				Usage: "Read revdiff.toml from this revision instead of the working tree",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose output",
				EnvVars: []string{"REVDIFF_VERBOSE"},
			},
		},
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() < 2 {
				return fmt.Errorf("start and end revisions are required")
			}
			args := cCtx.Args().Slice()
			files, err := expandStdinArg(args[2:], stdin)
			if err != nil {
				return err
			}

			output := cCtx.String("output")
			a := app.New(app.Config{
				RepoDir:       repo,
				StartCommit:   args[0],
				EndCommit:     args[1],
				Files:         files,
				ContextLines:  cCtx.String("context"),
				Format:        cCtx.String("format"),
				Color:         cCtx.String("color"),
				Concurrency:   cCtx.Int("concurrency"),
				ConfigRef:     cCtx.String("config-ref"),
				IsTerminal:    output == "" && isTerminal(os.Stdout),
				ColorProfile:  colorProfile(),
				Verbose:       cCtx.Bool("verbose"),
				InfoBuffer:    InfoBuffer,
				WarningBuffer: WarningBuffer,
			})
			report, err := a.Run(cCtx.Context)
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, []byte(report), 0644)
			}
			_, err = io.WriteString(stdout, report)
			return err
		},
		Commands: []*cli.Command{
			{
				Name:        "files",
				Aliases:     []string{"ls"},
				Usage:       "List files tracked at a revision",
				UsageText:   "revdiff files [options] <revision>",
				Description: "List the files tracked at a revision, optionally narrowed to a glob pattern.",
				Flags: []cli.Flag{
					repoFlag(&repo),
					&cli.StringFlag{
						Name:    "match",
						Aliases: []string{"m"},
						Usage:   "Only list files matching this glob (supports **)",
					},
				},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() == 0 {
						return fmt.Errorf("revision is required")
					}
					a := app.New(app.Config{RepoDir: repo})
					files, err := a.TrackedFiles(cCtx.Context, cCtx.Args().First(), cCtx.String("match"))
					if err != nil {
						return err
					}
					for _, file := range files {
						_, _ = fmt.Fprintln(stdout, file)
					}
					return nil
				},
			},
		},
	}
}

func main() {
	cliApp := newCLIApp(os.Stdin, os.Stdout)
	err := cliApp.Run(os.Args)
	flushBuffers(os.Stderr)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
