package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const FileName = "revdiff.toml"

type Config struct {
	ContextLines   *int     `toml:"context_lines"`
	Ignore         []string `toml:"ignore"`
	Format         string   `toml:"format"`
	Color          string   `toml:"color"`
	Concurrency    int      `toml:"concurrency"`
	Highlight      *bool    `toml:"highlight"`
	HighlightStyle string   `toml:"highlight_style"`
}

// FileReader reads repository files, either from the working tree or from a
// git revision.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
	PathExists(path string) bool
}

type osFileReader struct{}

func (osFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFileReader) PathExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func Default() *Config {
	highlight := true
	return &Config{
		ContextLines:   nil,
		Ignore:         []string{},
		Format:         "unified",
		Color:          "auto",
		Concurrency:    4,
		Highlight:      &highlight,
		HighlightStyle: "github",
	}
}

// ReadConfig loads revdiff.toml from dir. A missing file yields the defaults;
// on any other failure the defaults are returned together with the error.
// A nil reader reads from the local filesystem.
func ReadConfig(dir string, reader FileReader) (*Config, error) {
	if reader == nil {
		reader = osFileReader{}
	}
	defaultConfig := Default()

	fileName := filepath.ToSlash(filepath.Join(dir, FileName))
	if !reader.PathExists(fileName) {
		return defaultConfig, nil
	}
	file, err := reader.ReadFile(fileName)
	if err != nil {
		return defaultConfig, err
	}
	config := Default()
	if err := toml.Unmarshal(file, config); err != nil {
		return defaultConfig, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	if config.Ignore == nil {
		config.Ignore = []string{}
	}
	if config.Highlight == nil {
		config.Highlight = defaultConfig.Highlight
	}
	return config, nil
}
