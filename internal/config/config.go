// Package config holds the stepline configuration: export layout, start
// marker, walk limits, input decoding, output and storage settings.
package config

import (
	"errors"
	"fmt"

	"stepline/internal/procgraph"
	"stepline/internal/sheet"
)

// ErrUnknownFormat is returned for a config file extension or an output
// format name that is not supported.
var ErrUnknownFormat = errors.New("config: unknown format")

// Output formats.
const (
	FormatASCII    = "ascii"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config is the full stepline configuration. Keys missing from a loaded
// file keep their Default values.
type Config struct {
	StartMarker string           `json:"start_marker" yaml:"start_marker" toml:"start_marker"`
	SkipNames   []string         `json:"skip_names" yaml:"skip_names" toml:"skip_names"`
	Layout      procgraph.Layout `json:"layout" yaml:"layout" toml:"layout"`
	MaxSteps    int              `json:"max_steps" yaml:"max_steps" toml:"max_steps"`
	Input       Input            `json:"input" yaml:"input" toml:"input"`
	Output      Output           `json:"output" yaml:"output" toml:"output"`
	Log         Log              `json:"log" yaml:"log" toml:"log"`
	Store       Store            `json:"store" yaml:"store" toml:"store"`
	Batch       Batch            `json:"batch" yaml:"batch" toml:"batch"`
}

// Input controls how export files are decoded.
type Input struct {
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"` // single character
	Encoding  string `json:"encoding" yaml:"encoding" toml:"encoding"`    // IANA charset name
	MinBytes  int64  `json:"min_bytes" yaml:"min_bytes" toml:"min_bytes"` // smaller files are skipped
}

// Output selects the rendering of results.
type Output struct {
	Format string `json:"format" yaml:"format" toml:"format"`
}

// Log configures the slog default.
type Log struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"`
}

// Store configures persistence of produced sequences.
type Store struct {
	Driver string `json:"driver" yaml:"driver" toml:"driver"`
	Dir    string `json:"dir" yaml:"dir" toml:"dir"`
}

// Batch configures multi-file runs.
type Batch struct {
	Parallel int `json:"parallel" yaml:"parallel" toml:"parallel"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		StartMarker: procgraph.DefaultStartMarker,
		SkipNames:   []string{procgraph.FourEyePrinciple},
		Layout:      procgraph.DefaultLayout(),
		Input: Input{
			Delimiter: string(sheet.DefaultDelimiter),
			Encoding:  sheet.DefaultEncoding,
			MinBytes:  100,
		},
		Output: Output{Format: FormatASCII},
		Log:    Log{Level: "info", Format: "text"},
		Store:  Store{Driver: DriverFile, Dir: ".stepline"},
		Batch:  Batch{Parallel: 4},
	}
}

// Validate rejects values no run could use.
func (c Config) Validate() error {
	if c.StartMarker == "" {
		return errors.New("config: start_marker is empty")
	}
	if c.Layout.NameOffset < 1 || c.Layout.TypeOffset < 1 || c.Layout.IDOffset < 1 {
		return fmt.Errorf("config: layout offsets must be positive, got %+v", c.Layout)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("config: max_steps must not be negative, got %d", c.MaxSteps)
	}
	if len([]rune(c.Input.Delimiter)) != 1 {
		return fmt.Errorf("config: input.delimiter must be one character, got %q", c.Input.Delimiter)
	}
	if c.Input.MinBytes < 0 {
		return fmt.Errorf("config: input.min_bytes must not be negative, got %d", c.Input.MinBytes)
	}
	if c.Batch.Parallel < 1 {
		return fmt.Errorf("config: batch.parallel must be at least 1, got %d", c.Batch.Parallel)
	}
	if err := CheckFormat(c.Output.Format); err != nil {
		return err
	}
	switch c.Store.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("config: store.driver %q: want %s or %s", c.Store.Driver, DriverFile, DriverSQLite)
	}
	return nil
}

// CheckFormat reports whether name is a supported output format.
func CheckFormat(name string) error {
	switch name {
	case FormatASCII, FormatMarkdown, FormatCSV, FormatJSON:
		return nil
	}
	return fmt.Errorf("%w: output %q", ErrUnknownFormat, name)
}

// Delimiter returns the input delimiter as a rune.
func (c Config) Delimiter() rune {
	r := []rune(c.Input.Delimiter)
	if len(r) == 0 {
		return sheet.DefaultDelimiter
	}
	return r[0]
}

// ReadOptions returns the sheet decoding options for c.
func (c Config) ReadOptions() sheet.ReadOptions {
	return sheet.ReadOptions{Delimiter: c.Delimiter(), Encoding: c.Input.Encoding}
}
