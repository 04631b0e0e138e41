package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"stepline/internal/config"
	"stepline/internal/format"
	"stepline/internal/logging"
	"stepline/internal/pipeline"
	"stepline/internal/store"
)

// setup loads the config file, applies flag overrides and initializes
// logging. It runs before every subcommand.
func setup(cmd *cobra.Command, _ []string) error {
	loaded := config.Default()
	if rootFlags.configPath != "" {
		var err error
		if loaded, err = config.LoadFromPath(rootFlags.configPath); err != nil {
			return err
		}
	}
	if rootFlags.logLevel != "" {
		loaded.Log.Level = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		loaded.Log.Format = rootFlags.logFormat
	}
	level, err := logging.ParseLevel(loaded.Log.Level)
	if err != nil {
		return err
	}
	logging.Init(level, loaded.Log.Format, cmd.ErrOrStderr())
	cfg = loaded
	return nil
}

// outputMode resolves the --format flag against the configured default.
func outputMode(flagValue string) (format.Mode, error) {
	name := cfg.Output.Format
	if flagValue != "" {
		name = flagValue
	}
	return format.ParseMode(name)
}

// openStore opens the configured store, with flag overrides.
func openStore(driver, dir string) (store.Store, error) {
	if driver == "" {
		driver = cfg.Store.Driver
	}
	if dir == "" {
		dir = cfg.Store.Dir
	}
	return store.Open(driver, dir)
}

// newRecord builds the persisted form of one pipeline result.
func newRecord(source, runID string, res *pipeline.Result) *store.Record {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &store.Record{
		Key:          store.KeyFor(source),
		Source:       source,
		RunID:        runID,
		CreatedAt:    time.Now().UTC(),
		NodeCount:    res.NodeCount,
		Steps:        res.Steps,
		Applications: res.Applications,
	}
}

// createOutput opens path for writing, or returns stdout for "" and "-".
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path) //nolint:gosec // G304: path is chosen by the operator
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
