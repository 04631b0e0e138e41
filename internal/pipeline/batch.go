package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"stepline/internal/logging"
	"stepline/internal/sheet"
)

// BatchOptions configures RunFiles.
type BatchOptions struct {
	Options
	Read     sheet.ReadOptions
	Parallel int   // concurrent files; values below 1 mean 1
	MinBytes int64 // files smaller than this are skipped unparsed
}

// FileResult is the outcome for one input file. Exactly one of Result,
// Err and Skipped is meaningful.
type FileResult struct {
	Path    string
	RunID   string
	Result  *Result
	Err     error
	Skipped string // reason the file was not parsed
}

// RunFiles runs one pipeline per file, at most opts.Parallel at a time.
// Results come back in input order. A failing file is recorded on its
// FileResult and does not stop the others; the returned error is only set
// when ctx is cancelled.
func RunFiles(ctx context.Context, paths []string, opts BatchOptions) ([]FileResult, error) {
	logger := logging.New("batch")
	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}

	results := make([]FileResult, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = runFile(path, opts)
			fr := results[i]
			switch {
			case fr.Err != nil:
				logger.Warn("file failed", "path", path, "error", fr.Err)
			case fr.Skipped != "":
				logger.Info("file skipped", "path", path, "reason", fr.Skipped)
			default:
				logger.Info("file processed", "path", path, "run_id", fr.RunID,
					"nodes", fr.Result.NodeCount, "steps", len(fr.Result.Steps))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("pipeline: batch: %w", err)
	}
	return results, nil
}

func runFile(path string, opts BatchOptions) FileResult {
	fr := FileResult{Path: path, RunID: uuid.NewString()}
	info, err := os.Stat(path)
	if err != nil {
		fr.Err = fmt.Errorf("pipeline: stat: %w", err)
		return fr
	}
	if info.Size() < opts.MinBytes {
		fr.Skipped = fmt.Sprintf("file has %d bytes, below minimum %d", info.Size(), opts.MinBytes)
		return fr
	}
	t, err := sheet.ReadFile(path, opts.Read)
	if err != nil {
		fr.Err = err
		return fr
	}
	runOpts := opts.Options
	if runOpts.Logger == nil {
		runOpts.Logger = logging.New("pipeline").With("source", filepath.Base(path))
	}
	res, err := Run(t, runOpts)
	if err != nil {
		fr.Err = fmt.Errorf("pipeline: %s: %w", filepath.Base(path), err)
		return fr
	}
	fr.Result = res
	return fr
}

// CollectInputs expands directories into the export files they hold.
// Files given directly are kept as they are. Directory entries are
// filtered by extension (case-insensitive, e.g. ".csv") and sorted.
func CollectInputs(args []string, exts ...string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("pipeline: input: %w", err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("pipeline: input: %w", err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !matchExt(e.Name(), exts) {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

func matchExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
