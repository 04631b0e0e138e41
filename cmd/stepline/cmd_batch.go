package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"stepline/internal/format"
	"stepline/internal/logging"
	"stepline/internal/pipeline"
	"stepline/internal/store"
)

var batchFlags struct {
	format      string
	out         string
	parallel    int
	force       bool
	noSave      bool
	summary     bool
	storeDir    string
	storeDriver string
	exts        []string
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir|export>...",
	Short: "Linearize many exports and write one consolidated output",
	Long: "batch runs one pipeline per export, in parallel, persists every\n" +
		"non-empty sequence and writes all of them into one consolidated output.\n" +
		"Exports already present in the store are skipped unless --force is given.",
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.format, "format", "", "Output format: ascii, markdown, csv or json (default from config)")
	f.StringVarP(&batchFlags.out, "out", "o", "", "Write consolidated output to file instead of stdout")
	f.IntVar(&batchFlags.parallel, "parallel", 0, "Files processed concurrently (default from config)")
	f.BoolVar(&batchFlags.force, "force", false, "Reprocess exports already in the store")
	f.BoolVar(&batchFlags.noSave, "no-save", false, "Do not persist sequences")
	f.BoolVar(&batchFlags.summary, "summary", false, "Print the per-export applications summary instead of the steps")
	f.StringVar(&batchFlags.storeDir, "store-dir", "", "Store directory (default from config)")
	f.StringVar(&batchFlags.storeDriver, "store-driver", "", "Store backend: file or sqlite (default from config)")
	f.StringSliceVar(&batchFlags.exts, "ext", []string{".csv", ".txt"}, "File extensions picked up from directories")
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := logging.New("batch")
	start := time.Now()
	ctx := cmd.Context()

	mode, err := outputMode(batchFlags.format)
	if err != nil {
		return err
	}
	paths, err := pipeline.CollectInputs(args, batchFlags.exts...)
	if err != nil {
		return err
	}

	st, err := openStore(batchFlags.storeDriver, batchFlags.storeDir)
	if err != nil {
		return err
	}
	defer st.Close()

	known := 0
	if !batchFlags.force {
		idx, err := store.LoadIndex(ctx, st)
		if err != nil {
			return err
		}
		paths, known = idx.Filter(paths)
		if known > 0 {
			logger.Info("skipping exports already in store", "count", known, "store_size", idx.Size())
		}
	}

	parallel := cfg.Batch.Parallel
	if batchFlags.parallel > 0 {
		parallel = batchFlags.parallel
	}
	results, err := pipeline.RunFiles(ctx, paths, pipeline.BatchOptions{
		Options:  pipeline.OptionsFromConfig(cfg),
		Read:     cfg.ReadOptions(),
		Parallel: parallel,
		MinBytes: cfg.Input.MinBytes,
	})
	if err != nil {
		return err
	}

	var (
		seqs            []format.Sequence
		failed, skipped int
	)
	for _, fr := range results {
		switch {
		case fr.Err != nil:
			failed++
			continue
		case fr.Skipped != "":
			skipped++
			continue
		}
		seqs = append(seqs, format.Sequence{
			Source:       filepath.Base(fr.Path),
			RunID:        fr.RunID,
			Steps:        fr.Result.Steps,
			Applications: fr.Result.Applications,
		})
		if batchFlags.noSave || len(fr.Result.Steps) == 0 {
			continue
		}
		if err := st.Save(ctx, newRecord(fr.Path, fr.RunID, fr.Result)); err != nil {
			return err
		}
	}

	w, done, err := createOutput(cmd, batchFlags.out)
	if err != nil {
		return err
	}
	if batchFlags.summary {
		err = format.WriteApplications(w, mode, seqs)
	} else {
		err = format.WriteSequences(w, mode, seqs)
	}
	if err != nil {
		_ = done()
		return err
	}
	if err := done(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d processed, %d already known, %d skipped, %d failed in %s\n",
		len(seqs), known, skipped, failed, format.FmtDuration(time.Since(start)))
	if failed > 0 {
		return fmt.Errorf("batch: %d of %d exports failed", failed, len(results))
	}
	return nil
}
