package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stepline/internal/format"
	"stepline/internal/pipeline"
	"stepline/internal/sheet"
)

var runFlags struct {
	format      string
	out         string
	save        bool
	storeDir    string
	storeDriver string
	marker      string
}

var runCmd = &cobra.Command{
	Use:   "run <export>",
	Short: "Linearize one export and print its ordered steps",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.format, "format", "", "Output format: ascii, markdown, csv or json (default from config)")
	f.StringVarP(&runFlags.out, "out", "o", "", "Write output to file instead of stdout")
	f.BoolVar(&runFlags.save, "save", false, "Persist the sequence in the store")
	f.StringVar(&runFlags.storeDir, "store-dir", "", "Store directory (default from config)")
	f.StringVar(&runFlags.storeDriver, "store-driver", "", "Store backend: file or sqlite (default from config)")
	f.StringVar(&runFlags.marker, "start-marker", "", "Substring marking process-entry nodes (default from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, err := outputMode(runFlags.format)
	if err != nil {
		return err
	}
	source := args[0]
	t, err := sheet.ReadFile(source, cfg.ReadOptions())
	if err != nil {
		return err
	}
	opts := pipeline.OptionsFromConfig(cfg)
	if runFlags.marker != "" {
		opts.StartMarker = runFlags.marker
	}
	res, err := pipeline.Run(t, opts)
	if err != nil {
		return err
	}

	w, done, err := createOutput(cmd, runFlags.out)
	if err != nil {
		return err
	}
	if err := format.WriteSteps(w, mode, res.Steps); err != nil {
		_ = done()
		return err
	}
	if err := done(); err != nil {
		return err
	}
	if mode == format.ASCII || runFlags.out != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d steps from %d nodes; applications: %s\n",
			len(res.Steps), res.NodeCount, strings.Join(res.Applications, ", "))
	}

	if !runFlags.save {
		return nil
	}
	st, err := openStore(runFlags.storeDriver, runFlags.storeDir)
	if err != nil {
		return err
	}
	defer st.Close()
	rec := newRecord(source, "", res)
	if err := st.Save(cmd.Context(), rec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved %s (run %s)\n", rec.Key, rec.RunID)
	return nil
}
