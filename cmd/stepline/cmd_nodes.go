package main

import (
	"github.com/spf13/cobra"

	"stepline/internal/format"
	"stepline/internal/pipeline"
	"stepline/internal/sheet"
)

var nodesFlags struct {
	format string
}

var nodesCmd = &cobra.Command{
	Use:   "nodes <export>",
	Short: "Print the repaired node table of one export",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodes,
}

func init() {
	nodesCmd.Flags().StringVar(&nodesFlags.format, "format", "", "Output format: ascii, markdown, csv or json (default from config)")
}

func runNodes(cmd *cobra.Command, args []string) error {
	mode, err := outputMode(nodesFlags.format)
	if err != nil {
		return err
	}
	t, err := sheet.ReadFile(args[0], cfg.ReadOptions())
	if err != nil {
		return err
	}
	res, err := pipeline.Run(t, pipeline.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	return format.WriteNodes(cmd.OutOrStdout(), mode, res.Graph().Nodes(), res.Starts)
}
