package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sha-research/cmf-cli/internal/pipeline"
)

var (
	batchStudies     string
	batchConcurrency int
)

type batchSummary struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Reports   []string `json:"reports"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run several studies from a YAML file",
	Long: `Runs every study listed in a YAML file, one at a time unless
--concurrency raises the limit. A failed study is logged and skipped;
the rest of the batch still runs.

The file holds a top-level studies list:

  studies:
    - route: IS
      number: 95
      start_mp: 2.5
      end_mp: 7.0
      start_year: 2018
      end_year: 2020
      cmf_file: ramp.xlsx
      output_dir: reports

Example:
  cmf batch --studies studies.yaml --concurrency 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initAnalyzer("batch")
		if err != nil {
			return err
		}

		specs, err := pipeline.ParseBatchFile(batchStudies)
		if err != nil {
			return err
		}

		res := a.RunBatch(cmd.Context(), specs, defaultReportOptions(), batchConcurrency)

		summary := batchSummary{
			Total:     len(specs),
			Succeeded: len(res.Outcomes),
			Failed:    res.Failed,
			Reports:   make([]string, 0, len(res.Outcomes)),
		}
		for _, out := range res.Outcomes {
			summary.Reports = append(summary.Reports, out.ReportPath)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchStudies, "studies", "", "YAML file listing the studies to run (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 1, "max studies to run concurrently")
	_ = batchCmd.MarkFlagRequired("studies")
	rootCmd.AddCommand(batchCmd)
}
