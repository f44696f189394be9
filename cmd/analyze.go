package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/internal/pipeline"
)

var (
	analyzeCMFFile        string
	analyzeRoute          string
	analyzeNumber         int
	analyzeStartMP        float64
	analyzeEndMP          float64
	analyzeStartYear      int
	analyzeEndYear        int
	analyzeOutputDir      string
	analyzeIncludeCMFs    bool
	analyzeIncludeCrashes bool
	analyzeIncludeSummary bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a crash reduction analysis for one roadway segment",
	Long: `Loads CMF coefficient rules from a spreadsheet, gathers crash reports
for the study segment and years, applies the matching coefficients to
each crash, and writes the report workbook next to the input file.

A "Crash Data" sheet inside the input workbook is used instead of the
data portal when present.

Examples:
  # I-95 between mileposts 2.5 and 7.0, crash years 2018-2020
  cmf analyze --cmf-file ramp.xlsx --route IS --number 95 \
    --start-mp 2.5 --end-mp 7.0 --start-year 2018 --end-year 2020

  # Write the report elsewhere and skip the raw crash sheet
  cmf analyze --cmf-file ramp.xlsx --route MD --number 100 \
    --end-mp 4.2 --start-year 2019 --end-year 2021 \
    --output-dir reports --include-crashes=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initAnalyzer("analyze")
		if err != nil {
			return err
		}

		opts := defaultReportOptions()
		if cmd.Flags().Changed("include-cmfs") {
			opts.IncludeInputCMFs = analyzeIncludeCMFs
		}
		if cmd.Flags().Changed("include-crashes") {
			opts.IncludeCrashData = analyzeIncludeCrashes
		}
		if cmd.Flags().Changed("include-summary") {
			opts.IncludeCrashSummary = analyzeIncludeSummary
		}

		out, err := a.Run(cmd.Context(), pipeline.Params{
			Area: model.StudyArea{
				RoutePrefix: analyzeRoute,
				RouteNumber: analyzeNumber,
				StartMP:     analyzeStartMP,
				EndMP:       analyzeEndMP,
				StartYear:   analyzeStartYear,
				EndYear:     analyzeEndYear,
			},
			InputPath: analyzeCMFFile,
			OutputDir: analyzeOutputDir,
			Report:    opts,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCMFFile, "cmf-file", "", "input CMF workbook (required)")
	analyzeCmd.Flags().StringVar(&analyzeRoute, "route", "", "route type code, e.g. IS, US, MD (required)")
	analyzeCmd.Flags().IntVar(&analyzeNumber, "number", 0, "route number (required)")
	analyzeCmd.Flags().Float64Var(&analyzeStartMP, "start-mp", 0, "start milepost")
	analyzeCmd.Flags().Float64Var(&analyzeEndMP, "end-mp", 0, "end milepost (required)")
	analyzeCmd.Flags().IntVar(&analyzeStartYear, "start-year", 0, "first crash year (required)")
	analyzeCmd.Flags().IntVar(&analyzeEndYear, "end-year", 0, "last crash year (required)")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "", "report directory (default: alongside the input file)")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeCMFs, "include-cmfs", true, "echo the rule table into an Input CMFs sheet")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeCrashes, "include-crashes", true, "write the raw crash rows into a Crash Data sheet")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeSummary, "include-summary", true, "write per-year crash count summary tables")
	_ = analyzeCmd.MarkFlagRequired("cmf-file")
	_ = analyzeCmd.MarkFlagRequired("route")
	_ = analyzeCmd.MarkFlagRequired("number")
	_ = analyzeCmd.MarkFlagRequired("end-mp")
	_ = analyzeCmd.MarkFlagRequired("start-year")
	_ = analyzeCmd.MarkFlagRequired("end-year")
	rootCmd.AddCommand(analyzeCmd)
}
