package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/internal/study"
	"github.com/sha-research/cmf-cli/internal/workbook"
)

var rulesCMFFile string

type overlapPair struct {
	A model.CMFRule `json:"a"`
	B model.CMFRule `json:"b"`
}

type ruleInspection struct {
	Path     string        `json:"path"`
	Rules    int           `json:"rules"`
	Segments []string      `json:"segments"`
	StartMP  float64       `json:"start_mp"`
	EndMP    float64       `json:"end_mp"`
	Overlaps []overlapPair `json:"overlaps,omitempty"`
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect a CMF rule workbook",
	Long: `Loads the coefficient rules and reports segment labels, the covered
milepost span, and pairs of rules that can both apply to one crash.
Overlapping rules are legal (their coefficients multiply) but often
indicate a data entry mistake.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("rules"); err != nil {
			return err
		}

		table, err := study.LoadTable(rulesCMFFile, workbook.Options{})
		if err != nil {
			return err
		}

		insp := ruleInspection{
			Path:     rulesCMFFile,
			Rules:    table.Len(),
			Segments: table.Segments(),
		}
		insp.StartMP, insp.EndMP = table.MilepostRange()

		for _, o := range table.Overlaps() {
			zap.L().Warn("rules can double-apply",
				zap.String("a", o.A.Segment),
				zap.String("b", o.B.Segment),
				zap.Float64("from", max(o.A.StartMP, o.B.StartMP)),
				zap.Float64("to", min(o.A.EndMP, o.B.EndMP)),
			)
			insp.Overlaps = append(insp.Overlaps, overlapPair{A: o.A, B: o.B})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(insp)
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesCMFFile, "cmf-file", "", "input CMF workbook (required)")
	_ = rulesCmd.MarkFlagRequired("cmf-file")
	rootCmd.AddCommand(rulesCmd)
}
