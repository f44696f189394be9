// Package pipeline runs one crash analysis end to end: load the rule
// workbook, gather crashes, apply coefficients, write the report.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sha-research/cmf-cli/internal/analysis"
	"github.com/sha-research/cmf-cli/internal/crash"
	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/internal/report"
	"github.com/sha-research/cmf-cli/internal/study"
	"github.com/sha-research/cmf-cli/internal/workbook"
)

// Params describe one analysis run.
type Params struct {
	Area      model.StudyArea
	InputPath string // CMF rule workbook
	OutputDir string // defaults to the input workbook's directory
	Report    report.Options
}

// CohortResult pairs a reporting cohort with its reduction statistics.
type CohortResult struct {
	Category string `json:"category"`
	model.ReductionResult
}

// Outcome summarizes a completed run.
type Outcome struct {
	RunID      string         `json:"run_id"`
	ReportPath string         `json:"report_path"`
	RuleCount  int            `json:"rule_count"`
	CrashCount int            `json:"crash_count"`
	Directions []string       `json:"directions"`
	LocalData  bool           `json:"local_data"` // crashes came from the workbook's own sheet
	Results    []CohortResult `json:"results"`    // total cohort, category order
}

// Analyzer runs crash analyses against one crash data source.
type Analyzer struct {
	source *crash.Source
}

// New creates an analyzer backed by the given crash source.
func New(source *crash.Source) *Analyzer {
	return &Analyzer{source: source}
}

// Run executes a full analysis and writes the report workbook. The
// returned outcome names the report path and the cohort that went into
// it. An empty cohort is not an error; the report still gets written
// with all-zero statistics.
func (a *Analyzer) Run(ctx context.Context, p Params) (*Outcome, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID), zap.String("study", p.Area.Label()))
	start := time.Now()

	if err := p.Area.Validate(); err != nil {
		return nil, eris.Wrap(err, "pipeline: invalid study area")
	}

	table, err := study.LoadTable(p.InputPath, workbook.Options{})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load rule table")
	}
	log.Info("loaded rule table",
		zap.String("path", p.InputPath),
		zap.Int("rules", table.Len()),
	)

	local, err := crash.HasLocalData(p.InputPath)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: probe local crash data")
	}

	var events []model.CrashEvent
	if local {
		log.Info("using local crash data sheet")
		events, err = crash.FromWorkbook(p.InputPath)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: read local crash data")
		}
	} else {
		events, err = a.source.Fetch(ctx, p.Area)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: fetch crash reports")
		}
	}

	table.Apply(events)

	if len(events) == 0 {
		log.Warn("no crashes in study area")
	}

	directions := crash.Directions(events)

	names := analysis.CategoryNames()
	cohorts := make([]CohortResult, len(names))
	for i, res := range analysis.Results(events) {
		cohorts[i] = CohortResult{Category: names[i], ReductionResult: res}
	}

	outDir := p.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(p.InputPath)
	}
	outPath := report.OutputPath(outDir, p.Area)

	r := report.Report{
		Area:       p.Area,
		Rules:      table.Rules(),
		Events:     events,
		Directions: directions,
	}
	if err := report.Write(r, p.Report, outPath); err != nil {
		return nil, eris.Wrap(err, "pipeline: write report")
	}

	log.Info("analysis complete",
		zap.String("report", outPath),
		zap.Int("crashes", len(events)),
		zap.Strings("directions", directions),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Outcome{
		RunID:      runID,
		ReportPath: outPath,
		RuleCount:  table.Len(),
		CrashCount: len(events),
		Directions: directions,
		LocalData:  local,
		Results:    cohorts,
	}, nil
}
