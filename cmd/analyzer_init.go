package main

import (
	"github.com/sha-research/cmf-cli/internal/crash"
	"github.com/sha-research/cmf-cli/internal/pipeline"
	"github.com/sha-research/cmf-cli/internal/report"
	"github.com/sha-research/cmf-cli/pkg/soda"
)

// initAnalyzer validates the config for the given mode and builds the
// analyzer shared by the analyze/batch/serve commands.
func initAnalyzer(mode string) (*pipeline.Analyzer, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	opts := []soda.Option{soda.WithBaseURL(cfg.SODA.BaseURL)}
	if cfg.SODA.AppToken != "" {
		opts = append(opts, soda.WithAppToken(cfg.SODA.AppToken))
	}
	if cfg.SODA.RateLimit > 0 {
		opts = append(opts, soda.WithRateLimit(cfg.SODA.RateLimit))
	}
	client := soda.NewClient(opts...)

	source := crash.NewSource(client, crash.Datasets{
		Crashes:  cfg.SODA.Datasets.Crashes,
		Persons:  cfg.SODA.Datasets.Persons,
		Vehicles: cfg.SODA.Datasets.Vehicles,
	})

	return pipeline.New(source), nil
}

// defaultReportOptions maps the configured sheet toggles onto report
// options. Commands layer flag overrides on top.
func defaultReportOptions() report.Options {
	return report.Options{
		IncludeInputCMFs:    cfg.Report.IncludeInputCMFs,
		IncludeCrashData:    cfg.Report.IncludeCrashData,
		IncludeCrashSummary: cfg.Report.IncludeCrashSummary,
	}
}
