package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/sha-research/cmf-cli/internal/model"
)

// Reduce computes crash reduction statistics for a cohort of events
// whose calculated CMFs have already been applied. The annual net
// figure divides by the span of years observed within the cohort, so a
// cohort confined to a single year divides by 1. An empty cohort yields
// the zero result.
func Reduce(events []model.CrashEvent) model.ReductionResult {
	if len(events) == 0 {
		return model.ReductionResult{}
	}

	cmfs := make([]float64, len(events))
	minYear, maxYear := events[0].Year, events[0].Year
	for i, e := range events {
		cmfs[i] = e.CalculatedCMF
		if e.Year < minYear {
			minYear = e.Year
		}
		if e.Year > maxYear {
			maxYear = e.Year
		}
	}

	mean := stat.Mean(cmfs, nil)
	count := len(events)
	return model.ReductionResult{
		Count:          count,
		MeanCMF:        mean,
		CRF:            (1 - mean) * 100,
		ExpectedChange: mean - 1,
		AnnualNet:      (1 - mean) * float64(count) / float64(1+maxYear-minYear),
	}
}

// Results computes one ReductionResult per reporting category, in report
// column order, over the given events.
func Results(events []model.CrashEvent) []model.ReductionResult {
	out := make([]model.ReductionResult, len(categories))
	for i, c := range categories {
		out[i] = Reduce(c.Filter(events))
	}
	return out
}

// FilterDirection returns the events whose inferred travel direction
// equals dir, preserving order.
func FilterDirection(events []model.CrashEvent, dir string) []model.CrashEvent {
	var out []model.CrashEvent
	for _, e := range events {
		if e.CrashDir == dir {
			out = append(out, e)
		}
	}
	return out
}
