package analysis

import (
	"github.com/sha-research/cmf-cli/internal/model"
)

// YearCounts tallies crashes per reporting category for each year. The
// result has one row per year, in the order given, and one column per
// category in report column order.
func YearCounts(events []model.CrashEvent, years []int) [][]int {
	counts := make([][]int, len(years))
	for i, year := range years {
		row := make([]int, len(categories))
		for _, e := range events {
			if e.Year != year {
				continue
			}
			for j, c := range categories {
				if c.Match(e) {
					row[j]++
				}
			}
		}
		counts[i] = row
	}
	return counts
}

// ColumnTotals sums each category column of a year-count table.
func ColumnTotals(counts [][]int) []int {
	totals := make([]int, len(categories))
	for _, row := range counts {
		for j, n := range row {
			totals[j] += n
		}
	}
	return totals
}
