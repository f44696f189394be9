package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sha-research/cmf-cli/internal/model"
)

func TestYearCounts(t *testing.T) {
	t.Parallel()

	events := []model.CrashEvent{
		{ReportType: "Fatal Crash", Year: 2018},
		{ReportType: "Injury Crash", Year: 2018, CollisionTypeCode: 3},
		{ReportType: "Injury Crash", Year: 2020},
	}

	counts := YearCounts(events, []int{2018, 2019, 2020})
	require.Len(t, counts, 3)

	// 2018: one fatal, one injury, one rear end (code 3).
	assert.Equal(t, 1, counts[0][0])
	assert.Equal(t, 1, counts[0][1])
	assert.Equal(t, 1, counts[0][3])

	// 2019: no crashes at all.
	for _, n := range counts[1] {
		assert.Zero(t, n)
	}

	// 2020: one injury.
	assert.Equal(t, 0, counts[2][0])
	assert.Equal(t, 1, counts[2][1])
}

func TestYearCounts_RowWidth(t *testing.T) {
	t.Parallel()

	counts := YearCounts(nil, []int{2018})
	require.Len(t, counts, 1)
	assert.Len(t, counts[0], len(CategoryNames()))
}

func TestColumnTotals(t *testing.T) {
	t.Parallel()

	events := []model.CrashEvent{
		{ReportType: "Fatal Crash", Year: 2018},
		{ReportType: "Fatal Crash", Year: 2019},
		{ReportType: "Property Damage Crash", Year: 2019},
	}

	counts := YearCounts(events, []int{2018, 2019})
	totals := ColumnTotals(counts)
	require.Len(t, totals, len(CategoryNames()))
	assert.Equal(t, 2, totals[0])
	assert.Equal(t, 1, totals[2])
	assert.Equal(t, 0, totals[11])
}

func TestColumnTotals_Empty(t *testing.T) {
	t.Parallel()

	totals := ColumnTotals(nil)
	require.Len(t, totals, len(CategoryNames()))
	for _, n := range totals {
		assert.Zero(t, n)
	}
}
