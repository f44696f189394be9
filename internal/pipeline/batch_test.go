package pipeline

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sha-research/cmf-cli/internal/report"
)

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseBatchFile(t *testing.T) {
	t.Parallel()

	path := writeBatchFile(t, `
studies:
  - route: IS
    number: 95
    start_mp: 0
    end_mp: 10
    start_year: 2018
    end_year: 2020
    cmf_file: a.xlsx
  - route: US
    number: 40
    start_mp: 2.5
    end_mp: 7.5
    start_year: 2019
    end_year: 2021
    cmf_file: b.xlsx
    output_dir: reports
`)

	specs, err := ParseBatchFile(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "IS", specs[0].Route)
	assert.Equal(t, 95, specs[0].Number)
	assert.Equal(t, "a.xlsx", specs[0].CMFFile)
	assert.Empty(t, specs[0].OutputDir)

	assert.Equal(t, "US", specs[1].Route)
	assert.InDelta(t, 2.5, specs[1].StartMP, 1e-9)
	assert.Equal(t, "reports", specs[1].OutputDir)

	area := specs[1].Area()
	assert.Equal(t, "US-40 [2.5-7.5] (2019-2021)", area.Label())
}

func TestParseBatchFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ParseBatchFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read batch file")
}

func TestParseBatchFile_Malformed(t *testing.T) {
	t.Parallel()

	path := writeBatchFile(t, "studies: [not: {valid")
	_, err := ParseBatchFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse batch file")
}

func TestParseBatchFile_NoStudies(t *testing.T) {
	t.Parallel()

	path := writeBatchFile(t, "studies: []\n")
	_, err := ParseBatchFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no studies")
}

func TestRunBatch_ContinuesPastFailure(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ruleRows := [][]string{{"Seg A", "0", "5", "all", "all", "all", "all", "0.8"}}
	goodInput := createInput(t, t.TempDir(), ruleRows, nil)
	outDir := t.TempDir()

	specs := []StudySpec{
		{Route: "IS", Number: 95, EndMP: 10, StartYear: 2018, EndYear: 2020, CMFFile: goodInput, OutputDir: outDir},
		{Route: "XX", Number: 1, EndMP: 1, StartYear: 2018, EndYear: 2018, CMFFile: goodInput},
		{Route: "US", Number: 40, EndMP: 10, StartYear: 2018, EndYear: 2020, CMFFile: goodInput, OutputDir: outDir},
	}

	res := a.RunBatch(context.Background(), specs, report.Options{}, 1)

	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Outcomes, 2)
	for _, out := range res.Outcomes {
		_, err := os.Stat(out.ReportPath)
		assert.NoError(t, err)
	}
}

func TestRunBatch_Concurrent(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ruleRows := [][]string{{"Seg A", "0", "5", "all", "all", "all", "all", "0.8"}}
	input := createInput(t, t.TempDir(), ruleRows, nil)

	specs := []StudySpec{
		{Route: "IS", Number: 95, EndMP: 10, StartYear: 2018, EndYear: 2020, CMFFile: input, OutputDir: t.TempDir()},
		{Route: "US", Number: 40, EndMP: 10, StartYear: 2018, EndYear: 2020, CMFFile: input, OutputDir: t.TempDir()},
		{Route: "MD", Number: 2, EndMP: 10, StartYear: 2018, EndYear: 2020, CMFFile: input, OutputDir: t.TempDir()},
	}

	res := a.RunBatch(context.Background(), specs, report.Options{}, 3)

	assert.Zero(t, res.Failed)
	assert.Len(t, res.Outcomes, 3)
}
