// Package report renders the analysis workbook: the Results sheet plus
// the optional Input CMFs, Crash Data, and Crash Summary sheets.
package report

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sha-research/cmf-cli/internal/analysis"
	"github.com/sha-research/cmf-cli/internal/crash"
	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/internal/study"
)

const (
	sheetInputCMFs    = "Input CMFs"
	sheetCrashSummary = "Crash Summary"
	sheetResults      = "Results"
)

// resultLabels are the fixed row labels of every Results table, in the
// order the statistics appear.
var resultLabels = []string{
	"NUMBER OF ACCIDENTS",
	"CRASH MODIFICATION FACTOR (CMF)",
	"CRASH REDUCTION FACTOR (CRF)",
	"EXPECTED CHANGE IN ACCIDENTS (%)",
	"ANNUAL NET CRASH REDUCTION",
}

// Options select which optional sheets the workbook carries. The
// Results sheet is always written.
type Options struct {
	IncludeInputCMFs    bool
	IncludeCrashData    bool
	IncludeCrashSummary bool
}

// Report holds everything the workbook renders: the study area, the
// loaded rule table, the crash cohort with calculated CMFs applied, and
// the retained travel directions.
type Report struct {
	Area       model.StudyArea
	Rules      []model.CMFRule
	Events     []model.CrashEvent
	Directions []string
}

// OutputPath returns the report file path for the study area, placed in
// dir alongside the input workbook.
func OutputPath(dir string, area model.StudyArea) string {
	return filepath.Join(dir, area.Label()+" CMF Analysis.xlsx")
}

// Write renders the workbook and saves it to path.
func Write(r Report, opts Options, path string) error {
	f := xlsx.NewFile()

	if opts.IncludeInputCMFs {
		if err := writeInputCMFs(f, r.Rules); err != nil {
			return err
		}
	}
	if opts.IncludeCrashData {
		if err := writeCrashData(f, r.Events); err != nil {
			return err
		}
	}
	if opts.IncludeCrashSummary {
		if err := writeCrashSummary(f, r); err != nil {
			return err
		}
	}
	if err := writeResults(f, r); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func addSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "report: add sheet %q", name)
	}
	return sheet, nil
}

// writeInputCMFs echoes the rule table back out under the same header
// the loader requires, so the sheet round-trips as an input workbook.
func writeInputCMFs(f *xlsx.File, rules []model.CMFRule) error {
	sheet, err := addSheet(f, sheetInputCMFs)
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, col := range study.RuleColumns() {
		header.AddCell().Value = col
	}

	for _, rule := range rules {
		writeRow(sheet,
			rule.Segment, rule.StartMP, rule.EndMP, rule.Severity,
			rule.CrashType, rule.Direction, rule.Time, rule.Coefficient)
	}
	return nil
}

// writeCrashData dumps the crash cohort under the portal column names.
// A report fed back in as the input workbook short-circuits the fetch.
func writeCrashData(f *xlsx.File, events []model.CrashEvent) error {
	sheet, err := addSheet(f, crash.SheetName)
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, col := range crash.SheetColumns() {
		header.AddCell().Value = col
	}

	for _, e := range events {
		writeRow(sheet,
			e.ReportNo, e.CountyDesc, e.RouteTypeCode, e.RouteNumber,
			e.LogmileDirFlag, e.LogMile, e.AccTime, e.AccDate,
			e.Year, e.ReportType, e.CollisionTypeCode, e.CollisionTypeDesc,
			e.FixObjCode, e.FixObjDesc, e.HarmEventCode1, e.HarmEventDesc1,
			e.HarmEventCode2, e.HarmEventDesc2, e.CrashDir, e.CalculatedCMF)
	}
	return nil
}

func writeCrashSummary(f *xlsx.File, r Report) error {
	sheet, err := addSheet(f, sheetCrashSummary)
	if err != nil {
		return err
	}

	years := r.Area.Years()
	writeSummaryTable(sheet, "Total", r.Events, years)
	for _, dir := range r.Directions {
		sheet.AddRow()
		writeSummaryTable(sheet, model.DirectionName(dir), analysis.FilterDirection(r.Events, dir), years)
	}
	return nil
}

// writeSummaryTable stacks one per-year count table: a merged title row,
// the category header, one row per study year, and a column-sum row.
func writeSummaryTable(sheet *xlsx.Sheet, title string, events []model.CrashEvent, years []int) {
	names := analysis.CategoryNames()
	writeTitleRow(sheet, title, len(names))

	header := sheet.AddRow()
	header.AddCell().Value = "Year"
	for _, name := range names {
		header.AddCell().Value = name
	}

	counts := analysis.YearCounts(events, years)
	for i, year := range years {
		row := sheet.AddRow()
		row.AddCell().SetInt(year)
		for _, n := range counts[i] {
			row.AddCell().SetInt(n)
		}
	}

	totals := sheet.AddRow()
	totals.AddCell().Value = "Total"
	for _, n := range analysis.ColumnTotals(counts) {
		totals.AddCell().SetInt(n)
	}
}

func writeResults(f *xlsx.File, r Report) error {
	sheet, err := addSheet(f, sheetResults)
	if err != nil {
		return err
	}

	writeResultTable(sheet, "TOTAL", analysis.Results(r.Events))
	for _, dir := range r.Directions {
		sheet.AddRow()
		writeResultTable(sheet, model.DirectionName(dir), analysis.Results(analysis.FilterDirection(r.Events, dir)))
	}
	return nil
}

// writeResultTable stacks one reduction table: a merged title row, the
// category header, and the five fixed statistic rows.
func writeResultTable(sheet *xlsx.Sheet, title string, results []model.ReductionResult) {
	names := analysis.CategoryNames()
	writeTitleRow(sheet, title, len(names))

	header := sheet.AddRow()
	header.AddCell()
	for _, name := range names {
		header.AddCell().Value = name
	}

	writeStatRow(sheet, resultLabels[0], results, func(r model.ReductionResult) any { return r.Count })
	writeStatRow(sheet, resultLabels[1], results, func(r model.ReductionResult) any { return r.MeanCMF })
	writeStatRow(sheet, resultLabels[2], results, func(r model.ReductionResult) any { return r.CRF })
	writeStatRow(sheet, resultLabels[3], results, func(r model.ReductionResult) any { return r.ExpectedChange })
	writeStatRow(sheet, resultLabels[4], results, func(r model.ReductionResult) any { return r.AnnualNet })
}

func writeStatRow(sheet *xlsx.Sheet, label string, results []model.ReductionResult, value func(model.ReductionResult) any) {
	row := sheet.AddRow()
	row.AddCell().Value = label
	for _, res := range results {
		row.AddCell().SetValue(value(res))
	}
}

// writeTitleRow spans the table title across the category columns, one
// cell in from the label column.
func writeTitleRow(sheet *xlsx.Sheet, title string, width int) {
	row := sheet.AddRow()
	row.AddCell()
	cell := row.AddCell()
	cell.Value = title
	cell.HMerge = width - 1
}

func writeRow(sheet *xlsx.Sheet, values ...any) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetValue(v)
	}
}
