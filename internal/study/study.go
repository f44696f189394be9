// Package study loads the CMF rule workbook and applies its coefficients
// to crash records.
package study

import (
	"strconv"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/floats"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/internal/workbook"
)

// ruleColumns are the required header columns of the rule sheet, in the
// order they are echoed back to the Input CMFs report sheet.
var ruleColumns = []string{
	"Segment",
	"Start_MP",
	"End_MP",
	"Severity",
	"Crash_Type",
	"Direction",
	"Time",
	"Coefficient",
}

// RuleColumns returns the coefficient sheet header in column order.
func RuleColumns() []string {
	out := make([]string, len(ruleColumns))
	copy(out, ruleColumns)
	return out
}

// Table is an ordered CMF rule table loaded from the input workbook.
type Table struct {
	rules []model.CMFRule
}

// LoadTable reads the rule sheet of the CMF workbook. By default the
// first sheet holds the rules; opts can name another one.
func LoadTable(path string, opts workbook.Options) (*Table, error) {
	rows, err := workbook.ReadSheet(path, opts)
	if err != nil {
		return nil, err
	}
	return parseRules(rows)
}

func parseRules(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, eris.Wrap(workbook.ErrFormat, "study: rule sheet is empty")
	}

	idx := workbook.HeaderIndex(rows[0])
	for _, col := range ruleColumns {
		if _, ok := idx[workbook.NormalizeHeader(col)]; !ok {
			return nil, eris.Wrapf(workbook.ErrFormat, "study: rule sheet missing column %q", col)
		}
	}

	cell := func(row []string, col string) string {
		return workbook.Cell(row, idx[workbook.NormalizeHeader(col)])
	}

	t := &Table{}
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNum := i + 2 // 1-based, after the header

		startMP, err := parseFloat(cell(row, "Start_MP"), rowNum, "Start_MP")
		if err != nil {
			return nil, err
		}
		endMP, err := parseFloat(cell(row, "End_MP"), rowNum, "End_MP")
		if err != nil {
			return nil, err
		}
		coeff, err := parseFloat(cell(row, "Coefficient"), rowNum, "Coefficient")
		if err != nil {
			return nil, err
		}

		t.rules = append(t.rules, model.CMFRule{
			Segment:     cell(row, "Segment"),
			StartMP:     startMP,
			EndMP:       endMP,
			Severity:    cell(row, "Severity"),
			CrashType:   cell(row, "Crash_Type"),
			Direction:   cell(row, "Direction"),
			Time:        cell(row, "Time"),
			Coefficient: coeff,
		})
	}

	return t, nil
}

func parseFloat(s string, rowNum int, col string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(workbook.ErrFormat, "study: row %d: column %s: %q is not a number", rowNum, col, s)
	}
	return f, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// Len returns the number of rules in the table.
func (t *Table) Len() int {
	return len(t.rules)
}

// Rules returns the rules in sheet order.
func (t *Table) Rules() []model.CMFRule {
	out := make([]model.CMFRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Match returns the coefficients of every rule the crash falls inside,
// in table order. All dimensions must agree for a rule to contribute.
func (t *Table) Match(milepost float64, severity, crashType, direction, crashTime string) []float64 {
	var cmfs []float64
	for _, r := range t.rules {
		if r.Matches(milepost, severity, crashType, direction, crashTime) {
			cmfs = append(cmfs, r.Coefficient)
		}
	}
	return cmfs
}

// Reduce collapses the matched coefficients for one crash into its
// calculated CMF. A crash no rule touches keeps the identity 1.0.
func Reduce(cmfs []float64) float64 {
	return floats.Prod(cmfs)
}

// Apply computes and stores the calculated CMF on every crash. The match
// dimensions come from the raw report fields: severity from the report
// type, crash type from the collision description, direction from the
// logmile direction flag, and the crash time.
func (t *Table) Apply(events []model.CrashEvent) {
	for i := range events {
		e := &events[i]
		e.CalculatedCMF = Reduce(t.Match(e.LogMile, e.ReportType, e.CollisionTypeDesc, e.LogmileDirFlag, e.AccTime))
	}
}

// Segments returns the distinct segment labels in first-seen order.
func (t *Table) Segments() []string {
	seen := make(map[string]bool, len(t.rules))
	var out []string
	for _, r := range t.rules {
		if !seen[r.Segment] {
			seen[r.Segment] = true
			out = append(out, r.Segment)
		}
	}
	return out
}

// MilepostRange returns the lowest start and highest end milepost across
// all rules. An empty table spans nothing.
func (t *Table) MilepostRange() (float64, float64) {
	if len(t.rules) == 0 {
		return 0, 0
	}
	start, end := t.rules[0].StartMP, t.rules[0].EndMP
	for _, r := range t.rules[1:] {
		if r.StartMP < start {
			start = r.StartMP
		}
		if r.EndMP > end {
			end = r.EndMP
		}
	}
	return start, end
}

// Overlap is a pair of rules that can both match the same crash.
type Overlap struct {
	A, B model.CMFRule
}

// Overlaps lists rule pairs whose milepost ranges intersect and whose
// dimensions are compatible. Overlapping rules are legal (their
// coefficients multiply) but usually worth a second look.
func (t *Table) Overlaps() []Overlap {
	var out []Overlap
	for i := 0; i < len(t.rules); i++ {
		for j := i + 1; j < len(t.rules); j++ {
			a, b := t.rules[i], t.rules[j]
			if a.StartMP < b.EndMP && b.StartMP < a.EndMP && dimensionsCompatible(a, b) {
				out = append(out, Overlap{A: a, B: b})
			}
		}
	}
	return out
}

func dimensionsCompatible(a, b model.CMFRule) bool {
	return dimCompat(a.Severity, b.Severity) &&
		dimCompat(a.CrashType, b.CrashType) &&
		dimCompat(a.Direction, b.Direction) &&
		dimCompat(a.Time, b.Time)
}

// dimCompat holds when either rule's value would accept the other's,
// i.e. some crash value satisfies both.
func dimCompat(x, y string) bool {
	return model.DimensionMatches(x, y) || model.DimensionMatches(y, x)
}
