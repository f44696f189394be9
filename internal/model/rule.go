package model

import "strings"

// Wildcard in a rule dimension matches any crash value.
const Wildcard = "all"

// CMFRule is one row of the input CMF workbook: a milepost range, four
// match dimensions, and the coefficient applied to matching crashes.
type CMFRule struct {
	Segment     string  `json:"segment"`
	StartMP     float64 `json:"start_mp"`
	EndMP       float64 `json:"end_mp"`
	Severity    string  `json:"severity"`
	CrashType   string  `json:"crash_type"`
	Direction   string  `json:"direction"`
	Time        string  `json:"time"`
	Coefficient float64 `json:"coefficient"`
}

// Matches reports whether a crash falls inside this rule. The milepost
// range is half-open: a crash at EndMP belongs to the next segment.
// String dimensions compare case-insensitively, with Wildcard matching
// anything, including NoData.
func (r CMFRule) Matches(milepost float64, severity, crashType, direction, crashTime string) bool {
	if milepost < r.StartMP || milepost >= r.EndMP {
		return false
	}
	return DimensionMatches(r.Severity, severity) &&
		DimensionMatches(r.CrashType, crashType) &&
		DimensionMatches(r.Direction, direction) &&
		DimensionMatches(r.Time, crashTime)
}

// DimensionMatches reports whether a rule dimension accepts a crash
// value: the wildcard accepts anything, otherwise values compare
// case-insensitively.
func DimensionMatches(rule, crash string) bool {
	if strings.EqualFold(rule, Wildcard) {
		return true
	}
	return strings.EqualFold(rule, crash)
}
