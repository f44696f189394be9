// Package analysis partitions crash events into reporting cohorts and
// computes crash reduction statistics over them.
package analysis

import (
	"strings"

	"github.com/sha-research/cmf-cli/internal/model"
)

// Category is one column of the results report: a named predicate that
// decides whether a crash event belongs to the cohort.
type Category struct {
	Name  string
	match func(model.CrashEvent) bool
}

// Match reports whether the event belongs to this category. A category
// with no predicate matches nothing.
func (c Category) Match(e model.CrashEvent) bool {
	if c.match == nil {
		return false
	}
	return c.match(e)
}

// Filter returns the events belonging to this category, preserving order.
func (c Category) Filter(events []model.CrashEvent) []model.CrashEvent {
	var out []model.CrashEvent
	for _, e := range events {
		if c.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// categories lists every reporting cohort in report column order. The
// severity buckets test the classified report type; the collision buckets
// test portal collision-type codes; Fixed Object, Parked, and Pedestrian
// key off the fixed-object and harmful-event codes. "Other" is a
// placeholder column with no classification rule.
var categories = []Category{
	{Name: "Fatal", match: severityContains("fatal")},
	{Name: "Injury", match: severityContains("injury")},
	{Name: "Property Damage", match: severityContains("property damage")},
	{Name: "Rear end", match: collisionTypeIn(3, 4, 5)},
	{Name: "Sideswipe", match: collisionTypeIn(6, 7)},
	{Name: "Left Turn", match: collisionTypeIn(2, 5, 9, 10, 13, 14)},
	{Name: "Fixed Object", match: func(e model.CrashEvent) bool { return e.FixObjCode > 0 }},
	{Name: "Angle", match: collisionTypeIn(12, 13, 14)},
	{Name: "Opposite Direction", match: collisionTypeIn(6, 15)},
	{Name: "Parked", match: harmEventIn(1, 2)},
	{Name: "Pedestrian", match: harmEventIn(3)},
	{Name: "Other"},
}

// Categories returns every reporting category in report column order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryNames returns the category names in report column order.
func CategoryNames() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}

func severityContains(substr string) func(model.CrashEvent) bool {
	return func(e model.CrashEvent) bool {
		return containsFold(e.ReportType, substr)
	}
}

func collisionTypeIn(codes ...int) func(model.CrashEvent) bool {
	set := codeSet(codes)
	return func(e model.CrashEvent) bool {
		return set[e.CollisionTypeCode]
	}
}

func harmEventIn(codes ...int) func(model.CrashEvent) bool {
	set := codeSet(codes)
	return func(e model.CrashEvent) bool {
		return set[e.HarmEventCode1] || set[e.HarmEventCode2]
	}
}

func codeSet(codes []int) map[int]bool {
	set := make(map[int]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
