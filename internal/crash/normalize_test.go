package crash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/pkg/soda"
)

func TestFormatTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"142537", "14:25:37"},
		{"090000", "09:00:00"},
		{"95600", "09:56:00"},
		{"0", "00:00:00"},
		{"14:25:37", "14:25:37"},
		{"NoData", "NoData"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatTime(tt.in))
		})
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"20190426", "2019-04-26"},
		{"04-26-2019", "2019-04-26"},
		{"2019-04-26", "2019-04-26"},
		{"NoData", "NoData"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatDate(tt.in))
		})
	}
}

func TestNormalizeRecord(t *testing.T) {
	t.Parallel()

	rec := soda.Record{
		"report_no":           "MCP2354000S",
		"county_desc":         "Montgomery",
		"route_type_code":     "IS",
		"rte_no":              "495",
		"logmile_dir_flag":    "N",
		"log_mile":            "3.55",
		"acc_time":            "142537",
		"acc_date":            "20190426",
		"year":                "2019",
		"report_type":         "Injury Crash",
		"collision_type_code": "3",
		"collision_type_desc": "SAME DIR REAR END",
		"fix_obj_code":        "0",
		"harm_event_code1":    "1",
		"harm_event_desc1":    "MOTOR VEHICLE IN MOTION",
	}

	e := normalizeRecord(rec)

	assert.Equal(t, "MCP2354000S", e.ReportNo)
	assert.Equal(t, 495, e.RouteNumber)
	assert.Equal(t, 3.55, e.LogMile)
	assert.Equal(t, "14:25:37", e.AccTime)
	assert.Equal(t, "2019-04-26", e.AccDate)
	assert.Equal(t, 2019, e.Year)
	assert.Equal(t, 3, e.CollisionTypeCode)
	assert.Equal(t, 1, e.HarmEventCode1)

	// Absent columns fill with the NoData marker or zero.
	assert.Equal(t, model.NoData, e.FixObjDesc)
	assert.Equal(t, model.NoData, e.HarmEventDesc2)
	assert.Equal(t, 0, e.HarmEventCode2)
}

func TestFieldCoercions(t *testing.T) {
	t.Parallel()

	rec := soda.Record{
		"as_number": float64(12),
		"as_text":   "34",
		"decimal":   "5.0",
		"junk":      "n/a",
		"nil":       nil,
	}

	assert.Equal(t, 12, intField(rec, "as_number"))
	assert.Equal(t, 34, intField(rec, "as_text"))
	assert.Equal(t, 5, intField(rec, "decimal"))
	assert.Equal(t, 0, intField(rec, "junk"))
	assert.Equal(t, 0, intField(rec, "missing"))

	assert.Equal(t, 12.0, floatField(rec, "as_number"))
	assert.Equal(t, 5.0, floatField(rec, "decimal"))
	assert.Equal(t, 0.0, floatField(rec, "junk"))

	assert.Equal(t, model.NoData, stringField(rec, "nil"))
	assert.Equal(t, model.NoData, stringField(rec, "missing"))
	assert.Equal(t, "34", stringField(rec, "as_text"))
}

func TestDirections(t *testing.T) {
	t.Parallel()

	events := []model.CrashEvent{
		{CrashDir: "S"},
		{CrashDir: "N"},
		{CrashDir: "U"},
		{CrashDir: model.NoData},
		{CrashDir: "N"},
	}

	assert.Equal(t, []string{"N", "S"}, Directions(events))
	assert.Empty(t, Directions(nil))
	assert.Empty(t, Directions([]model.CrashEvent{{CrashDir: "U"}}))
}

func TestDirections_CapsAtTwo(t *testing.T) {
	t.Parallel()

	// A mixed-axis segment can report more than two directions; the
	// report keeps the first two in sorted order.
	events := []model.CrashEvent{
		{CrashDir: "W"},
		{CrashDir: "S"},
		{CrashDir: "N"},
		{CrashDir: "E"},
	}

	assert.Equal(t, []string{"E", "N"}, Directions(events))
}
