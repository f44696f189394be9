package crash

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/pkg/soda"
)

// normalizeRecord converts a raw portal record into a typed crash event.
// Absent string columns become NoData, absent or unparseable numeric
// columns become zero.
func normalizeRecord(rec soda.Record) model.CrashEvent {
	return model.CrashEvent{
		ReportNo:          stringField(rec, "report_no"),
		CountyDesc:        stringField(rec, "county_desc"),
		RouteTypeCode:     stringField(rec, "route_type_code"),
		RouteNumber:       intField(rec, "rte_no"),
		LogmileDirFlag:    stringField(rec, "logmile_dir_flag"),
		LogMile:           floatField(rec, "log_mile"),
		AccTime:           formatTime(stringField(rec, "acc_time")),
		AccDate:           formatDate(stringField(rec, "acc_date")),
		Year:              intField(rec, "year"),
		ReportType:        stringField(rec, "report_type"),
		CollisionTypeCode: intField(rec, "collision_type_code"),
		CollisionTypeDesc: stringField(rec, "collision_type_desc"),
		FixObjCode:        intField(rec, "fix_obj_code"),
		FixObjDesc:        stringField(rec, "fix_obj_desc"),
		HarmEventCode1:    intField(rec, "harm_event_code1"),
		HarmEventDesc1:    stringField(rec, "harm_event_desc1"),
		HarmEventCode2:    intField(rec, "harm_event_code2"),
		HarmEventDesc2:    stringField(rec, "harm_event_desc2"),
	}
}

func stringField(rec soda.Record, col string) string {
	v, ok := rec[col]
	if !ok || v == nil {
		return model.NoData
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return model.NoData
	}
	return s
}

func intField(rec soda.Record, col string) int {
	switch v := rec[col].(type) {
	case float64:
		return int(v)
	case string:
		// codes arrive as text; some carry a decimal point
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func floatField(rec soda.Record, col string) float64 {
	switch v := rec[col].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

var (
	timeDigits  = regexp.MustCompile(`^\d{1,6}$`)
	dateCompact = regexp.MustCompile(`^\d{8}$`)
	dateUS      = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

// formatTime renders HHMMSS digit strings as HH:MM:SS. Values already
// holding a colon, and anything non-numeric, pass through unchanged.
func formatTime(s string) string {
	if strings.Contains(s, ":") || !timeDigits.MatchString(s) {
		return s
	}
	padded := strings.Repeat("0", 6-len(s)) + s
	return padded[:2] + ":" + padded[2:4] + ":" + padded[4:]
}

// formatDate standardizes portal dates to yyyy-mm-dd. The portal serves
// both yyyymmdd and mm-dd-yyyy; unrecognized shapes pass through.
func formatDate(s string) string {
	switch {
	case dateCompact.MatchString(s):
		return s[:4] + "-" + s[4:6] + "-" + s[6:]
	case dateUS.MatchString(s):
		return s[6:] + "-" + s[:2] + "-" + s[3:5]
	}
	return s
}
