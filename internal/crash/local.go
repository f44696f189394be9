package crash

import (
	"strconv"
	"strings"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/internal/workbook"
)

// HasLocalData reports whether the workbook carries its own Crash Data
// sheet, in which case no portal requests are made.
func HasLocalData(path string) (bool, error) {
	return workbook.HasSheet(path, SheetName)
}

// FromWorkbook loads crash events from the workbook's Crash Data sheet.
// Columns are matched by header name so a sheet written by an earlier
// report round-trips, and hand-built sheets may omit columns they have
// no data for.
func FromWorkbook(path string) ([]model.CrashEvent, error) {
	rows, err := workbook.ReadSheet(path, workbook.Options{SheetName: SheetName})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.CrashEvent{}, nil
	}

	idx := workbook.HeaderIndex(rows[0])
	str := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok {
			return model.NoData
		}
		s := strings.TrimSpace(workbook.Cell(row, i))
		if s == "" {
			return model.NoData
		}
		return s
	}
	num := func(row []string, col string) float64 {
		i, ok := idx[col]
		if !ok {
			return 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(workbook.Cell(row, i)), 64)
		if err != nil {
			return 0
		}
		return f
	}

	events := make([]model.CrashEvent, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		events = append(events, model.CrashEvent{
			ReportNo:          str(row, "report_no"),
			CountyDesc:        str(row, "county_desc"),
			RouteTypeCode:     str(row, "route_type_code"),
			RouteNumber:       int(num(row, "rte_no")),
			LogmileDirFlag:    str(row, "logmile_dir_flag"),
			LogMile:           num(row, "log_mile"),
			AccTime:           formatTime(str(row, "acc_time")),
			AccDate:           formatDate(str(row, "acc_date")),
			Year:              int(num(row, "year")),
			ReportType:        str(row, "report_type"),
			CollisionTypeCode: int(num(row, "collision_type_code")),
			CollisionTypeDesc: str(row, "collision_type_desc"),
			FixObjCode:        int(num(row, "fix_obj_code")),
			FixObjDesc:        str(row, "fix_obj_desc"),
			HarmEventCode1:    int(num(row, "harm_event_code1")),
			HarmEventDesc1:    str(row, "harm_event_desc1"),
			HarmEventCode2:    int(num(row, "harm_event_code2")),
			HarmEventDesc2:    str(row, "harm_event_desc2"),
			CrashDir:          str(row, "crash_dir"),
			CalculatedCMF:     num(row, "calculated_cmf"),
		})
	}

	return events, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
