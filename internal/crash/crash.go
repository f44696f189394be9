// Package crash obtains crash records for a study area, either from the
// state open data portal or from a workbook's local Crash Data sheet,
// and normalizes them for analysis.
package crash

import (
	"context"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/pkg/soda"
)

// SheetName is the workbook sheet crash data is written to and read
// back from. A sheet with this name in the input workbook bypasses the
// portal entirely.
const SheetName = "Crash Data"

// Severity labels produced by report type inference.
const (
	SeverityFatal          = "Fatal Crash"
	SeverityInjury         = "Injury Crash"
	SeverityPropertyDamage = "Property Damage Crash"
)

// crashColumns are the portal columns the analysis consumes, in the
// order the Crash Data sheet lays them out.
var crashColumns = []string{
	"report_no",
	"county_desc",
	"route_type_code",
	"rte_no",
	"logmile_dir_flag",
	"log_mile",
	"acc_time",
	"acc_date",
	"year",
	"report_type",
	"collision_type_code",
	"collision_type_desc",
	"fix_obj_code",
	"fix_obj_desc",
	"harm_event_code1",
	"harm_event_desc1",
	"harm_event_code2",
	"harm_event_desc2",
}

// SheetColumns returns the Crash Data sheet header: the portal columns
// plus the two derived fields.
func SheetColumns() []string {
	cols := make([]string, 0, len(crashColumns)+2)
	cols = append(cols, crashColumns...)
	cols = append(cols, "crash_dir", "calculated_cmf")
	return cols
}

// Datasets names the portal resources the adapter queries.
type Datasets struct {
	Crashes  string
	Persons  string
	Vehicles string
}

// Source fetches and normalizes crash records for a study area.
type Source struct {
	client soda.Client
	ds     Datasets
}

// NewSource creates a crash source backed by the given portal client.
func NewSource(client soda.Client, ds Datasets) *Source {
	return &Source{client: client, ds: ds}
}

// Fetch returns the normalized crash events inside the study area.
// Records missing a report type get their severity inferred from person
// details, and every crash gets a travel direction inferred from its
// vehicles, so a fetch issues up to 2n+1 portal requests.
func (s *Source) Fetch(ctx context.Context, area model.StudyArea) ([]model.CrashEvent, error) {
	q := soda.Query{
		Select: crashColumns,
		Where:  whereClause(area),
		Equals: map[string]string{
			"route_type_code": area.RoutePrefix,
			"rte_no":          strconv.Itoa(area.RouteNumber),
		},
	}

	records, err := s.client.Get(ctx, s.ds.Crashes, q)
	if err != nil {
		return nil, eris.Wrap(err, "crash: fetch reports")
	}

	events := make([]model.CrashEvent, 0, len(records))
	for _, rec := range records {
		e := normalizeRecord(rec)

		if e.ReportType == model.NoData {
			rt, err := s.inferReportType(ctx, e.ReportNo)
			if err != nil {
				return nil, eris.Wrapf(err, "crash: infer report type for %s", e.ReportNo)
			}
			e.ReportType = rt
		}

		dir, err := s.inferCrashDir(ctx, e.ReportNo, e.LogmileDirFlag)
		if err != nil {
			return nil, eris.Wrapf(err, "crash: infer direction for %s", e.ReportNo)
		}
		e.CrashDir = dir

		events = append(events, e)
	}

	zap.L().Info("fetched crash reports",
		zap.String("study", area.Label()),
		zap.Int("crashes", len(events)),
	)

	return events, nil
}

func whereClause(area model.StudyArea) string {
	return "year between " + strconv.Itoa(area.StartYear) +
		" and " + strconv.Itoa(area.EndYear) +
		" and log_mile between " + formatMilepost(area.StartMP) +
		" and " + formatMilepost(area.EndMP)
}

func formatMilepost(mp float64) string {
	return strconv.FormatFloat(mp, 'f', -1, 64)
}

// Directions returns the distinct inferred crash directions, excluding
// unknown and missing values, sorted. At most two survive: the report
// lays out one table per roadway direction.
func Directions(events []model.CrashEvent) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, e := range events {
		if e.CrashDir == "U" || e.CrashDir == model.NoData || e.CrashDir == "" {
			continue
		}
		if !seen[e.CrashDir] {
			seen[e.CrashDir] = true
			dirs = append(dirs, e.CrashDir)
		}
	}
	sort.Strings(dirs)
	if len(dirs) > 2 {
		dirs = dirs[:2]
	}
	return dirs
}
