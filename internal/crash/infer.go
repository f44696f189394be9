package crash

import (
	"context"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/pkg/soda"
)

// inferReportType classifies crash severity from the people involved.
// Injury severity code 5 is a fatality and codes 2 through 4 are
// injuries; anything else, including no person records at all, leaves a
// property damage crash.
func (s *Source) inferReportType(ctx context.Context, reportNo string) (string, error) {
	if reportNo == model.NoData {
		return SeverityPropertyDamage, nil
	}

	people, err := s.client.Get(ctx, s.ds.Persons, soda.Query{
		Equals: map[string]string{"report_no": reportNo},
	})
	if err != nil {
		return "", err
	}

	var fatalities, injuries int
	for _, person := range people {
		switch code := intField(person, "inj_sever_code"); {
		case code == 5:
			fatalities++
		case code > 1 && code < 5:
			injuries++
		}
	}

	switch {
	case fatalities > 0:
		return SeverityFatal, nil
	case injuries > 0:
		return SeverityInjury, nil
	default:
		return SeverityPropertyDamage, nil
	}
}

// inferCrashDir picks the dominant travel direction among the vehicles
// involved, restricted to the roadway axis given by the logmile
// direction flag. No vehicle records means NoData; vehicles that never
// traveled along the axis mean unknown. Ties go to the first direction
// of the axis.
func (s *Source) inferCrashDir(ctx context.Context, reportNo, dirFlag string) (string, error) {
	if reportNo == model.NoData {
		return model.NoData, nil
	}

	vehicles, err := s.client.Get(ctx, s.ds.Vehicles, soda.Query{
		Equals: map[string]string{"report_no": reportNo},
	})
	if err != nil {
		return "", err
	}
	if len(vehicles) == 0 {
		return model.NoData, nil
	}

	counts := make(map[string]int, len(vehicles))
	for _, vehicle := range vehicles {
		if v, ok := vehicle["going_direction_code"].(string); ok {
			counts[v]++
		}
	}

	var axis []string
	switch dirFlag {
	case "N", "S":
		axis = []string{"N", "S"}
	case "E", "W":
		axis = []string{"E", "W"}
	}

	best, bestCount := "", 0
	for _, d := range axis {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	if best == "" {
		return "U", nil
	}
	return best, nil
}
