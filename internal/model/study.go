package model

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
)

// StudyArea identifies the road segment and time window under analysis.
type StudyArea struct {
	RoutePrefix string  `json:"route_prefix"`
	RouteNumber int     `json:"route_number"`
	StartMP     float64 `json:"start_mp"`
	EndMP       float64 `json:"end_mp"`
	StartYear   int     `json:"start_year"`
	EndYear     int     `json:"end_year"`
}

// Validate checks the study parameters before any I/O happens.
func (s StudyArea) Validate() error {
	if !ValidRoutePrefix(s.RoutePrefix) {
		return eris.Errorf("model: unknown route prefix %q", s.RoutePrefix)
	}
	if s.RouteNumber <= 0 {
		return eris.Errorf("model: route number must be positive, got %d", s.RouteNumber)
	}
	if s.EndMP < s.StartMP {
		return eris.Errorf("model: end milepost %s before start milepost %s",
			formatMP(s.EndMP), formatMP(s.StartMP))
	}
	if s.EndYear < s.StartYear {
		return eris.Errorf("model: end year %d before start year %d", s.EndYear, s.StartYear)
	}
	return nil
}

// Label renders the study parameters the way report names do,
// e.g. "IS-95 [2.3-7.8] (2015-2020)".
func (s StudyArea) Label() string {
	return fmt.Sprintf("%s-%d [%s-%s] (%d-%d)",
		s.RoutePrefix, s.RouteNumber,
		formatMP(s.StartMP), formatMP(s.EndMP),
		s.StartYear, s.EndYear)
}

// Years returns every year in the study window, inclusive on both ends.
func (s StudyArea) Years() []int {
	years := make([]int, 0, s.EndYear-s.StartYear+1)
	for y := s.StartYear; y <= s.EndYear; y++ {
		years = append(years, y)
	}
	return years
}

func formatMP(mp float64) string {
	return strconv.FormatFloat(mp, 'f', -1, 64)
}
