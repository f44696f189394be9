package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArea() StudyArea {
	return StudyArea{
		RoutePrefix: "IS",
		RouteNumber: 95,
		StartMP:     2.3,
		EndMP:       7.8,
		StartYear:   2015,
		EndYear:     2020,
	}
}

func TestStudyAreaValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validArea().Validate())

	tests := []struct {
		name   string
		mutate func(*StudyArea)
	}{
		{"unknown prefix", func(s *StudyArea) { s.RoutePrefix = "XX" }},
		{"zero route number", func(s *StudyArea) { s.RouteNumber = 0 }},
		{"negative route number", func(s *StudyArea) { s.RouteNumber = -5 }},
		{"end milepost before start", func(s *StudyArea) { s.StartMP = 8.0 }},
		{"end year before start", func(s *StudyArea) { s.EndYear = 2014 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			area := validArea()
			tt.mutate(&area)
			assert.Error(t, area.Validate())
		})
	}
}

func TestStudyAreaLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "IS-95 [2.3-7.8] (2015-2020)", validArea().Label())

	whole := StudyArea{RoutePrefix: "MD", RouteNumber: 5, StartMP: 0, EndMP: 12, StartYear: 2019, EndYear: 2019}
	assert.Equal(t, "MD-5 [0-12] (2019-2019)", whole.Label())
}

func TestStudyAreaYears(t *testing.T) {
	t.Parallel()

	area := validArea()
	assert.Equal(t, []int{2015, 2016, 2017, 2018, 2019, 2020}, area.Years())

	single := StudyArea{StartYear: 2020, EndYear: 2020}
	assert.Equal(t, []int{2020}, single.Years())
}

func TestValidRoutePrefix(t *testing.T) {
	t.Parallel()

	for _, p := range RoutePrefixes {
		assert.True(t, ValidRoutePrefix(p), p)
	}
	assert.False(t, ValidRoutePrefix("ZZ"))
	assert.False(t, ValidRoutePrefix("is"))
}

func TestDirectionName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Northbound", DirectionName("N"))
	assert.Equal(t, "Southbound", DirectionName("S"))
	assert.Equal(t, "Eastbound", DirectionName("E"))
	assert.Equal(t, "Westbound", DirectionName("W"))
	assert.Equal(t, "Unknown", DirectionName("U"))
	assert.Equal(t, "NoData", DirectionName("NoData"))
}
