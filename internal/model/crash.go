package model

// NoData is the fill value for string fields absent from a crash record.
// The open data portal omits columns it has no value for, and downstream
// matching treats the marker like any other crash attribute.
const NoData = "NoData"

// CrashEvent is a normalized crash record from the state crash dataset.
// JSON tags match the portal column names so records round-trip through
// the Crash Data sheet and the serve API unchanged.
type CrashEvent struct {
	ReportNo          string  `json:"report_no"`
	CountyDesc        string  `json:"county_desc"`
	RouteTypeCode     string  `json:"route_type_code"`
	RouteNumber       int     `json:"rte_no"`
	LogmileDirFlag    string  `json:"logmile_dir_flag"`
	LogMile           float64 `json:"log_mile"`
	AccTime           string  `json:"acc_time"`
	AccDate           string  `json:"acc_date"`
	Year              int     `json:"year"`
	ReportType        string  `json:"report_type"`
	CollisionTypeCode int     `json:"collision_type_code"`
	CollisionTypeDesc string  `json:"collision_type_desc"`
	FixObjCode        int     `json:"fix_obj_code"`
	FixObjDesc        string  `json:"fix_obj_desc"`
	HarmEventCode1    int     `json:"harm_event_code1"`
	HarmEventDesc1    string  `json:"harm_event_desc1"`
	HarmEventCode2    int     `json:"harm_event_code2"`
	HarmEventDesc2    string  `json:"harm_event_desc2"`

	// CrashDir is the travel direction inferred from the vehicles involved,
	// one of N/S/E/W, "U" for unknown, or NoData when no vehicle records exist.
	CrashDir string `json:"crash_dir"`
	// CalculatedCMF is the product of all rule coefficients matching this
	// crash. 1.0 when no rule applies.
	CalculatedCMF float64 `json:"calculated_cmf"`
}

// RoutePrefixes are the route type codes accepted by the crash dataset,
// e.g. IS (interstate), US (US route), MD (state route).
var RoutePrefixes = []string{
	"IS", "US", "MD", "CO", "GV", "MO", "MU", "OP", "RA", "RP", "RT", "SB", "SR", "UU",
}

// ValidRoutePrefix reports whether p is a known route type code.
func ValidRoutePrefix(p string) bool {
	for _, rp := range RoutePrefixes {
		if p == rp {
			return true
		}
	}
	return false
}

var directionNames = map[string]string{
	"N": "Northbound",
	"S": "Southbound",
	"E": "Eastbound",
	"W": "Westbound",
	"U": "Unknown",
}

// DirectionName returns the display name for a direction code, used as
// table titles in the output report. Unrecognized codes pass through.
func DirectionName(code string) string {
	if name, ok := directionNames[code]; ok {
		return name
	}
	return code
}
