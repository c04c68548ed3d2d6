package cohort

import (
	"time"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
)

// DefaultBirthDayAnchor is the day-of-month used when only birth year and
// month are observed.
const DefaultBirthDayAnchor = 15

// WindowNames lists the seven exposure windows in chronological output order.
var WindowNames = []string{"pre1", "pre2", "pre3", "m0_6", "m6_12", "m12_24", "m24_36"}

// windowOffsets gives each window's [start, end) bounds in calendar months
// relative to the birth date.
var windowOffsets = map[string][2]int{
	"pre1":   {-9, -6},
	"pre2":   {-6, -3},
	"pre3":   {-3, 0},
	"m0_6":   {0, 6},
	"m6_12":  {6, 12},
	"m12_24": {12, 24},
	"m24_36": {24, 36},
}

// Window is one birth-anchored exposure period, clipped to the study window.
type Window struct {
	Name  string
	Range dateutil.Range
}

// Windows computes the seven exposure windows for a birth date. Unclipped
// windows tile [birth-9m, birth+36m) without gaps or overlap; each returned
// range is clipped to clip, so windows falling outside the study period come
// back empty rather than absent.
func Windows(birth time.Time, anchorDay int, clip dateutil.Range) []Window {
	out := make([]Window, 0, len(WindowNames))
	for _, name := range WindowNames {
		off := windowOffsets[name]
		r := dateutil.Range{
			Start: dateutil.AddMonths(birth, off[0], anchorDay),
			End:   dateutil.AddMonths(birth, off[1], anchorDay),
		}
		out = append(out, Window{Name: name, Range: r.Clip(clip)})
	}
	return out
}

// AgeMonths returns the child's age in completed calendar months at a survey
// date, negative if the survey predates the birth date.
func AgeMonths(birth, survey time.Time) int {
	return dateutil.MonthsBetween(birth, survey)
}
