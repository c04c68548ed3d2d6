package assign

import (
	"strconv"
	"time"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
	"github.com/sells-group/sunlight-cohort/internal/tabio"
)

// Coordinate-variant labels used in the intervals table.
const (
	MethodCentroid = "centroid"
	MethodRep      = "rep"
)

// Interval is a compressed run of days over which a region kept the same
// assigned station for one coordinate variant. End is inclusive, matching the
// published table layout.
type Interval struct {
	RegionCode   string
	RegionKey    string
	Method       string
	StationID    int
	Start        time.Time
	End          time.Time
	Days         int
	MeanDistance float64
}

// Intervals compresses range assignments into per-variant station intervals.
// Ranges with no station available are omitted; the gap remains visible in
// the daily table and the quality report.
func Intervals(assigns []RangeAssignment) []Interval {
	var out []Interval
	for _, method := range []string{MethodCentroid, MethodRep} {
		out = append(out, compress(assigns, method)...)
	}
	return out
}

func compress(assigns []RangeAssignment, method string) []Interval {
	var out []Interval
	var cur *Interval
	var distSum float64

	flush := func() {
		if cur != nil {
			cur.MeanDistance = distSum / float64(cur.Days)
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, a := range assigns {
		sd := a.Centroid
		if method == MethodRep {
			sd = a.Rep
		}
		if !sd.OK {
			flush()
			continue
		}

		days := a.Range.Days()
		contiguous := cur != nil &&
			cur.RegionCode == a.Region.Code &&
			cur.StationID == sd.StationID &&
			dateutil.NextDay(cur.End).Equal(a.Range.Start)
		if contiguous {
			cur.End = a.Range.End.AddDate(0, 0, -1)
			cur.Days += days
			distSum += sd.Distance * float64(days)
			continue
		}

		flush()
		cur = &Interval{
			RegionCode: a.Region.Code,
			RegionKey:  a.Region.Key,
			Method:     method,
			StationID:  sd.StationID,
			Start:      a.Range.Start,
			End:        a.Range.End.AddDate(0, 0, -1),
			Days:       days,
		}
		distSum = sd.Distance * float64(days)
	}
	flush()
	return out
}

var dailyHeader = []string{
	"sigungu_cd", "resid_area", "date",
	"station_id_centroid", "dist_m_centroid",
	"station_id_rep", "dist_m_rep",
}

// WriteDaily expands range assignments to exactly one row per (region, date)
// and writes the daily assignment table. Days with no active station carry
// empty station and distance fields rather than being dropped.
func WriteDaily(path string, assigns []RangeAssignment) error {
	var rows [][]string
	for _, a := range assigns {
		a.Range.EachDay(func(d time.Time) {
			rows = append(rows, []string{
				a.Region.Code, a.Region.Key, dateutil.FormatDate(d),
				formatStation(a.Centroid), formatDistance(a.Centroid),
				formatStation(a.Rep), formatDistance(a.Rep),
			})
		})
	}
	return tabio.WriteCSV(path, dailyHeader, rows)
}

var intervalsHeader = []string{
	"sigungu_cd", "resid_area", "method", "station_id",
	"start_date", "end_date", "n_days", "mean_distance_m",
}

// WriteIntervals writes the compressed assignment intervals table.
func WriteIntervals(path string, intervals []Interval) error {
	rows := make([][]string, 0, len(intervals))
	for _, iv := range intervals {
		rows = append(rows, []string{
			iv.RegionCode, iv.RegionKey, iv.Method, itoa(iv.StationID),
			dateutil.FormatDate(iv.Start), dateutil.FormatDate(iv.End),
			itoa(iv.Days), tabio.FormatFloat(iv.MeanDistance),
		})
	}
	return tabio.WriteCSV(path, intervalsHeader, rows)
}

func formatStation(sd StationDist) string {
	if !sd.OK {
		return ""
	}
	return itoa(sd.StationID)
}

func formatDistance(sd StationDist) string {
	if !sd.OK {
		return ""
	}
	return tabio.FormatFloat(sd.Distance)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
