// Package sunlight holds the daily sunshine source records and the derived
// per-region exposure series with cumulative sums for O(1) interval queries.
package sunlight

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
	"github.com/sells-group/sunlight-cohort/internal/tabio"
)

// KMA daily sunshine table column names.
const (
	colStationID = "지점"
	colDate      = "일시"
	colSunHours  = "합계 일조시간(hr)"
)

// Records is the immutable (station, date) → sunshine hours source table.
// A blank or unparseable measurement is absent, never zero.
type Records struct {
	byStation map[int]map[time.Time]float64
}

// LoadDaily reads the daily sunshine table, keeping rows inside the study
// window. Duplicate (station, date) keys are a data-integrity fault and fail
// with the offending keys itemized.
func LoadDaily(path string, window dateutil.Range) (*Records, error) {
	tbl, err := tabio.ReadCSV(path, tabio.Schema{
		Required: []string{colStationID, colDate, colSunHours},
	})
	if err != nil {
		return nil, err
	}

	recs := &Records{byStation: make(map[int]map[time.Time]float64)}
	var dups []string
	var missing, kept int

	for _, row := range tbl.Rows {
		id, ok := tabio.ParseInt(tbl.Field(row, colStationID))
		if !ok {
			continue
		}
		d, err := dateutil.ParseDate(tbl.Field(row, colDate))
		if err != nil {
			continue
		}
		if !window.Contains(d) {
			continue
		}

		hours, ok := tabio.ParseFloat(tbl.Field(row, colSunHours))
		if !ok {
			missing++
			continue
		}

		days := recs.byStation[id]
		if days == nil {
			days = make(map[time.Time]float64)
			recs.byStation[id] = days
		}
		if _, exists := days[d]; exists {
			dups = append(dups, fmt.Sprintf("%d@%s", id, dateutil.FormatDate(d)))
			continue
		}
		days[d] = hours
		kept++
	}

	if len(dups) > 0 {
		sort.Strings(dups)
		return nil, eris.Errorf("sunlight: duplicate (station, date) keys in %s: %s",
			path, strings.Join(dups, ", "))
	}
	if kept == 0 {
		return nil, eris.Errorf("sunlight: no records in %s inside window %s..%s",
			path, dateutil.FormatDate(window.Start), dateutil.FormatDate(window.End))
	}

	zap.L().Info("daily sunshine loaded",
		zap.String("path", path),
		zap.Int("records", kept),
		zap.Int("missing_measurements", missing),
	)
	return recs, nil
}

// Lookup returns the sunshine hours for a station-date, reporting ok=false
// for data gaps.
func (r *Records) Lookup(stationID int, d time.Time) (float64, bool) {
	v, ok := r.byStation[stationID][d]
	return v, ok
}
