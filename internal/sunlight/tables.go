package sunlight

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
	"github.com/sells-group/sunlight-cohort/internal/tabio"
)

var dailyHeader = []string{
	"sigungu_cd", "resid_area", "date", "sun_hr_centroid", "sun_hr_rep",
}

// WriteDaily writes the region daily sunlight table: one row per (region,
// date), with empty measurement fields on coverage-gap days.
func WriteDaily(path string, s *Series) error {
	var rows [][]string
	for _, code := range s.codes {
		rs, err := s.requireRegion(code)
		if err != nil {
			return err
		}
		s.window.EachDay(func(d time.Time) {
			i := dateutil.DaysBetween(s.window.Start, d)
			row := []string{code, rs.key, dateutil.FormatDate(d)}
			for _, v := range Variants {
				if rs.valid[v][i] {
					row = append(row, tabio.FormatFloat(rs.values[v][i]))
				} else {
					row = append(row, "")
				}
			}
			rows = append(rows, row)
		})
	}
	return tabio.WriteCSV(path, dailyHeader, rows)
}

// ReadDaily rebuilds an exposure series from a region daily sunlight table
// written by WriteDaily. The window is inferred from the table's date span;
// every region must carry a row for every date in the span (assignment
// totality), and a violation fails fast.
func ReadDaily(path string) (*Series, error) {
	tbl, err := tabio.ReadCSV(path, tabio.Schema{Required: dailyHeader})
	if err != nil {
		return nil, err
	}
	if len(tbl.Rows) == 0 {
		return nil, eris.Errorf("sunlight: %s has no rows", path)
	}

	type cell struct {
		cent, rep           float64
		centValid, repValid bool
	}
	byCode := make(map[string]map[time.Time]cell)
	keys := make(map[string]string)
	var minDate, maxDate time.Time

	for i, row := range tbl.Rows {
		code := tbl.Field(row, "sigungu_cd")
		d, err := dateutil.ParseDate(tbl.Field(row, "date"))
		if err != nil {
			return nil, eris.Wrapf(err, "sunlight: %s row %d", path, i+2)
		}
		if minDate.IsZero() || d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}

		var c cell
		c.cent, c.centValid = tabio.ParseFloat(tbl.Field(row, "sun_hr_centroid"))
		c.rep, c.repValid = tabio.ParseFloat(tbl.Field(row, "sun_hr_rep"))

		days := byCode[code]
		if days == nil {
			days = make(map[time.Time]cell)
			byCode[code] = days
			keys[code] = tabio.NormalizeKey(tbl.Field(row, "resid_area"))
		}
		if _, dup := days[d]; dup {
			return nil, eris.Errorf("sunlight: duplicate (region, date) key %s@%s in %s",
				code, dateutil.FormatDate(d), path)
		}
		days[d] = c
	}

	window := dateutil.Range{Start: minDate, End: dateutil.NextDay(maxDate)}
	n := window.Days()

	s := &Series{
		window:    window,
		regions:   make(map[string]*regionSeries, len(byCode)),
		keyToCode: make(map[string]string, len(byCode)),
	}
	for code, days := range byCode {
		rs := newRegionSeries(code, keys[code], n)
		var missing []time.Time
		window.EachDay(func(d time.Time) {
			c, ok := days[d]
			if !ok {
				missing = append(missing, d)
				return
			}
			i := dateutil.DaysBetween(window.Start, d)
			rs.values[VariantCentroid][i], rs.valid[VariantCentroid][i] = c.cent, c.centValid
			rs.values[VariantRep][i], rs.valid[VariantRep][i] = c.rep, c.repValid
		})
		if len(missing) > 0 {
			return nil, eris.Errorf("sunlight: region %s missing %d daily rows in %s (first: %s)",
				code, len(missing), path, dateutil.FormatDate(missing[0]))
		}
		s.regions[code] = rs
		s.keyToCode[rs.key] = code
		s.codes = append(s.codes, code)
	}
	sort.Strings(s.codes)
	s.accumulate()
	return s, nil
}

var monthlyHeader = []string{
	"sigungu_cd", "resid_area", "ym",
	"sun_hr_centroid_sum", "sun_hr_rep_sum", "n_days",
}

// WriteMonthly writes region-month sunshine totals with day counts.
func WriteMonthly(path string, s *Series) error {
	var rows [][]string
	for _, code := range s.codes {
		rs, err := s.requireRegion(code)
		if err != nil {
			return err
		}

		type monthAgg struct {
			cent, rep float64
			days      int
		}
		agg := make(map[string]*monthAgg)
		var months []string

		s.window.EachDay(func(d time.Time) {
			ym := dateutil.MonthKey(d)
			m := agg[ym]
			if m == nil {
				m = &monthAgg{}
				agg[ym] = m
				months = append(months, ym)
			}
			i := dateutil.DaysBetween(s.window.Start, d)
			m.cent += rs.values[VariantCentroid][i]
			m.rep += rs.values[VariantRep][i]
			m.days++
		})

		for _, ym := range months {
			m := agg[ym]
			rows = append(rows, []string{
				code, rs.key, ym,
				tabio.FormatFloat(m.cent), tabio.FormatFloat(m.rep),
				tabio.FormatFloat(float64(m.days)),
			})
		}
	}
	return tabio.WriteCSV(path, monthlyHeader, rows)
}
