package station

import (
	"go.uber.org/zap"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
	"github.com/sells-group/sunlight-cohort/internal/geo"
	"github.com/sells-group/sunlight-cohort/internal/tabio"
)

// KMA META_weather_station_data.csv column names.
const (
	colStationID = "지점"
	colName      = "지점명"
	colStart     = "시작일"
	colEnd       = "종료일"
	colLat       = "위도"
	colLon       = "경도"
)

// LoadMeta reads KMA station metadata and returns raw validity segments with
// coordinates projected to UTM-K. Open-ended start/end dates are filled with
// the study window bounds; the source's inclusive end dates are converted to
// the half-open convention used internally. Rows without a parseable station
// id or coordinate are skipped.
func LoadMeta(path string, window dateutil.Range) ([]Segment, error) {
	tbl, err := tabio.ReadCSV(path, tabio.Schema{
		Required: []string{colStationID, colStart, colEnd, colLat, colLon},
	})
	if err != nil {
		return nil, err
	}

	var segs []Segment
	var skipped int
	for _, row := range tbl.Rows {
		id, ok := tabio.ParseInt(tbl.Field(row, colStationID))
		if !ok {
			skipped++
			continue
		}
		lat, okLat := tabio.ParseFloat(tbl.Field(row, colLat))
		lon, okLon := tabio.ParseFloat(tbl.Field(row, colLon))
		if !okLat || !okLon {
			skipped++
			continue
		}

		start := window.Start
		if s := tbl.Field(row, colStart); s != "" {
			if start, err = dateutil.ParseDate(s); err != nil {
				return nil, err
			}
		}
		end := window.End
		if s := tbl.Field(row, colEnd); s != "" {
			inclusive, err := dateutil.ParseDate(s)
			if err != nil {
				return nil, err
			}
			end = dateutil.NextDay(inclusive)
		}

		x, y := geo.ProjectUTMK(lon, lat)
		segs = append(segs, Segment{
			StationID: id,
			Name:      tbl.Field(row, colName),
			X:         x,
			Y:         y,
			Start:     start,
			End:       end,
		})
	}

	if skipped > 0 {
		zap.L().Debug("station: skipped metadata rows",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	zap.L().Info("station metadata loaded",
		zap.String("path", path),
		zap.Int("segments", len(segs)),
	)
	return segs, nil
}
