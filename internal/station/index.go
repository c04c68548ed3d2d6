// Package station models weather-station validity: each station is active over
// an ordered set of non-overlapping date segments, each at a fixed projected
// coordinate. Relocations appear as one segment closing and another opening.
package station

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
)

// Segment is one validity interval of a station, half-open [Start, End), at a
// fixed UTM-K coordinate.
type Segment struct {
	StationID int
	Name      string
	X         float64
	Y         float64
	Start     time.Time
	End       time.Time
}

// Active is a station usable as a nearest-neighbor candidate on some date.
type Active struct {
	StationID int
	X         float64
	Y         float64
}

// Index answers active-station queries over the study window.
type Index struct {
	segments map[int][]Segment
	window   dateutil.Range
}

// BuildIndex validates raw segments and builds the validity index. Segments
// are clipped to the study window; segments that end before they start and
// overlapping segments within a station are data errors and fail with the
// offending station ids itemized.
func BuildIndex(segs []Segment, window dateutil.Range) (*Index, error) {
	if window.Empty() {
		return nil, eris.Errorf("station: empty study window %s..%s",
			dateutil.FormatDate(window.Start), dateutil.FormatDate(window.End))
	}

	var inverted []string
	byStation := make(map[int][]Segment)
	for _, s := range segs {
		if !s.End.After(s.Start) {
			inverted = append(inverted, fmt.Sprintf("%d[%s..%s]",
				s.StationID, dateutil.FormatDate(s.Start), dateutil.FormatDate(s.End)))
			continue
		}
		clipped := dateutil.Range{Start: s.Start, End: s.End}.Clip(window)
		if clipped.Empty() {
			continue
		}
		s.Start, s.End = clipped.Start, clipped.End
		byStation[s.StationID] = append(byStation[s.StationID], s)
	}
	if len(inverted) > 0 {
		sort.Strings(inverted)
		return nil, eris.Errorf("station: segments end before they start: %s",
			strings.Join(inverted, ", "))
	}

	var overlaps []string
	for id, list := range byStation {
		sort.Slice(list, func(i, j int) bool {
			if !list[i].Start.Equal(list[j].Start) {
				return list[i].Start.Before(list[j].Start)
			}
			return list[i].End.Before(list[j].End)
		})
		for i := 1; i < len(list); i++ {
			if list[i].Start.Before(list[i-1].End) {
				overlaps = append(overlaps, fmt.Sprintf("%d[%s..%s vs %s..%s]",
					id,
					dateutil.FormatDate(list[i-1].Start), dateutil.FormatDate(list[i-1].End),
					dateutil.FormatDate(list[i].Start), dateutil.FormatDate(list[i].End)))
			}
		}
		byStation[id] = list
	}
	if len(overlaps) > 0 {
		sort.Strings(overlaps)
		return nil, eris.Errorf("station: overlapping validity segments: %s",
			strings.Join(overlaps, ", "))
	}

	return &Index{segments: byStation, window: window}, nil
}

// ActiveStations returns every station with a segment covering the given date,
// sorted by station id for deterministic iteration.
func (ix *Index) ActiveStations(d time.Time) []Active {
	var out []Active
	for id, list := range ix.segments {
		for _, s := range list {
			if !d.Before(s.Start) && d.Before(s.End) {
				out = append(out, Active{StationID: id, X: s.X, Y: s.Y})
				break // at most one segment covers any date
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StationID < out[j].StationID })
	return out
}

// Changepoints partitions the study window into maximal date ranges over which
// the active-station set is constant. Boundaries are the clipped segment
// starts and ends.
func (ix *Index) Changepoints() []dateutil.Range {
	seen := map[time.Time]bool{ix.window.Start: true, ix.window.End: true}
	for _, list := range ix.segments {
		for _, s := range list {
			seen[s.Start] = true
			seen[s.End] = true
		}
	}

	bounds := make([]time.Time, 0, len(seen))
	for d := range seen {
		if !d.Before(ix.window.Start) && !d.After(ix.window.End) {
			bounds = append(bounds, d)
		}
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].Before(bounds[j]) })

	ranges := make([]dateutil.Range, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		ranges = append(ranges, dateutil.Range{Start: bounds[i], End: bounds[i+1]})
	}
	return ranges
}

// Window returns the study window the index was built over.
func (ix *Index) Window() dateutil.Range {
	return ix.window
}

// StationCount returns the number of stations with at least one usable segment.
func (ix *Index) StationCount() int {
	return len(ix.segments)
}
