package sunlight

import (
	"fmt"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sunlight-cohort/internal/assign"
	"github.com/sells-group/sunlight-cohort/internal/dateutil"
	"github.com/sells-group/sunlight-cohort/internal/quality"
)

// Variant selects which region coordinate the exposure series was built from.
type Variant string

const (
	VariantCentroid Variant = "centroid"
	VariantRep      Variant = "rep"
)

// Variants lists both coordinate variants in output order.
var Variants = []Variant{VariantCentroid, VariantRep}

type regionSeries struct {
	code   string
	key    string
	values map[Variant][]float64
	valid  map[Variant][]bool
	prefix map[Variant][]float64 // prefix[i] = sum of values[:i]
}

// Series holds per-region daily exposure and cumulative sums over the study
// window. Days without an assigned station or without a sunshine record
// contribute 0 to the sums and are marked invalid; the gap is recorded in the
// quality side-channel, not silently imputed away.
type Series struct {
	window    dateutil.Range
	regions   map[string]*regionSeries
	codes     []string
	keyToCode map[string]string
}

// Build joins range assignments with sunshine records into the per-region
// exposure series.
func Build(assigns []assign.RangeAssignment, recs *Records, window dateutil.Range, reporter *quality.Reporter) *Series {
	s := &Series{
		window:    window,
		regions:   make(map[string]*regionSeries),
		keyToCode: make(map[string]string),
	}
	n := window.Days()
	warned := make(map[string]bool)

	for _, a := range assigns {
		rs := s.regions[a.Region.Code]
		if rs == nil {
			rs = newRegionSeries(a.Region.Code, a.Region.Key, n)
			s.regions[a.Region.Code] = rs
			s.keyToCode[a.Region.Key] = a.Region.Code
			s.codes = append(s.codes, a.Region.Code)
		}

		pairs := [...]struct {
			variant Variant
			sd      assign.StationDist
		}{
			{VariantCentroid, a.Centroid},
			{VariantRep, a.Rep},
		}
		a.Range.EachDay(func(d time.Time) {
			i := dateutil.DaysBetween(window.Start, d)
			for _, p := range pairs {
				variant, sd := p.variant, p.sd
				if !sd.OK {
					continue
				}
				v, ok := recs.Lookup(sd.StationID, d)
				if !ok {
					key := fmt.Sprintf("%s|%d|%s", a.Region.Code, sd.StationID, dateutil.FormatDate(d))
					if reporter != nil && !warned[key] {
						warned[key] = true
						reporter.Warn(quality.Warning{
							Kind:    quality.KindMissingSunshine,
							Region:  a.Region.Code,
							Station: sd.StationID,
							Date:    dateutil.FormatDate(d),
						})
					}
					continue
				}
				rs.values[variant][i] = v
				rs.valid[variant][i] = true
			}
		})
	}

	sort.Strings(s.codes)
	s.accumulate()
	return s
}

func newRegionSeries(code, key string, n int) *regionSeries {
	rs := &regionSeries{
		code:   code,
		key:    key,
		values: make(map[Variant][]float64, 2),
		valid:  make(map[Variant][]bool, 2),
		prefix: make(map[Variant][]float64, 2),
	}
	for _, v := range Variants {
		rs.values[v] = make([]float64, n)
		rs.valid[v] = make([]bool, n)
	}
	return rs
}

func (s *Series) accumulate() {
	for _, rs := range s.regions {
		for _, v := range Variants {
			prefix := make([]float64, len(rs.values[v])+1)
			for i, val := range rs.values[v] {
				prefix[i+1] = prefix[i] + val
			}
			rs.prefix[v] = prefix
		}
	}
}

// Window returns the date range the series covers.
func (s *Series) Window() dateutil.Range {
	return s.window
}

// CodeForKey resolves a normalized composite region key to a region code.
func (s *Series) CodeForKey(key string) (string, bool) {
	code, ok := s.keyToCode[key]
	return code, ok
}

// Sum returns the total exposure for a region over the half-open date range,
// in O(1) via prefix-sum subtraction. The range is clipped to the series
// window; an empty range sums to 0. ok is false for an unknown region.
func (s *Series) Sum(code string, variant Variant, r dateutil.Range) (float64, bool) {
	rs, exists := s.regions[code]
	if !exists {
		return 0, false
	}
	clipped := r.Clip(s.window)
	if clipped.Empty() {
		return 0, true
	}
	lo := dateutil.DaysBetween(s.window.Start, clipped.Start)
	hi := dateutil.DaysBetween(s.window.Start, clipped.End)
	p := rs.prefix[variant]
	return p[hi] - p[lo], true
}

// Value returns one daily exposure value; ok is false for coverage gaps.
func (s *Series) Value(code string, variant Variant, d time.Time) (float64, bool) {
	rs, exists := s.regions[code]
	if !exists || !s.window.Contains(d) {
		return 0, false
	}
	i := dateutil.DaysBetween(s.window.Start, d)
	if !rs.valid[variant][i] {
		return 0, false
	}
	return rs.values[variant][i], true
}

// Codes returns all region codes in the series, sorted.
func (s *Series) Codes() []string {
	return s.codes
}

// Key returns the composite key for a region code.
func (s *Series) Key(code string) string {
	if rs := s.regions[code]; rs != nil {
		return rs.key
	}
	return ""
}

// requireRegion is a helper for table emitters.
func (s *Series) requireRegion(code string) (*regionSeries, error) {
	rs := s.regions[code]
	if rs == nil {
		return nil, eris.Errorf("sunlight: unknown region %s", code)
	}
	return rs, nil
}
