// Package cohort models the child survey panel: birth dates, baseline
// regions, exposure windows, and BMI classification.
package cohort

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

// DefaultSentinel is the smallest raw survey value treated as a "not
// observed" placeholder code for measurement columns.
const DefaultSentinel = 999.0

// Placeholder codes for the coded (non-measurement) columns. These are fixed
// by the survey codebook, unlike the measurement sentinel, and must not be
// compared against real values like calendar years.
const (
	yearSentinel  = 9999
	monthSentinel = 99
	sexSentinel   = 9
)

// Panel column names (wave-indexed long table from the survey collaborator).
var panelColumns = []string{
	"child_id", "wave", "survey_year", "survey_month",
	"resid_area", "birth_year", "birth_month", "sex",
	"height_cm", "weight_kg",
}

// Observation is one child-wave row of the survey panel. Zero BirthYear,
// BirthMonth, SurveyYear or SurveyMonth mean unobserved.
type Observation struct {
	ChildID     int
	Wave        int
	SurveyYear  int
	SurveyMonth int
	RegionKey   string // whitespace-normalized composite key; "" = missing
	BirthYear   int
	BirthMonth  int
	Sex         int // 1 = male, 2 = female, 0 = missing
	HeightCM    float64
	HasHeight   bool
	WeightKG    float64
	HasWeight   bool
}

// Panel is the loaded child-wave table, sorted by (child, wave).
type Panel struct {
	Observations []Observation
}

// LoadPanel reads the survey panel. Measurement values at or above sentinel
// map to missing; the coded year, month and sex columns use their fixed
// codebook placeholders instead. Duplicate (child, wave) keys fail with the
// offending keys itemized.
func LoadPanel(path string, sentinel float64) (*Panel, error) {
	tbl, err := tabio.ReadCSV(path, tabio.Schema{Required: panelColumns})
	if err != nil {
		return nil, err
	}

	seen := make(map[[2]int]bool)
	var dups []string
	obs := make([]Observation, 0, len(tbl.Rows))

	for i, row := range tbl.Rows {
		childID, ok := tabio.ParseInt(tbl.Field(row, "child_id"))
		if !ok {
			return nil, eris.Errorf("cohort: %s row %d: unparseable child_id", path, i+2)
		}
		wave, ok := tabio.ParseInt(tbl.Field(row, "wave"))
		if !ok {
			return nil, eris.Errorf("cohort: %s row %d: unparseable wave", path, i+2)
		}

		key := [2]int{childID, wave}
		if seen[key] {
			dups = append(dups, fmt.Sprintf("%d@wave%d", childID, wave))
			continue
		}
		seen[key] = true

		o := Observation{
			ChildID:   childID,
			Wave:      wave,
			RegionKey: tabio.NormalizeKey(tbl.Field(row, "resid_area")),
		}
		o.SurveyYear = codedField(tbl, row, "survey_year", yearSentinel)
		o.SurveyMonth = codedField(tbl, row, "survey_month", monthSentinel)
		o.BirthYear = codedField(tbl, row, "birth_year", yearSentinel)
		o.BirthMonth = codedField(tbl, row, "birth_month", monthSentinel)
		o.Sex = codedField(tbl, row, "sex", sexSentinel)
		o.HeightCM, o.HasHeight = tabio.ParseFloatSentinel(tbl.Field(row, "height_cm"), sentinel)
		o.WeightKG, o.HasWeight = tabio.ParseFloatSentinel(tbl.Field(row, "weight_kg"), sentinel)

		obs = append(obs, o)
	}

	if len(dups) > 0 {
		sort.Strings(dups)
		return nil, eris.Errorf("cohort: duplicate (child, wave) keys in %s: %s",
			path, strings.Join(dups, ", "))
	}

	sort.Slice(obs, func(i, j int) bool {
		if obs[i].ChildID != obs[j].ChildID {
			return obs[i].ChildID < obs[j].ChildID
		}
		return obs[i].Wave < obs[j].Wave
	})

	zap.L().Info("survey panel loaded",
		zap.String("path", path),
		zap.Int("observations", len(obs)),
	)
	return &Panel{Observations: obs}, nil
}

// codedField parses a coded column, mapping its codebook placeholder (and
// anything above it) to 0 = unobserved.
func codedField(tbl *tabio.Table, row []string, col string, placeholder int) int {
	v, ok := tabio.ParseInt(tbl.Field(row, col))
	if !ok || v >= placeholder {
		return 0
	}
	return v
}

// Optional is a value that may be missing.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Valid: true} }

// FirstNonMissing returns the first present value from an ordered sequence of
// candidates. This replaces the carry-forward-across-waves pattern with an
// explicit prioritized fallback.
func FirstNonMissing[T any](values ...Optional[T]) Optional[T] {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	var zero Optional[T]
	return zero
}

// Child is one cohort member with a resolved birth date and baseline region.
type Child struct {
	ID        int
	BirthDate time.Time
	Sex       int
	RegionKey string
}

// Children derives cohort members from the panel. The birth date combines the
// earliest observed birth year/month with the day-of-month anchor; the
// baseline region is the earliest wave's non-missing region key. Children
// without any observed birth month are skipped.
func (p *Panel) Children(anchorDay int) []Child {
	byID := make(map[int][]Observation)
	var ids []int
	for _, o := range p.Observations {
		if _, ok := byID[o.ChildID]; !ok {
			ids = append(ids, o.ChildID)
		}
		byID[o.ChildID] = append(byID[o.ChildID], o)
	}
	sort.Ints(ids)

	var children []Child
	var skipped int
	for _, id := range ids {
		waves := byID[id] // already wave-ordered from the panel sort

		var births []Optional[[2]int]
		var regions []Optional[string]
		var sexes []Optional[int]
		for _, o := range waves {
			births = append(births, Optional[[2]int]{
				Value: [2]int{o.BirthYear, o.BirthMonth},
				Valid: o.BirthYear > 0 && o.BirthMonth >= 1 && o.BirthMonth <= 12,
			})
			regions = append(regions, Optional[string]{Value: o.RegionKey, Valid: o.RegionKey != ""})
			sexes = append(sexes, Optional[int]{Value: o.Sex, Valid: o.Sex != 0})
		}

		birth := FirstNonMissing(births...)
		if !birth.Valid {
			skipped++
			continue
		}
		region := FirstNonMissing(regions...)
		sex := FirstNonMissing(sexes...)

		children = append(children, Child{
			ID:        id,
			BirthDate: BirthDate(birth.Value[0], birth.Value[1], anchorDay),
			Sex:       sex.Value,
			RegionKey: region.Value,
		})
	}

	if skipped > 0 {
		zap.L().Warn("children without observed birth month skipped",
			zap.Int("skipped", skipped),
		)
	}
	return children
}

// BirthDate builds the modeled birth date from an observed birth year/month
// and the day-of-month anchor, clamped to the month length.
func BirthDate(year, month, anchorDay int) time.Time {
	day := anchorDay
	if max := dateutil.DaysInMonth(year, time.Month(month)); day > max {
		day = max
	}
	return dateutil.Date(year, time.Month(month), day)
}
