package cohort

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/sunlight-cohort/internal/tabio"
)

// CutoffKey indexes growth-reference BMI percentile cutoffs by sex and age in
// completed months.
type CutoffKey struct {
	Sex       int
	AgeMonths int
}

// Cutoff holds the overweight (85th percentile) and obese (95th percentile)
// BMI thresholds for one sex/age cell.
type Cutoff struct {
	Overweight float64
	Obese      float64
}

// Cutoffs is the growth-reference lookup table.
type Cutoffs map[CutoffKey]Cutoff

var cutoffColumns = []string{"sex", "age_months", "overweight", "obese"}

// LoadCutoffs reads the growth-reference workbook: first sheet, a header row
// naming sex, age_months, overweight and obese, then one row per sex/age
// cell. Duplicate cells fail with the keys itemized.
func LoadCutoffs(path string) (Cutoffs, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "cohort: open cutoff workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("cohort: cutoff workbook %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("cohort: cutoff workbook %s is empty", path)
	}

	col := make(map[string]int)
	for j, cell := range sheet.Rows[0].Cells {
		col[strings.TrimSpace(strings.ToLower(cell.String()))] = j
	}
	var missing []string
	for _, name := range cutoffColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, eris.Errorf("cohort: cutoff workbook %s missing columns: %s",
			path, strings.Join(missing, ", "))
	}

	cell := func(row *xlsx.Row, name string) string {
		j := col[name]
		if j >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[j].String())
	}

	cutoffs := make(Cutoffs)
	var dups []string
	for i, row := range sheet.Rows[1:] {
		sex, okSex := tabio.ParseInt(cell(row, "sex"))
		age, okAge := tabio.ParseInt(cell(row, "age_months"))
		over, okOver := tabio.ParseFloat(cell(row, "overweight"))
		obese, okObese := tabio.ParseFloat(cell(row, "obese"))
		if !okSex || !okAge || !okOver || !okObese {
			return nil, eris.Errorf("cohort: cutoff workbook %s row %d: unparseable cell", path, i+2)
		}

		key := CutoffKey{Sex: sex, AgeMonths: age}
		if _, exists := cutoffs[key]; exists {
			dups = append(dups, fmt.Sprintf("sex%d@%dmo", sex, age))
			continue
		}
		cutoffs[key] = Cutoff{Overweight: over, Obese: obese}
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		return nil, eris.Errorf("cohort: duplicate cutoff cells in %s: %s",
			path, strings.Join(dups, ", "))
	}
	return cutoffs, nil
}

// BMI computes body mass index from height in centimeters and weight in
// kilograms. NaN when height is non-positive.
func BMI(heightCM, weightKG float64) float64 {
	if heightCM <= 0 {
		return math.NaN()
	}
	m := heightCM / 100
	return weightKG / (m * m)
}

// Classification is the BMI category pair derived from the growth reference.
type Classification struct {
	Overweight bool // BMI at or above the 85th percentile cutoff
	Obese      bool // BMI at or above the 95th percentile cutoff
}

// Classify looks up the sex/age cutoff cell and compares the BMI against it.
// ok is false when the reference table has no cell for the sex/age pair or
// the BMI is not a number.
func (c Cutoffs) Classify(sex, ageMonths int, bmi float64) (Classification, bool) {
	cut, exists := c[CutoffKey{Sex: sex, AgeMonths: ageMonths}]
	if !exists || math.IsNaN(bmi) {
		return Classification{}, false
	}
	return Classification{
		Overweight: bmi >= cut.Overweight,
		Obese:      bmi >= cut.Obese,
	}, true
}
