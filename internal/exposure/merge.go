package exposure

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/sunlight-cohort/internal/cohort"
	"github.com/sells-group/sunlight-cohort/internal/dateutil"
	"github.com/sells-group/sunlight-cohort/internal/tabio"
)

func mergedHeader() []string {
	header := []string{
		"child_id", "wave", "survey_year", "survey_month",
		"resid_area", "sigungu_cd", "sex", "birth_date", "age_months",
		"height_cm", "weight_kg", "bmi", "overweight", "obese",
	}
	for _, name := range cohort.WindowNames {
		header = append(header,
			"exp_cent_"+name, "exp_rep_"+name, "n_days_"+name)
	}
	return header
}

// Merge joins every panel observation with its child's exposure columns and
// derived BMI indicators into the final analysis table. Observations whose
// child has no exposure row, or whose measurements are missing, keep empty
// cells; nothing is dropped.
func Merge(panel *cohort.Panel, exposures []ChildExposure, cutoffs cohort.Cutoffs, anchorDay int) [][]string {
	byChild := make(map[int]ChildExposure, len(exposures))
	for _, e := range exposures {
		byChild[e.ChildID] = e
	}
	birthByChild := make(map[int]cohort.Child)
	for _, c := range panel.Children(anchorDay) {
		birthByChild[c.ID] = c
	}

	rows := make([][]string, 0, len(panel.Observations))
	for _, o := range panel.Observations {
		row := []string{
			strconv.Itoa(o.ChildID),
			strconv.Itoa(o.Wave),
			intCell(o.SurveyYear),
			intCell(o.SurveyMonth),
			o.RegionKey,
		}

		child, hasChild := birthByChild[o.ChildID]
		exp, hasExp := byChild[o.ChildID]

		if hasExp {
			row = append(row, exp.RegionCode)
		} else {
			row = append(row, "")
		}
		row = append(row, intCell(child.Sex))
		if hasChild {
			row = append(row, dateutil.FormatDate(child.BirthDate))
		} else {
			row = append(row, "")
		}

		ageMonths := -1
		if hasChild && o.SurveyYear > 0 && o.SurveyMonth >= 1 && o.SurveyMonth <= 12 {
			survey := cohort.BirthDate(o.SurveyYear, o.SurveyMonth, anchorDay)
			ageMonths = cohort.AgeMonths(child.BirthDate, survey)
		}
		if ageMonths >= 0 {
			row = append(row, strconv.Itoa(ageMonths))
		} else {
			row = append(row, "")
		}

		row = append(row, floatCell(o.HeightCM, o.HasHeight), floatCell(o.WeightKG, o.HasWeight))

		if o.HasHeight && o.HasWeight && ageMonths >= 0 {
			bmi := cohort.BMI(o.HeightCM, o.WeightKG)
			row = append(row, tabio.FormatFloat(bmi))
			if cls, ok := cutoffs.Classify(child.Sex, ageMonths, bmi); ok {
				row = append(row, boolCell(cls.Overweight), boolCell(cls.Obese))
			} else {
				row = append(row, "", "")
			}
		} else {
			row = append(row, "", "", "")
		}

		if hasExp && exp.Matched {
			for _, w := range exp.Windows {
				row = append(row,
					tabio.FormatFloat(w.Centroid),
					tabio.FormatFloat(w.Rep),
					strconv.Itoa(w.Days))
			}
		} else {
			for range cohort.WindowNames {
				row = append(row, "", "", "")
			}
		}

		rows = append(rows, row)
	}

	zap.L().Info("analysis table merged",
		zap.Int("rows", len(rows)),
		zap.Int("children", len(birthByChild)),
	)
	return rows
}

// WriteMerged writes the final analysis table.
func WriteMerged(path string, rows [][]string) error {
	return tabio.WriteCSV(path, mergedHeader(), rows)
}

func intCell(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func floatCell(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return tabio.FormatFloat(v)
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
