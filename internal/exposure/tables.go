package exposure

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sunlight-cohort/internal/cohort"
	"github.com/sells-group/sunlight-cohort/internal/tabio"
)

func exposureHeader() []string {
	header := []string{"child_id", "sigungu_cd", "resid_area"}
	for _, name := range cohort.WindowNames {
		header = append(header,
			"exp_cent_"+name, "exp_rep_"+name, "n_days_"+name)
	}
	return header
}

// WriteExposure writes the per-child exposure table: one row per child, 14
// exposure columns plus a day count per window. Children with an unmatched
// baseline region keep their key but carry empty exposure fields.
func WriteExposure(path string, rows []ChildExposure) error {
	var out [][]string
	for _, r := range rows {
		row := []string{strconv.Itoa(r.ChildID), r.RegionCode, r.RegionKey}
		if r.Matched {
			for _, w := range r.Windows {
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
		out = append(out, row)
	}
	return tabio.WriteCSV(path, exposureHeader(), out)
}

// ReadExposure loads a per-child exposure table written by WriteExposure.
func ReadExposure(path string) ([]ChildExposure, error) {
	tbl, err := tabio.ReadCSV(path, tabio.Schema{Required: exposureHeader()})
	if err != nil {
		return nil, err
	}

	rows := make([]ChildExposure, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		id, ok := tabio.ParseInt(tbl.Field(row, "child_id"))
		if !ok {
			return nil, eris.Errorf("exposure: %s row %d: unparseable child_id", path, i+2)
		}
		r := ChildExposure{
			ChildID:    id,
			RegionCode: tbl.Field(row, "sigungu_cd"),
			RegionKey:  tabio.NormalizeKey(tbl.Field(row, "resid_area")),
		}
		if r.RegionCode != "" {
			r.Matched = true
			for _, name := range cohort.WindowNames {
				cent, okCent := tabio.ParseFloat(tbl.Field(row, "exp_cent_"+name))
				rep, okRep := tabio.ParseFloat(tbl.Field(row, "exp_rep_"+name))
				days, okDays := tabio.ParseInt(tbl.Field(row, "n_days_"+name))
				if !okCent || !okRep || !okDays {
					return nil, eris.Errorf("exposure: %s row %d: incomplete window %s", path, i+2, name)
				}
				r.Windows = append(r.Windows, WindowExposure{
					Name: name, Centroid: cent, Rep: rep, Days: days,
				})
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}
