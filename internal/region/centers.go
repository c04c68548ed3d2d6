package region

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/sunlight-cohort/internal/tabio"
)

// Region centers table column names, kept compatible with the study's derived
// data layout.
var centersHeader = []string{
	"sigungu_cd", "resid_area",
	"centroid_x_utmk", "centroid_y_utmk",
	"rep_x_utmk", "rep_y_utmk",
}

// WriteCenters writes the region centers table.
func WriteCenters(path string, regions []Region) error {
	rows := make([][]string, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []string{
			r.Code, r.Key,
			tabio.FormatFloat(r.CentroidX), tabio.FormatFloat(r.CentroidY),
			tabio.FormatFloat(r.RepX), tabio.FormatFloat(r.RepY),
		})
	}
	return tabio.WriteCSV(path, centersHeader, rows)
}

// ReadCenters loads a region centers table, normalizing keys and enforcing
// key uniqueness.
func ReadCenters(path string) ([]Region, error) {
	tbl, err := tabio.ReadCSV(path, tabio.Schema{Required: centersHeader})
	if err != nil {
		return nil, err
	}

	regions := make([]Region, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		r := Region{
			Code: padCode(tbl.Field(row, "sigungu_cd")),
			Key:  tabio.NormalizeKey(tbl.Field(row, "resid_area")),
		}
		var ok [4]bool
		r.CentroidX, ok[0] = tabio.ParseFloat(tbl.Field(row, "centroid_x_utmk"))
		r.CentroidY, ok[1] = tabio.ParseFloat(tbl.Field(row, "centroid_y_utmk"))
		r.RepX, ok[2] = tabio.ParseFloat(tbl.Field(row, "rep_x_utmk"))
		r.RepY, ok[3] = tabio.ParseFloat(tbl.Field(row, "rep_y_utmk"))
		for _, o := range ok {
			if !o {
				return nil, eris.Errorf("region: %s row %d: unparseable coordinate for %s",
					path, i+2, r.Code)
			}
		}
		regions = append(regions, r)
	}

	if err := CheckUnique(regions); err != nil {
		return nil, err
	}
	return regions, nil
}
