package region

import (
	"sort"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/korean"

	"github.com/sells-group/sunlight-cohort/internal/geo"
)

// Boundary shapefile DBF attribute names (SGIS sigungu boundary export).
const (
	attrCode = "SIGUNGU_CD"
	attrName = "SIGUNGU_NM"
)

// LoadShapefile reads a sigungu boundary shapefile and resolves every district
// polygon to its centroid and representative point. The DBF attributes are
// CP949-encoded and decoded before key construction. The shapefile is already
// in UTM-K, so coordinates pass through unprojected.
func LoadShapefile(path string) ([]Region, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToUpper(name)] = i
	}
	codeIdx, ok := fieldIdx[attrCode]
	if !ok {
		return nil, eris.Errorf("region: shapefile %s missing attribute %s", path, attrCode)
	}
	nameIdx, ok := fieldIdx[attrName]
	if !ok {
		return nil, eris.Errorf("region: shapefile %s missing attribute %s", path, attrName)
	}

	decoder := korean.EUCKR.NewDecoder()
	var regions []Region
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}

		code := padCode(attribute(reader, codeIdx))
		rawName := attribute(reader, nameIdx)
		name, err := decoder.String(rawName)
		if err != nil {
			name = rawName // already UTF-8
		}

		key, err := BuildKey(code, name)
		if err != nil {
			return nil, err
		}

		mp, err := geo.PolygonToMultiPolygon(poly)
		if err != nil {
			skipped++
			continue
		}
		cx, cy, err := geo.Centroid(mp)
		if err != nil {
			return nil, eris.Wrapf(err, "region: centroid for %s", code)
		}
		rx, ry, err := geo.RepresentativePoint(mp)
		if err != nil {
			return nil, eris.Wrapf(err, "region: representative point for %s", code)
		}

		regions = append(regions, Region{
			Code:      code,
			Key:       key,
			CentroidX: cx,
			CentroidY: cy,
			RepX:      rx,
			RepY:      ry,
		})
	}

	if skipped > 0 {
		zap.L().Debug("region: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].Code < regions[j].Code })
	if err := CheckUnique(regions); err != nil {
		return nil, err
	}

	zap.L().Info("boundary shapefile loaded",
		zap.String("path", path),
		zap.Int("regions", len(regions)),
	)
	return regions, nil
}

func attribute(r *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(r.Attribute(idx), "\x00"))
}
