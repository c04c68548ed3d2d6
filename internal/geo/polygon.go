package geo

import (
	"math"
	"sort"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// PolygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
// Shapefile parts with clockwise winding start a new polygon; counter-clockwise
// parts are holes attached to the preceding exterior ring.
func PolygonToMultiPolygon(p *shp.Polygon) (*geom.MultiPolygon, error) {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil, eris.New("geo: empty polygon shape")
	}

	mp := geom.NewMultiPolygon(geom.XY)
	var current *geom.Polygon

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		ring := geom.NewLinearRingFlat(geom.XY, flat)

		// Shapefile exterior rings wind clockwise (negative shoelace area).
		if signedArea(flat) <= 0 || current == nil {
			if current != nil {
				if err := mp.Push(current); err != nil {
					return nil, eris.Wrap(err, "geo: push polygon")
				}
			}
			current = geom.NewPolygon(geom.XY)
		}
		if err := current.Push(ring); err != nil {
			return nil, eris.Wrap(err, "geo: push ring")
		}
	}

	if current != nil {
		if err := mp.Push(current); err != nil {
			return nil, eris.Wrap(err, "geo: push polygon")
		}
	}
	if mp.NumPolygons() == 0 {
		return nil, eris.New("geo: polygon shape produced no rings")
	}
	return mp, nil
}

// signedArea returns the shoelace area of a flat XY ring; positive for
// counter-clockwise winding.
func signedArea(flat []float64) float64 {
	var sum float64
	n := len(flat) / 2
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += flat[2*i]*flat[2*j+1] - flat[2*j]*flat[2*i+1]
	}
	return sum / 2
}

// Centroid returns the area centroid of a multipolygon. The centroid of a
// concave region may fall outside its boundary.
func Centroid(mp *geom.MultiPolygon) (x, y float64, err error) {
	c, err := xy.Centroid(mp)
	if err != nil {
		return 0, 0, eris.Wrap(err, "geo: centroid")
	}
	return c[0], c[1], nil
}

// RepresentativePoint returns a point guaranteed to lie inside the largest
// polygon of the multipolygon: the midpoint of the widest interior span where
// a horizontal line through the middle of the polygon's bounding box crosses
// it. Falls back to the centroid for degenerate geometry.
func RepresentativePoint(mp *geom.MultiPolygon) (x, y float64, err error) {
	poly := largestPolygon(mp)
	if poly == nil {
		return Centroid(mp)
	}

	b := poly.Bounds()
	midY := (b.Min(1) + b.Max(1)) / 2

	var crossings []float64
	for r := 0; r < poly.NumLinearRings(); r++ {
		coords := poly.LinearRing(r).Coords()
		for i := 0; i < len(coords); i++ {
			x1, y1 := coords[i][0], coords[i][1]
			next := coords[(i+1)%len(coords)]
			x2, y2 := next[0], next[1]
			if (y1 <= midY && midY < y2) || (y2 <= midY && midY < y1) {
				crossings = append(crossings, x1+(midY-y1)*(x2-x1)/(y2-y1))
			}
		}
	}
	if len(crossings) < 2 {
		return Centroid(mp)
	}
	sort.Float64s(crossings)

	// Even-odd rule: consecutive crossing pairs bound interior spans.
	bestWidth := math.Inf(-1)
	var bestX float64
	for i := 0; i+1 < len(crossings); i += 2 {
		if w := crossings[i+1] - crossings[i]; w > bestWidth {
			bestWidth = w
			bestX = (crossings[i] + crossings[i+1]) / 2
		}
	}
	return bestX, midY, nil
}

func largestPolygon(mp *geom.MultiPolygon) *geom.Polygon {
	var best *geom.Polygon
	bestArea := math.Inf(-1)
	for i := 0; i < mp.NumPolygons(); i++ {
		p := mp.Polygon(i)
		if a := math.Abs(p.Area()); a > bestArea {
			bestArea = a
			best = p
		}
	}
	return best
}
