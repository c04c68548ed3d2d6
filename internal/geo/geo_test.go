package geo

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestProjectUTMK_Origin(t *testing.T) {
	x, y := ProjectUTMK(127.5, 38.0)
	assert.InDelta(t, 1000000.0, x, 1e-6)
	assert.InDelta(t, 2000000.0, y, 1e-6)
}

func TestProjectUTMK_Offsets(t *testing.T) {
	// One degree east of the central meridian at the origin latitude is
	// roughly 87.8 km of easting.
	x, y := ProjectUTMK(128.5, 38.0)
	assert.InDelta(t, 1087800.0, x, 500)
	assert.Greater(t, y, 2000000.0) // TM grid curvature pulls north off-meridian

	// One degree north along the central meridian is roughly 111 km.
	x, y = ProjectUTMK(127.5, 39.0)
	assert.InDelta(t, 1000000.0, x, 1e-6)
	assert.InDelta(t, 2110960.0, y, 500)
}

func TestProjectUTMK_Monotone(t *testing.T) {
	x1, _ := ProjectUTMK(126.9, 37.5)
	x2, _ := ProjectUTMK(127.0, 37.5)
	assert.Less(t, x1, x2)

	_, y1 := ProjectUTMK(126.9, 37.5)
	_, y2 := ProjectUTMK(126.9, 37.6)
	assert.Less(t, y1, y2)
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 90.0, Distance(10, 0, 100, 0), 1e-9)
	assert.InDelta(t, 5.0, Distance(0, 0, 3, 4), 1e-9)
}

func TestPolygonToMultiPolygon_ExteriorAndHole(t *testing.T) {
	// Exterior ring clockwise, hole counter-clockwise, per shapefile spec.
	points := []shp.Point{
		{X: 0, Y: 0}, {X: 0, Y: 30}, {X: 30, Y: 30}, {X: 30, Y: 0}, {X: 0, Y: 0},
		{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 20}, {X: 10, Y: 20}, {X: 10, Y: 10},
	}
	p := &shp.Polygon{
		NumParts:  2,
		NumPoints: int32(len(points)),
		Parts:     []int32{0, 5},
		Points:    points,
	}

	mp, err := PolygonToMultiPolygon(p)
	require.NoError(t, err)
	assert.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings())
}

func TestPolygonToMultiPolygon_Empty(t *testing.T) {
	_, err := PolygonToMultiPolygon(&shp.Polygon{})
	assert.Error(t, err)
}

func TestCentroid_Square(t *testing.T) {
	mp := squareMP(t, 0, 0, 30)
	x, y, err := Centroid(mp)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, x, 1e-9)
	assert.InDelta(t, 15.0, y, 1e-9)
}

func TestRepresentativePoint_ConcaveShape(t *testing.T) {
	// U-shaped polygon: a 30x30 square with the top-middle column removed.
	// Its centroid lands in the notch (outside); the representative point
	// must stay inside one of the prongs.
	flat := []float64{0, 0, 30, 0, 30, 30, 20, 30, 20, 10, 10, 10, 10, 30, 0, 30, 0, 0}
	poly := geom.NewPolygon(geom.XY)
	require.NoError(t, poly.Push(geom.NewLinearRingFlat(geom.XY, flat)))
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(poly))

	x, y, err := RepresentativePoint(mp)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, x, 1e-9)
	assert.InDelta(t, 15.0, y, 1e-9)
}

func TestRepresentativePoint_SquareMatchesCenterline(t *testing.T) {
	mp := squareMP(t, 100, 200, 50)
	x, y, err := RepresentativePoint(mp)
	require.NoError(t, err)
	assert.InDelta(t, 125.0, x, 1e-9)
	assert.InDelta(t, 225.0, y, 1e-9)
}

func squareMP(t *testing.T, x0, y0, side float64) *geom.MultiPolygon {
	t.Helper()
	flat := []float64{
		x0, y0,
		x0 + side, y0,
		x0 + side, y0 + side,
		x0, y0 + side,
		x0, y0,
	}
	poly := geom.NewPolygon(geom.XY)
	require.NoError(t, poly.Push(geom.NewLinearRingFlat(geom.XY, flat)))
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(poly))
	return mp
}
