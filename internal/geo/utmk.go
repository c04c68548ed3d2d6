// Package geo holds the projection and polygon-reduction primitives used by
// the region-center resolver and the station loader.
package geo

import "math"

// UTM-K (EPSG:5179) parameters on the GRS80 ellipsoid. Region centers and all
// station distances are expressed in this projected CRS, in meters.
const (
	grs80A = 6378137.0
	grs80F = 1.0 / 298.257222101

	utmkLat0    = 38.0
	utmkLon0    = 127.5
	utmkScale   = 0.9996
	utmkFalseE  = 1000000.0
	utmkFalseN  = 2000000.0
	degToRadian = math.Pi / 180.0
)

// ProjectUTMK converts a WGS84/GRS80 longitude/latitude in degrees to UTM-K
// easting/northing in meters using the ellipsoidal Transverse Mercator
// forward equations (Snyder 8-9..8-13).
func ProjectUTMK(lon, lat float64) (x, y float64) {
	e2 := grs80F * (2 - grs80F)
	ep2 := e2 / (1 - e2)

	phi := lat * degToRadian
	lam := lon * degToRadian
	lam0 := utmkLon0 * degToRadian
	phi0 := utmkLat0 * degToRadian

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := grs80A / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := (lam - lam0) * cosPhi

	m := meridionalArc(phi, e2)
	m0 := meridionalArc(phi0, e2)

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	x = utmkFalseE + utmkScale*n*(a+
		(1-t+c)*a3/6+
		(5-18*t+t*t+72*c-58*ep2)*a5/120)

	y = utmkFalseN + utmkScale*(m-m0+n*tanPhi*(a2/2+
		(5-t+9*c+4*c*c)*a4/24+
		(61-58*t+t*t+600*c-330*ep2)*a6/720))

	return x, y
}

// meridionalArc returns the distance along the meridian from the equator to
// latitude phi (Snyder 3-21).
func meridionalArc(phi, e2 float64) float64 {
	e4 := e2 * e2
	e6 := e4 * e2
	return grs80A * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

// Distance returns the Euclidean distance in meters between two projected
// points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}
