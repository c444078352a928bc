package transform

import "math"

// WGS-84 ellipsoid parameters (km).
const (
	wgs84A  = 6378.137              // semi-major axis
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// Geodetic holds a position relative to the WGS-84 reference ellipsoid.
// Longitude is in [-180, 180] as produced by atan2.
type Geodetic struct {
	LatDeg, LonDeg, AltKm float64
}

// ECEFToGeodetic converts an Earth-fixed position (km) to geodetic
// latitude/longitude/altitude using Bowring's iterative method. The iteration
// count is fixed at 5: for Earth orbits that is centimetre-level, and a fixed
// count keeps the function branch-free and trivially bounded.
//
// Near the poles |cos lat| vanishes, so the altitude falls back to the
// Z component against the polar radius instead of dividing by cos lat.
func ECEFToGeodetic(r Vec3) Geodetic {
	lon := math.Atan2(r.Y, r.X)

	// Distance from the rotation axis.
	p := math.Sqrt(r.X*r.X + r.Y*r.Y)

	// Initial estimate, then Bowring refinement. N is the radius of
	// curvature in the prime vertical at the current latitude estimate.
	lat := math.Atan2(r.Z, p*(1-wgs84E2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(r.Z+wgs84E2*N*sinLat, p)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = p/cosLat - N
	} else {
		b := wgs84A * (1 - wgs84F)
		alt = math.Abs(r.Z)/math.Abs(sinLat) - b*b/wgs84A
	}

	return Geodetic{
		LatDeg: lat * 180.0 / math.Pi,
		LonDeg: lon * 180.0 / math.Pi,
		AltKm:  alt,
	}
}

// GeodeticToECEF is the forward mapping, used to cross-check the iterative
// inverse. Inputs in degrees and km.
func GeodeticToECEF(g Geodetic) Vec3 {
	lat := g.LatDeg * math.Pi / 180.0
	lon := g.LonDeg * math.Pi / 180.0

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return Vec3{
		X: (N + g.AltKm) * cosLat * math.Cos(lon),
		Y: (N + g.AltKm) * cosLat * math.Sin(lon),
		Z: (N*(1-wgs84E2) + g.AltKm) * sinLat,
	}
}
