// Package transform provides the coordinate pipeline between the frames a
// satellite tracker cares about: the inertial frame SGP4 propagates in, the
// Earth-fixed frame ground positions live in, and geodetic coordinates on the
// WGS-84 ellipsoid.
//
// The inertial to Earth-fixed rotation uses GMST only. Polar motion, nutation,
// and UT1-UTC are ignored, which keeps the conversion within ~1 km. That is
// fine for tracking and visualization, not for precision geodesy.
//
// All positions are kilometres and all velocities km/s unless a name says
// otherwise. Angles returned to callers are degrees except GMST, which is
// primarily radians.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Ch. 3.
package transform

import "math"

// Vec3 is a 3-component vector in km (position) or km/s (velocity).
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the Euclidean magnitude of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// ECIToECEF rotates an inertial position into the Earth-fixed frame by the
// sidereal angle gmst (radians). The rotation is about the polar axis, so Z
// is unchanged:
//
//	[x_ecef]   [ cos θ   sin θ   0 ] [x_eci]
//	[y_ecef] = [-sin θ   cos θ   0 ] [y_eci]
//	[z_ecef]   [  0       0      1 ] [z_eci]
func ECIToECEF(r Vec3, gmst float64) Vec3 {
	cosG := math.Cos(gmst)
	sinG := math.Sin(gmst)

	return Vec3{
		X: r.X*cosG + r.Y*sinG,
		Y: -r.X*sinG + r.Y*cosG,
		Z: r.Z,
	}
}

// ECEFToECI is the inverse rotation of ECIToECEF for the same sidereal angle.
func ECEFToECI(r Vec3, gmst float64) Vec3 {
	return ECIToECEF(r, -gmst)
}

// Speed returns the magnitude of an inertial velocity vector in km/s.
func Speed(v Vec3) float64 {
	return v.Norm()
}

// ValidatePosition checks that a position is physically reasonable for an
// Earth-orbiting object: finite, and with a magnitude between just below LEO
// and well past GEO.
func ValidatePosition(r Vec3) bool {
	if math.IsNaN(r.X) || math.IsNaN(r.Y) || math.IsNaN(r.Z) {
		return false
	}
	if math.IsInf(r.X, 0) || math.IsInf(r.Y, 0) || math.IsInf(r.Z, 0) {
		return false
	}

	const (
		minRadiusKm = 6200.0
		maxRadiusKm = 50000.0
	)
	mag := r.Norm()
	return mag >= minRadiusKm && mag <= maxRadiusKm
}
