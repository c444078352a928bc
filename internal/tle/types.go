package tle

import "time"

// Params holds the scalar orbital parameters extracted directly from the
// element-set lines. No propagation is involved; these describe the orbit's
// shape as encoded at epoch.
type Params struct {
	InclinationDeg float64 // angle between orbital plane and equator
	RAANDeg        float64 // right ascension of the ascending node
	Eccentricity   float64 // 0 = circular
	MeanMotion     float64 // revolutions per day
	PeriodMinutes  float64 // 1440 / mean motion
}

// ElementSet is a parsed two-line element set for a single satellite.
// Line1 and Line2 keep their exact column layout: the SGP4 solver parses
// them positionally, so any reformatting would corrupt the data.
// Immutable once created.
type ElementSet struct {
	Name   string
	Line1  string
	Line2  string
	Epoch  time.Time
	Params Params
}

// CacheEntry pairs an element set with the instant it was fetched.
// The store holds at most one entry at a time.
type CacheEntry struct {
	Set       *ElementSet
	FetchedAt time.Time
}
