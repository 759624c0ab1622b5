// Package series models the interval-stamped time series published by the
// NWS gridpoint product and picks the value that is valid at a given instant.
package series

import "time"

// Observation is one entry of a series. Value is nil when the upstream
// published null for the interval.
type Observation[T any] struct {
	Start    time.Time
	Duration time.Duration
	Value    *T
}

// End returns Start + Duration.
func (o Observation[T]) End() time.Time {
	return o.Start.Add(o.Duration)
}

// Contains reports whether t falls in the half-open interval [Start, End).
func (o Observation[T]) Contains(t time.Time) bool {
	return !t.Before(o.Start) && t.Before(o.End())
}

// Series is the ordered list of observations for one named parameter, with
// the unit of measure shared by every entry.
//
// Upstream ordering is by Start but gaps and overlaps are possible. A Series
// is not modified after it is built.
type Series[T any] struct {
	Name         string
	Unit         string
	Observations []Observation[T]
}

// Len returns the number of observations; a nil series has none.
func (s *Series[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Observations)
}
