package series

import (
	"fmt"
	"time"
)

// Outcome classifies a Sample result.
type Outcome int

const (
	// NotFound: empty or absent series, or no interval contains the instant.
	NotFound Outcome = iota
	// Found: an interval contains the instant and carries a value.
	Found
	// MissingValue: an interval contains the instant but its value is null.
	MissingValue
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case MissingValue:
		return "missing_value"
	default:
		return "not_found"
	}
}

// MarshalText renders the outcome as its string form in JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses the string form produced by MarshalText.
func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "found":
		*o = Found
	case "missing_value":
		*o = MissingValue
	case "not_found":
		*o = NotFound
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

// Accessor extracts the numeric part of a value. It reports false when the
// value has nothing to convert.
type Accessor[T any] func(T) (float64, bool)

// Scalar is the Accessor for plain numeric series.
func Scalar(v float64) (float64, bool) {
	return v, true
}

// Result is what Sample returns.
//
// Value is the matched value exactly as published. When the accessor yields a
// number, Numeric is set and Number holds it converted under the policy.
// Label is the display unit: the policy label after a conversion, the series
// unit tag otherwise. Start and End describe the matched interval and are set
// for Found and MissingValue.
type Result[T any] struct {
	Outcome Outcome
	Value   T
	Number  float64
	Numeric bool
	Label   string
	Start   time.Time
	End     time.Time
}

// Sample returns the first observation of s, in sequence order, whose
// interval [start, start+duration) contains at.
//
// A nil series is treated like an absent parameter, so Sample(grid[name], ...)
// yields NotFound for names missing from grid. num may be nil, in which case
// the value is passed through unconverted. Sample never reads the clock and
// touches nothing but its arguments.
func Sample[T any](s *Series[T], at time.Time, policy UnitPolicy, num Accessor[T]) Result[T] {
	if s == nil {
		return Result[T]{Outcome: NotFound}
	}
	for _, o := range s.Observations {
		if !o.Contains(at) {
			continue
		}
		r := Result[T]{Start: o.Start, End: o.End()}
		if o.Value == nil {
			r.Outcome = MissingValue
			return r
		}
		r.Outcome = Found
		r.Value = *o.Value
		r.Label = s.Unit
		if num == nil {
			return r
		}
		n, ok := num(*o.Value)
		if !ok {
			return r
		}
		r.Numeric = true
		r.Number, r.Label = policy.Convert(s.Unit, n)
		return r
	}
	return Result[T]{Outcome: NotFound}
}

// SampleScalar is Sample for numeric series.
func SampleScalar(s *Series[float64], at time.Time, policy UnitPolicy) Result[float64] {
	return Sample(s, at, policy, Scalar)
}
