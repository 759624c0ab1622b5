package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 11, 28, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func hourly(unit string, values ...*float64) *Series[float64] {
	s := &Series[float64]{Name: "temperature", Unit: unit}
	for i, v := range values {
		s.Observations = append(s.Observations, Observation[float64]{
			Start:    base.Add(time.Duration(i) * time.Hour),
			Duration: time.Hour,
			Value:    v,
		})
	}
	return s
}

func TestSample_EmptySeries(t *testing.T) {
	for _, s := range []*Series[float64]{nil, {}, {Unit: "wmoUnit:degC"}} {
		r := SampleScalar(s, base, ImperialPolicy())
		assert.Equal(t, NotFound, r.Outcome)
	}
}

func TestSample_AbsentFromGrid(t *testing.T) {
	grid := map[string]*Series[float64]{"temperature": hourly("wmoUnit:degC", ptr(1.0))}
	r := SampleScalar(grid["windGust"], base, ImperialPolicy())
	assert.Equal(t, NotFound, r.Outcome)
}

func TestSample_LinearConversion(t *testing.T) {
	s := hourly("degC", ptr(0.0))
	r := SampleScalar(s, base.Add(30*time.Minute), UnitPolicy{"degC": {Scale: 9.0 / 5.0, Offset: 32, Label: "°F"}})

	require.Equal(t, Found, r.Outcome)
	assert.True(t, r.Numeric)
	assert.Equal(t, 32.0, r.Number)
	assert.Equal(t, "°F", r.Label)
	assert.Equal(t, 0.0, r.Value)
}

func TestSample_WMOPrefixedUnit(t *testing.T) {
	tests := []struct {
		name  string
		unit  string
		in    float64
		want  float64
		label string
	}{
		{name: "celsius", unit: "wmoUnit:degC", in: 20, want: 68, label: "°F"},
		{name: "km/h", unit: "wmoUnit:km_h-1", in: 10, want: 6.21371, label: "mph"},
		{name: "percent", unit: "wmoUnit:percent", in: 55, want: 55, label: "%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SampleScalar(hourly(tt.unit, ptr(tt.in)), base, ImperialPolicy())
			require.Equal(t, Found, r.Outcome)
			assert.InDelta(t, tt.want, r.Number, 1e-9)
			assert.Equal(t, tt.label, r.Label)
		})
	}
}

func TestSample_BoundaryBelongsToLaterInterval(t *testing.T) {
	s := hourly("unknown_unit", ptr(1.0), ptr(2.0))

	r := SampleScalar(s, base.Add(time.Hour), UnitPolicy{})
	require.Equal(t, Found, r.Outcome)
	assert.Equal(t, 2.0, r.Number)
	assert.Equal(t, base.Add(time.Hour), r.Start)
	assert.Equal(t, base.Add(2*time.Hour), r.End)

	r = SampleScalar(s, base.Add(time.Hour-time.Nanosecond), UnitPolicy{})
	require.Equal(t, Found, r.Outcome)
	assert.Equal(t, 1.0, r.Number)

	r = SampleScalar(s, base.Add(2*time.Hour), UnitPolicy{})
	assert.Equal(t, NotFound, r.Outcome)

	r = SampleScalar(s, base.Add(-time.Nanosecond), UnitPolicy{})
	assert.Equal(t, NotFound, r.Outcome)
}

func TestSample_OverlapFirstWins(t *testing.T) {
	s := &Series[float64]{
		Unit: "degC",
		Observations: []Observation[float64]{
			{Start: base, Duration: 6 * time.Hour, Value: ptr(10.0)},
			{Start: base.Add(time.Hour), Duration: time.Hour, Value: ptr(20.0)},
		},
	}
	r := SampleScalar(s, base.Add(90*time.Minute), UnitPolicy{})
	require.Equal(t, Found, r.Outcome)
	assert.Equal(t, 10.0, r.Value)
}

func TestSample_MissingValue(t *testing.T) {
	s := hourly("wmoUnit:degC", ptr(5.0), nil)

	r := SampleScalar(s, base.Add(time.Hour), ImperialPolicy())
	assert.Equal(t, MissingValue, r.Outcome)
	assert.False(t, r.Numeric)
	assert.Equal(t, base.Add(time.Hour), r.Start)

	// A null in a gap-free series is distinct from running off the end.
	r = SampleScalar(s, base.Add(3*time.Hour), ImperialPolicy())
	assert.Equal(t, NotFound, r.Outcome)
}

func TestSample_UnknownUnitPassthrough(t *testing.T) {
	r := SampleScalar(hourly("unknown_unit", ptr(50.0)), base, UnitPolicy{})
	require.Equal(t, Found, r.Outcome)
	assert.Equal(t, 50.0, r.Number)
	assert.Equal(t, "unknown_unit", r.Label)
}

type probability struct {
	UnitCode string   `json:"unitCode"`
	Value    *float64 `json:"value"`
}

func TestSample_CompositeValue(t *testing.T) {
	s := &Series[probability]{
		Unit: "wmoUnit:degC",
		Observations: []Observation[probability]{
			{Start: base, Duration: time.Hour, Value: &probability{UnitCode: "wmoUnit:percent", Value: ptr(40.0)}},
		},
	}

	t.Run("without accessor nothing is converted", func(t *testing.T) {
		r := Sample(s, base, ImperialPolicy(), nil)
		require.Equal(t, Found, r.Outcome)
		assert.False(t, r.Numeric)
		assert.Equal(t, "wmoUnit:degC", r.Label)
		assert.Equal(t, 40.0, *r.Value.Value)
	})

	t.Run("accessor reporting non-numeric", func(t *testing.T) {
		r := Sample(s, base, ImperialPolicy(), func(probability) (float64, bool) { return 0, false })
		require.Equal(t, Found, r.Outcome)
		assert.False(t, r.Numeric)
		assert.Equal(t, "wmoUnit:degC", r.Label)
	})

	t.Run("accessor extracts nested field", func(t *testing.T) {
		r := Sample(s, base, ImperialPolicy(), func(p probability) (float64, bool) {
			if p.Value == nil {
				return 0, false
			}
			return *p.Value, true
		})
		require.Equal(t, Found, r.Outcome)
		assert.True(t, r.Numeric)
		assert.InDelta(t, 104.0, r.Number, 1e-9)
		assert.Equal(t, "°F", r.Label)
	})
}

func TestSample_MatchContainsInstant(t *testing.T) {
	s := hourly("degC", ptr(1.0), nil, ptr(3.0), ptr(4.0))
	for m := -30; m < 5*60; m += 7 {
		at := base.Add(time.Duration(m) * time.Minute)
		r := SampleScalar(s, at, UnitPolicy{})
		if r.Outcome == NotFound {
			for _, o := range s.Observations {
				assert.False(t, o.Contains(at), "instant %s is covered but reported not found", at)
			}
			continue
		}
		assert.False(t, at.Before(r.Start), "instant %s before matched start %s", at, r.Start)
		assert.True(t, at.Before(r.End), "instant %s not before matched end %s", at, r.End)
	}
}

func TestOutcome_Text(t *testing.T) {
	for _, o := range []Outcome{NotFound, Found, MissingValue} {
		b, err := o.MarshalText()
		require.NoError(t, err)
		var got Outcome
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, o, got)
	}
	var o Outcome
	assert.Error(t, o.UnmarshalText([]byte("maybe")))
}
