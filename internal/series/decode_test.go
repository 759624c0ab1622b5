package series

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidTime(t *testing.T) {
	start, d, err := ParseValidTime("2025-11-28T14:00:00+00:00/PT1H")
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2025, 11, 28, 14, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Hour, d)

	_, d, err = ParseValidTime("2025-11-28T14:00:00-06:00/PT6H")
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, d)
}

func TestParseValidTime_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"2025-11-28T14:00:00+00:00",
		"yesterday/PT1H",
		"2025-11-28T14:00:00+00:00/one hour",
	} {
		_, _, err := ParseValidTime(in)
		assert.Error(t, err, in)
	}
}

func TestDecode_Scalar(t *testing.T) {
	raw := []byte(`{
		"uom": "wmoUnit:degC",
		"values": [
			{"validTime": "2025-11-28T14:00:00+00:00/PT1H", "value": 3.3},
			{"validTime": "2025-11-28T15:00:00+00:00/PT2H", "value": null},
			{"validTime": "2025-11-28T17:00:00+00:00/PT1H"}
		]
	}`)

	s, err := Decode[float64]("temperature", raw)
	require.NoError(t, err)
	assert.Equal(t, "temperature", s.Name)
	assert.Equal(t, "wmoUnit:degC", s.Unit)
	require.Equal(t, 3, s.Len())
	require.NotNil(t, s.Observations[0].Value)
	assert.Equal(t, 3.3, *s.Observations[0].Value)
	assert.Nil(t, s.Observations[1].Value)
	assert.Equal(t, 2*time.Hour, s.Observations[1].Duration)
	assert.Nil(t, s.Observations[2].Value)

	r := SampleScalar(s, time.Date(2025, 11, 28, 16, 0, 0, 0, time.UTC), ImperialPolicy())
	assert.Equal(t, MissingValue, r.Outcome)
}

type hazard struct {
	Phenomenon   string `json:"phenomenon"`
	Significance string `json:"significance"`
}

func TestDecode_Composite(t *testing.T) {
	raw := []byte(`{"values":[{"validTime":"2025-11-28T14:00:00+00:00/PT12H","value":[{"phenomenon":"WS","significance":"A"}]}]}`)
	s, err := Decode[[]hazard]("hazards", raw)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	require.NotNil(t, s.Observations[0].Value)
	assert.Equal(t, []hazard{{Phenomenon: "WS", Significance: "A"}}, *s.Observations[0].Value)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode[float64]("temperature", []byte(`{"uom":"wmoUnit:degC","values":[{"value":1}]}`))
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = Decode[float64]("temperature", []byte(`{"values":[{"validTime":"2025-11-28T14:00:00+00:00/PT1H","value":"warm"}]}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode[float64]("temperature", []byte(`[`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode[float64]("updateTime", []byte(`"2025-11-28T06:31:48+00:00"`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFormatValidTime(t *testing.T) {
	for _, in := range []string{
		"2025-11-28T14:00:00+00:00/PT1H",
		"2025-11-28T06:00:00+00:00/P7DT19H",
		"2025-11-28T15:00:00+00:00/PT2H30M",
	} {
		start, d, err := ParseValidTime(in)
		require.NoError(t, err)
		out := FormatValidTime(start, d)

		start2, d2, err := ParseValidTime(out)
		require.NoError(t, err, out)
		assert.True(t, start.Equal(start2), out)
		assert.Equal(t, d, d2, out)
	}

	start := time.Date(2025, 11, 28, 8, 0, 0, 0, time.FixedZone("CST", -6*3600))
	assert.Equal(t, "2025-11-28T14:00:00+00:00/PT1H", FormatValidTime(start, time.Hour))
	assert.Equal(t, "2025-11-28T14:00:00+00:00/PT0S", FormatValidTime(start, 0))
}

func TestUnitPolicy_Lookup(t *testing.T) {
	p := ImperialPolicy()

	_, ok := p.Lookup("wmoUnit:degC")
	assert.True(t, ok)
	_, ok = p.Lookup("degC")
	assert.True(t, ok)
	_, ok = p.Lookup("wmoUnit:")
	assert.False(t, ok)
	_, ok = p.Lookup("wmoUnit:m")
	assert.False(t, ok)

	v, label := MetricPolicy().Convert("wmoUnit:km_h-1", 12)
	assert.Equal(t, 12.0, v)
	assert.Equal(t, "km/h", label)
}
