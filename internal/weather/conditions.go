package weather

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Neerajpokala/NextWeather/internal/common"
	"github.com/Neerajpokala/NextWeather/internal/nws"
	"github.com/Neerajpokala/NextWeather/internal/series"
)

// DefaultPolicy displays Fahrenheit, mph and percent.
var DefaultPolicy = series.ImperialPolicy()

// MetricPolicy displays the published Celsius and km/h values.
var MetricPolicy = series.MetricPolicy()

// Parameter names a grid parameter and its display label.
type Parameter struct {
	Name  string
	Label string
}

// CurrentParameters are the parameters sampled for current conditions.
var CurrentParameters = []Parameter{
	{Name: "temperature", Label: "Temperature"},
	{Name: "dewpoint", Label: "Dewpoint"},
	{Name: "relativeHumidity", Label: "Humidity"},
	{Name: "windSpeed", Label: "Wind Speed"},
	{Name: "windGust", Label: "Wind Gust"},
	{Name: "apparentTemperature", Label: "Feels Like"},
	{Name: "probabilityOfPrecipitation", Label: "Precipitation Chance"},
	{Name: "skyCover", Label: "Sky Cover"},
}

// SampleParameter samples one numeric grid parameter at the given instant.
func SampleParameter(grid *nws.GridData, name string, at time.Time, policy series.UnitPolicy) (Reading, error) {
	return sampleReading(grid, Parameter{Name: name, Label: name}, at, policy)
}

// CurrentConditions samples CurrentParameters at the given instant.
func CurrentConditions(grid *nws.GridData, at time.Time, policy series.UnitPolicy) ([]Reading, error) {
	if grid == nil {
		return nil, ErrNoGridData
	}
	readings := make([]Reading, 0, len(CurrentParameters))
	for _, p := range CurrentParameters {
		r, err := sampleReading(grid, p, at, policy)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, nil
}

func sampleReading(grid *nws.GridData, p Parameter, at time.Time, policy series.UnitPolicy) (Reading, error) {
	if grid == nil {
		return Reading{}, ErrNoGridData
	}
	s, err := grid.Scalar(p.Name)
	if err != nil {
		return Reading{}, err
	}
	res := series.SampleScalar(s, at, policy)

	r := Reading{Parameter: p.Name, Label: p.Label, Outcome: res.Outcome}
	if res.Outcome == series.NotFound {
		return r, nil
	}
	start, end := res.Start, res.End
	r.ValidFrom, r.ValidTo = &start, &end
	if res.Outcome == series.Found {
		v := round1(res.Number)
		r.Value = &v
		r.Unit = res.Label
	}
	return r, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Text renders "Label: value unit", or a note when nothing was published.
func (r Reading) Text() string {
	switch r.Outcome {
	case series.Found:
		return fmt.Sprintf("%s: %s %s", r.Label, formatNumber(*r.Value), r.Unit)
	case series.MissingValue:
		return r.Label + ": no value published"
	}
	return r.Label + ": not available"
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

// ActiveHazards lists every hazard published in the grid with its interval.
func ActiveHazards(grid *nws.GridData) ([]HazardEntry, error) {
	s, err := grid.Hazards()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	var out []HazardEntry
	for _, o := range s.Observations {
		if o.Value == nil {
			continue
		}
		for _, h := range *o.Value {
			out = append(out, HazardEntry{
				Label:        h.Label(),
				Phenomenon:   h.Phenomenon,
				Significance: h.Significance,
				EventNumber:  h.EventNumber,
				Start:        o.Start,
				End:          o.End(),
			})
		}
	}
	return out, nil
}

// ThunderCategory names a probabilityOfThunder category value.
func ThunderCategory(v float64) string {
	switch int(math.Round(v)) {
	case 0:
		return "None (<15%)"
	case 1:
		return "Slight (15-24%)"
	case 2:
		return "Chance (25-54%)"
	case 3:
		return "Likely (55-74%)"
	case 4:
		return "Definite (≥75%)"
	}
	return "Unknown"
}

// ConditionFor maps an NWS short forecast to a Condition.
func ConditionFor(shortForecast string) Condition {
	s := strings.ToLower(shortForecast)
	switch {
	case s == "":
		return ConditionUnknown
	case common.HasAny(s, "thunder", "storm"):
		return ConditionStorm
	case common.HasAny(s, "snow", "sleet", "blizzard", "flurr", "ice"):
		return ConditionSnow
	case common.HasAny(s, "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAny(s, "fog", "mist", "haze", "smoke"):
		return ConditionMist
	case common.HasAny(s, "cloud", "overcast"):
		return ConditionCloudy
	case common.HasAny(s, "sunny", "clear", "fair"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}
