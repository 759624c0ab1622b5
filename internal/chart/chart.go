// Package chart renders forecast data as PNG line charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/Neerajpokala/NextWeather/internal/nws"
	"github.com/Neerajpokala/NextWeather/internal/series"
)

// ErrNotEnoughData is returned when fewer than two points can be plotted.
var ErrNotEnoughData = errors.New("not enough data to chart")

const (
	width  = 1024
	height = 480
)

// Point is one plotted sample.
type Point struct {
	Time  time.Time
	Value float64
}

// Points converts a numeric series to display units, one point per
// interval start. Missing values are skipped.
func Points(s *series.Series[float64], policy series.UnitPolicy) ([]Point, string) {
	if s == nil {
		return nil, ""
	}
	label := s.Unit
	points := make([]Point, 0, s.Len())
	for _, o := range s.Observations {
		if o.Value == nil {
			continue
		}
		var v float64
		v, label = policy.Convert(s.Unit, *o.Value)
		points = append(points, Point{Time: o.Start, Value: v})
	}
	return points, label
}

// Series renders a single parameter over time.
func Series(w io.Writer, title string, points []Point) error {
	if len(points) < 2 {
		return ErrNotEnoughData
	}
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.Time, p.Value
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2 15:04"),
		},
		YAxis: chart.YAxis{
			Range: paddedRange(ys),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    title,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", title, err)
	}
	return nil
}

// Hourly renders temperature and wind speed on the primary axis and the
// precipitation chance on a 0-100 secondary axis for the first hours
// periods.
func Hourly(w io.Writer, periods []nws.Period, hours int) error {
	if hours > 0 && hours < len(periods) {
		periods = periods[:hours]
	}
	if len(periods) < 2 {
		return ErrNotEnoughData
	}

	var (
		xs    = make([]time.Time, len(periods))
		temps = make([]float64, len(periods))
		winds = make([]float64, len(periods))
		pops  = make([]float64, len(periods))
	)
	for i, p := range periods {
		xs[i] = p.StartTime
		temps[i] = p.Temperature
		winds[i] = WindSpeed(p.WindSpeed)
		if v, ok := p.ProbabilityOfPrecipitation.Number(); ok {
			pops[i] = v
		}
	}

	unit := "F"
	if periods[0].TemperatureUnit != "" {
		unit = periods[0].TemperatureUnit
	}

	graph := chart.Chart{
		Title:  "Hourly forecast",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2 15:04"),
		},
		YAxis: chart.YAxis{
			Name:  "°" + unit + " / mph",
			Range: paddedRange(append(append([]float64{}, temps...), winds...)),
		},
		YAxisSecondary: chart.YAxis{
			Name:  "%",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Temperature (°" + unit + ")",
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
				XValues: xs,
				YValues: temps,
			},
			chart.TimeSeries{
				Name:    "Wind (mph)",
				Style:   chart.Style{StrokeColor: chart.ColorAlternateGray, StrokeWidth: 2},
				XValues: xs,
				YValues: winds,
			},
			chart.TimeSeries{
				Name:    "Precipitation chance (%)",
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1},
				YAxis:   chart.YAxisSecondary,
				XValues: xs,
				YValues: pops,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render hourly: %w", err)
	}
	return nil
}

var windRe = regexp.MustCompile(`\d+(\.\d+)?`)

// WindSpeed parses NWS wind strings such as "10 mph" or "5 to 10 mph",
// returning the largest number. Unparseable strings yield 0.
func WindSpeed(s string) float64 {
	var top float64
	for _, m := range windRe.FindAllString(s, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil && v > top {
			top = v
		}
	}
	return top
}

// paddedRange returns a range around vals that is never empty.
func paddedRange(vals []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	r := &chart.ContinuousRange{Min: math.Floor(lo - pad), Max: math.Ceil(hi + pad)}
	if r.Min == 0 && r.Max == 0 {
		r.Max = 1
	}
	return r
}
