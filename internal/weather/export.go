package weather

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Neerajpokala/NextWeather/internal/nws"
	"github.com/Neerajpokala/NextWeather/internal/series"
)

// ExportParameters are the grid parameters written by WriteGridCSV.
var ExportParameters = []string{
	"temperature", "dewpoint", "relativeHumidity", "windSpeed", "windGust",
	"skyCover", "probabilityOfPrecipitation", "probabilityOfThunder",
}

// WriteGridCSV writes one row per observation of ExportParameters. The
// validTime column uses the NWS "<start>/<ISO-8601 period>" form and values
// are written as published, in the series unit; missing values are empty.
func WriteGridCSV(w io.Writer, grid *nws.GridData) error {
	if grid == nil {
		return ErrNoGridData
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"metric", "validTime", "value", "unit"}); err != nil {
		return err
	}
	for _, name := range ExportParameters {
		s, err := grid.Scalar(name)
		if err != nil {
			return err
		}
		if s == nil {
			continue
		}
		for _, o := range s.Observations {
			value := ""
			if o.Value != nil {
				value = strconv.FormatFloat(*o.Value, 'f', -1, 64)
			}
			row := []string{name, series.FormatValidTime(o.Start, o.Duration), value, s.Unit}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePeriodsCSV writes forecast periods, one per row.
func WritePeriodsCSV(w io.Writer, f *nws.Forecast) error {
	if f == nil {
		return ErrNoForecast
	}
	cw := csv.NewWriter(w)
	header := []string{
		"number", "name", "startTime", "endTime", "isDaytime", "temperature",
		"temperatureUnit", "precipitationChance", "windSpeed", "windDirection", "shortForecast",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range f.Periods {
		pop := ""
		if v, ok := p.ProbabilityOfPrecipitation.Number(); ok {
			pop = strconv.FormatFloat(v, 'f', -1, 64)
		}
		row := []string{
			strconv.Itoa(p.Number),
			p.Name,
			p.StartTime.Format(time.RFC3339),
			p.EndTime.Format(time.RFC3339),
			strconv.FormatBool(p.IsDaytime),
			strconv.FormatFloat(p.Temperature, 'f', -1, 64),
			p.TemperatureUnit,
			pop,
			p.WindSpeed,
			p.WindDirection,
			p.ShortForecast,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write period %d: %w", p.Number, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
