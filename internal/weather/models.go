package weather

import (
	"time"

	"github.com/Neerajpokala/NextWeather/internal/nws"
	"github.com/Neerajpokala/NextWeather/internal/series"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// LocationQuery selects a location either by coordinates or by free text.
type LocationQuery struct {
	Lat      *float64
	Lon      *float64
	Location string
}

// Bundle is everything fetched for one location.
type Bundle struct {
	Place     string        `json:"place"`
	Lat       float64       `json:"lat"`
	Lon       float64       `json:"lon"`
	Point     *nws.Point    `json:"point"`
	Daily     *nws.Forecast `json:"daily,omitempty"`
	Hourly    *nws.Forecast `json:"hourly,omitempty"`
	Grid      *nws.GridData `json:"grid,omitempty"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

// Complete reports whether every forecast product was fetched.
func (b *Bundle) Complete() bool {
	return b.Daily != nil && b.Hourly != nil && b.Grid != nil
}

// Reading is one sampled grid parameter.
type Reading struct {
	Parameter string         `json:"parameter"`
	Label     string         `json:"label"`
	Outcome   series.Outcome `json:"outcome"`
	Value     *float64       `json:"value,omitempty"`
	Unit      string         `json:"unit,omitempty"`
	ValidFrom *time.Time     `json:"validFrom,omitempty"`
	ValidTo   *time.Time     `json:"validTo,omitempty"`
}

// HazardEntry is one hazard published in the grid, with its interval.
type HazardEntry struct {
	Label        string    `json:"label"`
	Phenomenon   string    `json:"phenomenon"`
	Significance string    `json:"significance"`
	EventNumber  *int      `json:"eventNumber,omitempty"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// DayOutlook pairs a daytime and a nighttime forecast period.
type DayOutlook struct {
	Name          string    `json:"name"`
	Date          string    `json:"date"`
	High          *float64  `json:"high,omitempty"`
	Low           *float64  `json:"low,omitempty"`
	Unit          string    `json:"unit"`
	PrecipChance  *float64  `json:"precipChance,omitempty"`
	ShortForecast string    `json:"shortForecast"`
	Condition     Condition `json:"condition"`
}

// AlertSummary counts alerts per category.
type AlertSummary struct {
	Total     int            `json:"total"`
	Severity  map[string]int `json:"severity"`
	Urgency   map[string]int `json:"urgency"`
	Certainty map[string]int `json:"certainty"`
	EventType map[string]int `json:"eventType"`
}
