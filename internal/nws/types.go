package nws

import (
	"encoding/json"
	"time"
)

// Point is the /points/{lat},{lon} metadata for a location.
type Point struct {
	GridID              string `json:"gridId"`
	GridX               int    `json:"gridX"`
	GridY               int    `json:"gridY"`
	Forecast            string `json:"forecast"`
	ForecastHourly      string `json:"forecastHourly"`
	ForecastGridData    string `json:"forecastGridData"`
	ObservationStations string `json:"observationStations"`
	TimeZone            string `json:"timeZone"`
	RelativeLocation    struct {
		Properties struct {
			City  string `json:"city"`
			State string `json:"state"`
		} `json:"properties"`
	} `json:"relativeLocation"`
}

// Place returns "City, ST" from the relative location, or "".
func (p Point) Place() string {
	rl := p.RelativeLocation.Properties
	switch {
	case rl.City != "" && rl.State != "":
		return rl.City + ", " + rl.State
	case rl.City != "":
		return rl.City
	}
	return rl.State
}

// Quantity is the {unitCode, value} pair NWS uses for measured values.
type Quantity struct {
	UnitCode string   `json:"unitCode"`
	Value    *float64 `json:"value"`
}

// Number is a series.Accessor for composite Quantity values.
func (q Quantity) Number() (float64, bool) {
	if q.Value == nil {
		return 0, false
	}
	return *q.Value, true
}

// Period is one entry of a daily or hourly forecast.
type Period struct {
	Number                     int       `json:"number"`
	Name                       string    `json:"name"`
	StartTime                  time.Time `json:"startTime"`
	EndTime                    time.Time `json:"endTime"`
	IsDaytime                  bool      `json:"isDaytime"`
	Temperature                float64   `json:"temperature"`
	TemperatureUnit            string    `json:"temperatureUnit"`
	ProbabilityOfPrecipitation Quantity  `json:"probabilityOfPrecipitation"`
	Dewpoint                   Quantity  `json:"dewpoint"`
	RelativeHumidity           Quantity  `json:"relativeHumidity"`
	WindSpeed                  string    `json:"windSpeed"`
	WindDirection              string    `json:"windDirection"`
	Icon                       string    `json:"icon"`
	ShortForecast              string    `json:"shortForecast"`
	DetailedForecast           string    `json:"detailedForecast"`
}

// Forecast is a gridpoint forecast (daily or hourly).
type Forecast struct {
	Units       string    `json:"units"`
	GeneratedAt time.Time `json:"generatedAt"`
	UpdateTime  time.Time `json:"updateTime"`
	ValidTimes  string    `json:"validTimes"`
	Periods     []Period  `json:"periods"`
}

// Hazard is one element of a "hazards" grid value.
type Hazard struct {
	Phenomenon   string `json:"phenomenon"`
	Significance string `json:"significance"`
	EventNumber  *int   `json:"event_number"`
}

// Label renders "phenomenon (significance)".
func (h Hazard) Label() string {
	p := h.Phenomenon
	if p == "" {
		p = "Unknown"
	}
	return p + " (" + h.Significance + ")"
}

// Alert holds the properties of an alert feature.
type Alert struct {
	ID          string    `json:"id"`
	AreaDesc    string    `json:"areaDesc"`
	Sent        time.Time `json:"sent"`
	Effective   time.Time `json:"effective"`
	Onset       time.Time `json:"onset"`
	Expires     time.Time `json:"expires"`
	Ends        time.Time `json:"ends"`
	Status      string    `json:"status"`
	MessageType string    `json:"messageType"`
	Category    string    `json:"category"`
	Severity    string    `json:"severity"`
	Certainty   string    `json:"certainty"`
	Urgency     string    `json:"urgency"`
	Event       string    `json:"event"`
	SenderName  string    `json:"senderName"`
	Headline    string    `json:"headline"`
	Description string    `json:"description"`
	Instruction string    `json:"instruction"`
	Response    string    `json:"response"`
}

// AlertCount is the /alerts/active/count payload.
type AlertCount struct {
	Total   int            `json:"total"`
	Land    int            `json:"land"`
	Marine  int            `json:"marine"`
	Regions map[string]int `json:"regions"`
	Areas   map[string]int `json:"areas"`
	Zones   map[string]int `json:"zones"`
}

type pointResponse struct {
	Properties Point `json:"properties"`
}

type forecastResponse struct {
	Properties Forecast `json:"properties"`
}

type gridResponse struct {
	Properties map[string]json.RawMessage `json:"properties"`
}

type alertsResponse struct {
	Features []struct {
		Properties Alert `json:"properties"`
	} `json:"features"`
}
