package weather

import (
	"fmt"
	"strings"
	"time"

	"github.com/Neerajpokala/NextWeather/internal/nws"
	"github.com/Neerajpokala/NextWeather/internal/series"
)

// SummaryPeriods is the number of forecast periods in the context summary.
const SummaryPeriods = 3

// ForecastSummary lists the first n periods as "- Name: detailed forecast".
func ForecastSummary(f *nws.Forecast, n int) string {
	if f == nil || len(f.Periods) == 0 {
		return "No forecast data available."
	}
	if n <= 0 || n > len(f.Periods) {
		n = len(f.Periods)
	}
	var b strings.Builder
	b.WriteString("FORECAST SUMMARY:")
	for _, p := range f.Periods[:n] {
		text := p.DetailedForecast
		if text == "" {
			text = p.ShortForecast
		}
		fmt.Fprintf(&b, "\n- %s: %s", p.Name, text)
	}
	return b.String()
}

// ConditionsText renders the found readings as a "CURRENT CONDITIONS" block.
func ConditionsText(readings []Reading) string {
	var lines []string
	for _, r := range readings {
		if r.Outcome == series.Found {
			lines = append(lines, "- "+r.Text())
		}
	}
	if len(lines) == 0 {
		return "Current conditions unavailable."
	}
	return "CURRENT CONDITIONS:\n" + strings.Join(lines, "\n")
}

// HazardsText renders hazards as an "ACTIVE HAZARDS" block.
func HazardsText(hazards []HazardEntry) string {
	if len(hazards) == 0 {
		return "ACTIVE HAZARDS: None"
	}
	lines := make([]string, 0, len(hazards))
	for _, h := range hazards {
		lines = append(lines, fmt.Sprintf("- %s until %s", h.Label, h.End.UTC().Format(time.RFC3339)))
	}
	return "ACTIVE HAZARDS:\n" + strings.Join(lines, "\n")
}

// ContextText is the plain-text data context handed to the assistant.
func ContextText(b *Bundle, at time.Time) string {
	if b == nil {
		return "No weather data available."
	}
	var blocks []string
	if b.Place != "" {
		blocks = append(blocks, "LOCATION: "+b.Place)
	}

	if b.Grid == nil {
		blocks = append(blocks, "No grid data available.")
	} else if readings, err := CurrentConditions(b.Grid, at, DefaultPolicy); err != nil {
		blocks = append(blocks, "Current conditions unavailable.")
	} else {
		blocks = append(blocks, ConditionsText(readings))
	}

	blocks = append(blocks, ForecastSummary(b.Daily, SummaryPeriods))

	if b.Grid == nil {
		blocks = append(blocks, "No hazard data available.")
	} else if hazards, err := ActiveHazards(b.Grid); err != nil {
		blocks = append(blocks, "No hazard data available.")
	} else {
		blocks = append(blocks, HazardsText(hazards))
	}
	return strings.Join(blocks, "\n\n")
}
