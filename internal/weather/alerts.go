package weather

import "github.com/Neerajpokala/NextWeather/internal/nws"

const unknown = "Unknown"

var (
	severityBuckets  = []string{"Extreme", "Severe", "Moderate", "Minor", unknown}
	urgencyBuckets   = []string{"Immediate", "Expected", "Future", "Past", unknown}
	certaintyBuckets = []string{"Observed", "Likely", "Possible", "Unlikely", unknown}
)

// SeverityRank orders severities from most to least severe.
func SeverityRank(severity string) int {
	for i, s := range severityBuckets {
		if s == severity {
			return i
		}
	}
	return len(severityBuckets) - 1
}

// CategorizeAlerts counts alerts by severity, urgency, certainty and event.
// Values outside the fixed buckets count as Unknown.
func CategorizeAlerts(alerts []nws.Alert) AlertSummary {
	sum := AlertSummary{
		Total:     len(alerts),
		Severity:  buckets(severityBuckets),
		Urgency:   buckets(urgencyBuckets),
		Certainty: buckets(certaintyBuckets),
		EventType: make(map[string]int),
	}
	for _, a := range alerts {
		bump(sum.Severity, a.Severity)
		bump(sum.Urgency, a.Urgency)
		bump(sum.Certainty, a.Certainty)

		event := a.Event
		if event == "" {
			event = unknown
		}
		sum.EventType[event]++
	}
	return sum
}

func buckets(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for _, n := range names {
		m[n] = 0
	}
	return m
}

func bump(m map[string]int, v string) {
	if _, ok := m[v]; ok {
		m[v]++
		return
	}
	m[unknown]++
}
