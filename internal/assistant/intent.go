package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// IntentKind is what a user message asks for.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentDailyForecast
	IntentCurrentConditions
)

// Intent is a detected request. Days is set for "N day forecast".
type Intent struct {
	Kind IntentKind
	Days int
}

var daysRe = regexp.MustCompile(`(\d+)\s*day\s*(daily\s*)?forecast`)

// DetectIntent recognises forecast and current-conditions requests. Anything
// else is IntentNone and goes to the responder.
func DetectIntent(text string) Intent {
	q := strings.ToLower(text)
	if m := daysRe.FindStringSubmatch(q); m != nil {
		days, _ := strconv.Atoi(m[1])
		return Intent{Kind: IntentDailyForecast, Days: days}
	}
	if strings.Contains(q, "daily forecast") {
		return Intent{Kind: IntentDailyForecast}
	}
	if strings.Contains(q, "current") || strings.Contains(q, "right now") {
		return Intent{Kind: IntentCurrentConditions}
	}
	return Intent{Kind: IntentNone}
}
