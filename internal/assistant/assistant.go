package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Neerajpokala/NextWeather/internal/geocode"
	"github.com/Neerajpokala/NextWeather/internal/weather"
)

// ErrUnsupportedMessage is returned when a client sends a reply-only message.
var ErrUnsupportedMessage = errors.New("message type cannot be sent by the user")

const maxForecastDays = 7

// WeatherSource is the part of the weather service the assistant uses.
type WeatherSource interface {
	Resolve(ctx context.Context, q weather.LocationQuery) (geocode.Place, error)
	Bundle(ctx context.Context, lat, lon float64) (*weather.Bundle, error)
	Now() time.Time
}

// Assistant answers chat messages about the weather at a session's location.
type Assistant struct {
	sessions  *Sessions
	weather   WeatherSource
	responder Responder
	cities    []string
}

// New creates an Assistant. cities are offered when a session has no
// location yet.
func New(sessions *Sessions, source WeatherSource, responder Responder, cities []string) *Assistant {
	if responder == nil {
		responder = Echo{}
	}
	return &Assistant{
		sessions:  sessions,
		weather:   source,
		responder: responder,
		cities:    cities,
	}
}

// Sessions exposes the session store.
func (a *Assistant) Sessions() *Sessions {
	return a.sessions
}

// Handle records msg in the session and returns the replies, which are
// recorded too. Failures to answer are reported as ErrorMessage replies; only
// unknown sessions and reply-only message types are returned as errors.
func (a *Assistant) Handle(ctx context.Context, sessionID string, msg Message) ([]Message, error) {
	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	switch msg.(type) {
	case UserText, CitySelect:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMessage, msg.Kind())
	}

	if err := a.sessions.Append(sessionID, Entry{Role: RoleUser, At: a.weather.Now(), Message: msg}); err != nil {
		return nil, err
	}

	var replies []Message
	switch m := msg.(type) {
	case CitySelect:
		replies = a.selectCity(ctx, sessionID, m)
	case UserText:
		replies = a.answer(ctx, sess, m)
	}

	at := a.weather.Now()
	entries := make([]Entry, len(replies))
	for i, r := range replies {
		entries[i] = Entry{Role: RoleAssistant, At: at, Message: r}
	}
	if err := a.sessions.Append(sessionID, entries...); err != nil {
		return nil, err
	}
	return replies, nil
}

func (a *Assistant) selectCity(ctx context.Context, sessionID string, m CitySelect) []Message {
	place, err := a.weather.Resolve(ctx, weather.LocationQuery{Lat: m.Lat, Lon: m.Lon, Location: m.City})
	if err != nil {
		return []Message{ErrorMessage{Message: fmt.Sprintf("Could not find %q: %v", m.City, err)}}
	}
	if m.City != "" && (m.Lat != nil || m.Lon != nil) {
		place.Name = m.City
	}
	if err := a.sessions.SetLocation(sessionID, place); err != nil {
		return []Message{ErrorMessage{Message: err.Error()}}
	}
	return []Message{a.dailyForecast(ctx, place, 0)}
}

func (a *Assistant) answer(ctx context.Context, sess Session, m UserText) []Message {
	if strings.TrimSpace(m.Text) == "" {
		return []Message{ErrorMessage{Message: "Please type a question."}}
	}
	if sess.Location == nil {
		return []Message{CitySelect{
			Text:    "Which city would you like the weather for?",
			Options: a.cities,
		}}
	}
	place := *sess.Location

	intent := DetectIntent(m.Text)
	switch intent.Kind {
	case IntentDailyForecast:
		return []Message{a.dailyForecast(ctx, place, intent.Days)}
	case IntentCurrentConditions:
		return []Message{a.currentConditions(ctx, place)}
	}

	b, err := a.weather.Bundle(ctx, place.Lat, place.Lon)
	if err != nil {
		return []Message{ErrorMessage{Message: "Error fetching weather data: " + err.Error()}}
	}
	reply, err := a.responder.Respond(ctx, Request{
		Question: m.Text,
		Context:  weather.ContextText(b, a.weather.Now()),
		History:  sess.History,
	})
	if err != nil {
		slog.Warn("assistant reply failed", "session", sess.ID, "error", err)
		return []Message{ErrorMessage{Message: "I encountered an error generating a response: " + err.Error()}}
	}
	return []Message{AssistantText{Text: reply}}
}

func (a *Assistant) dailyForecast(ctx context.Context, place geocode.Place, days int) Message {
	b, err := a.weather.Bundle(ctx, place.Lat, place.Lon)
	if err != nil {
		return ErrorMessage{Message: "Error fetching weather data: " + err.Error()}
	}
	if b.Daily == nil {
		return ErrorMessage{Message: weather.ErrNoForecast.Error()}
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}
	outlook := weather.DailyOutlook(b.Daily, days)

	lines := []string{fmt.Sprintf("Daily forecast for %s:", placeName(place, b))}
	for _, d := range outlook {
		lines = append(lines, "- "+dayLine(d))
	}
	return ForecastData{Text: strings.Join(lines, "\n"), Place: placeName(place, b), Days: outlook}
}

func (a *Assistant) currentConditions(ctx context.Context, place geocode.Place) Message {
	b, err := a.weather.Bundle(ctx, place.Lat, place.Lon)
	if err != nil {
		return ErrorMessage{Message: "Error fetching weather data: " + err.Error()}
	}
	readings, err := weather.CurrentConditions(b.Grid, a.weather.Now(), weather.DefaultPolicy)
	if err != nil {
		return ErrorMessage{Message: err.Error()}
	}
	return ForecastData{
		Text:       weather.ConditionsText(readings),
		Place:      placeName(place, b),
		Conditions: readings,
	}
}

func placeName(p geocode.Place, b *weather.Bundle) string {
	if b.Place != "" {
		return b.Place
	}
	return p.Name
}

func dayLine(d weather.DayOutlook) string {
	parts := []string{d.Name + ":"}
	if d.High != nil {
		parts = append(parts, fmt.Sprintf("high %.0f°%s", *d.High, d.Unit))
	}
	if d.Low != nil {
		parts = append(parts, fmt.Sprintf("low %.0f°%s", *d.Low, d.Unit))
	}
	if d.PrecipChance != nil {
		parts = append(parts, fmt.Sprintf("%.0f%% precipitation", *d.PrecipChance))
	}
	if d.ShortForecast != "" {
		parts = append(parts, d.ShortForecast)
	}
	return strings.Join(parts, " ")
}
