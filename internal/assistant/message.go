// Package assistant implements the weather chat: tagged messages, in-memory
// sessions, simple intent detection and LLM-backed replies.
package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Neerajpokala/NextWeather/internal/weather"
)

// ErrUnknownMessageType is returned when decoding a message with an
// unrecognised "type".
var ErrUnknownMessageType = errors.New("unknown message type")

// Kind is the "type" discriminator of a message.
type Kind string

const (
	KindUserText      Kind = "user_text"
	KindCitySelect    Kind = "city_select"
	KindForecastData  Kind = "forecast_data"
	KindError         Kind = "error"
	KindAssistantText Kind = "assistant_text"
)

// Message is one of UserText, CitySelect, ForecastData, ErrorMessage or
// AssistantText.
type Message interface {
	Kind() Kind
}

// UserText is free text typed by the user.
type UserText struct {
	Text string `json:"text"`
}

// CitySelect chooses the session location. Sent by the assistant it carries
// the Options to choose from; sent by the user it names the City, optionally
// with coordinates.
type CitySelect struct {
	City    string   `json:"city,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Options []string `json:"options,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ForecastData is a structured forecast reply.
type ForecastData struct {
	Text       string               `json:"text"`
	Place      string               `json:"place"`
	Days       []weather.DayOutlook `json:"days,omitempty"`
	Conditions []weather.Reading    `json:"conditions,omitempty"`
}

// ErrorMessage reports a failure to the user.
type ErrorMessage struct {
	Message string `json:"message"`
}

// AssistantText is a conversational reply.
type AssistantText struct {
	Text string `json:"text"`
}

func (UserText) Kind() Kind      { return KindUserText }
func (CitySelect) Kind() Kind    { return KindCitySelect }
func (ForecastData) Kind() Kind  { return KindForecastData }
func (ErrorMessage) Kind() Kind  { return KindError }
func (AssistantText) Kind() Kind { return KindAssistantText }

// EncodeMessage marshals m with its "type" discriminator.
func EncodeMessage(m Message) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	kind, _ := json.Marshal(m.Kind())
	fields["type"] = kind
	return json.Marshal(fields)
}

// DecodeMessage unmarshals a message by its "type" discriminator.
func DecodeMessage(raw []byte) (Message, error) {
	var tagged struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(raw, &tagged); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	var m Message
	var err error
	switch tagged.Type {
	case KindUserText:
		var v UserText
		err = json.Unmarshal(raw, &v)
		m = v
	case KindCitySelect:
		var v CitySelect
		err = json.Unmarshal(raw, &v)
		m = v
	case KindForecastData:
		var v ForecastData
		err = json.Unmarshal(raw, &v)
		m = v
	case KindError:
		var v ErrorMessage
		err = json.Unmarshal(raw, &v)
		m = v
	case KindAssistantText:
		var v AssistantText
		err = json.Unmarshal(raw, &v)
		m = v
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMessageType, tagged.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", tagged.Type, err)
	}
	return m, nil
}

// Role says who sent an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one message in a session history.
type Entry struct {
	Role    Role
	At      time.Time
	Message Message
}

type entryJSON struct {
	Role    Role            `json:"role"`
	At      time.Time       `json:"at"`
	Message json.RawMessage `json:"message"`
}

// MarshalJSON encodes the entry with a tagged message.
func (e Entry) MarshalJSON() ([]byte, error) {
	msg, err := EncodeMessage(e.Message)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entryJSON{Role: e.Role, At: e.At, Message: msg})
}

// UnmarshalJSON decodes an entry written by MarshalJSON.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m, err := DecodeMessage(raw.Message)
	if err != nil {
		return err
	}
	*e = Entry{Role: raw.Role, At: raw.At, Message: m}
	return nil
}

// text returns the plain text of conversational messages.
func text(m Message) (string, bool) {
	switch v := m.(type) {
	case UserText:
		return v.Text, true
	case AssistantText:
		return v.Text, true
	case ForecastData:
		return v.Text, true
	}
	return "", false
}
