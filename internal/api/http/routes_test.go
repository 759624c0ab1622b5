package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neerajpokala/NextWeather/internal/assistant"
	"github.com/Neerajpokala/NextWeather/internal/cache"
	"github.com/Neerajpokala/NextWeather/internal/geocode"
	"github.com/Neerajpokala/NextWeather/internal/httpx"
	"github.com/Neerajpokala/NextWeather/internal/nws"
	"github.com/Neerajpokala/NextWeather/internal/nws/nwstest"
	"github.com/Neerajpokala/NextWeather/internal/weather"
)

const seattle = "lat=47.6062&lon=-122.3321"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	srv := nwstest.NewServer(t)
	fast := httpx.WithBackoff(httpx.BackoffConfig{InitialInterval: time.Millisecond})
	clock := func() time.Time { return nwstest.SampleTime }

	svc := weather.NewService(
		nws.NewClient(srv.Client(), srv.URL, "nextweather-test", fast),
		geocode.NewNominatim(srv.Client(), srv.URL, "nextweather-test", fast),
		cache.New[*weather.Bundle](time.Hour, 0, clock),
		clock,
	)
	chat := assistant.New(assistant.NewSessions(50, 10, clock), svc, assistant.Echo{}, []string{"Seattle"})

	app := NewApp("nextweather-test")
	RegisterRoutes(app, svc, chat)
	return app
}

func do(t *testing.T, app *fiber.App, method, target string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp := do(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestForecastPeriodsValidation verifies that the forecast endpoint enforces
// the 1-14 range for the `periods` query parameter.
func TestForecastPeriodsValidation(t *testing.T) {
	app := newTestApp(t)

	for _, periods := range []string{"0", "15", "many"} {
		resp := do(t, app, http.MethodGet, "/api/v1/weather/forecast?"+seattle+"&periods="+periods, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "periods=%s", periods)

		var body map[string]any
		decode(t, resp, &body)
		assert.Equal(t, true, body["error"])
	}

	resp := do(t, app, http.MethodGet, "/api/v1/weather/forecast?"+seattle+"&periods=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Place   string       `json:"place"`
		Periods []nws.Period `json:"periods"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "Seattle, WA", body.Place)
	assert.Len(t, body.Periods, 2)
}

func TestCurrentConditions(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/weather/current?location=Seattle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Conditions []weather.Reading `json:"conditions"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Conditions)
	assert.Equal(t, "temperature", body.Conditions[0].Parameter)
	require.NotNil(t, body.Conditions[0].Value)
	assert.Equal(t, 50.0, *body.Conditions[0].Value)
	assert.Equal(t, "°F", body.Conditions[0].Unit)
}

func TestLocationErrors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		query string
		code  int
	}{
		{"", http.StatusBadRequest},
		{"lat=47.6", http.StatusBadRequest},
		{"lat=north&lon=1", http.StatusBadRequest},
		{"lat=95&lon=0", http.StatusBadRequest},
		{"location=Atlantis", http.StatusNotFound},
		{"lat=51.5072&lon=-0.1276", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := do(t, app, http.MethodGet, "/api/v1/weather/current?"+tt.query, nil)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestGridParameter(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/weather/grid/windGust?"+seattle, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Reading map[string]any `json:"reading"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "missing_value", body.Reading["outcome"])

	resp = do(t, app, http.MethodGet, "/api/v1/weather/grid/temperature?"+seattle+"&at=2025-11-28T15:30:00Z", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "found", body.Reading["outcome"])
	assert.Equal(t, 52.7, body.Reading["value"])

	resp = do(t, app, http.MethodGet, "/api/v1/weather/grid/hazards?"+seattle, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/v1/weather/grid/temperature?"+seattle+"&at=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGridParameter_Units(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/weather/grid/temperature?"+seattle+"&at=2025-11-28T15:30:00Z&units=metric", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Reading weather.Reading `json:"reading"`
	}
	decode(t, resp, &body)
	require.NotNil(t, body.Reading.Value)
	assert.Equal(t, 11.5, *body.Reading.Value)
	assert.Equal(t, "°C", body.Reading.Unit)

	resp = do(t, app, http.MethodGet, "/api/v1/weather/current?"+seattle+"&units=kelvin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Grid properties that are not series, such as updateTime, sample as not
// found rather than failing the request.
func TestGridParameter_NonSeriesProperty(t *testing.T) {
	app := newTestApp(t)

	for _, name := range []string{"updateTime", "validTimes", "apparentTemperature"} {
		resp := do(t, app, http.MethodGet, "/api/v1/weather/grid/"+name+"?"+seattle, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, name)
		var body struct {
			Reading map[string]any `json:"reading"`
		}
		decode(t, resp, &body)
		assert.Equal(t, "not_found", body.Reading["outcome"], name)
	}

	for _, name := range []string{"updateTime", "apparentTemperature"} {
		resp := do(t, app, http.MethodGet, "/api/v1/charts/grid/"+name+".png?"+seattle, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, name)
	}
}

func TestGridParameters(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/weather/grid?"+seattle, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		UpdateTime time.Time `json:"updateTime"`
		ValidTimes string    `json:"validTimes"`
		Parameters []string  `json:"parameters"`
	}
	decode(t, resp, &body)
	assert.True(t, body.UpdateTime.Equal(time.Date(2025, 11, 28, 12, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2025-11-28T06:00:00+00:00/P7DT19H", body.ValidTimes)
	assert.Contains(t, body.Parameters, "temperature")
	assert.NotContains(t, body.Parameters, "updateTime")
}

func TestDailyAndHazards(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/weather/daily?"+seattle+"&days=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var daily struct {
		Days []weather.DayOutlook `json:"days"`
	}
	decode(t, resp, &daily)
	require.Len(t, daily.Days, 1)
	assert.Equal(t, 40.0, *daily.Days[0].Low)

	resp = do(t, app, http.MethodGet, "/api/v1/weather/daily?"+seattle+"&days=8", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/v1/weather/hazards?"+seattle, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hz struct {
		Hazards []weather.HazardEntry `json:"hazards"`
	}
	decode(t, resp, &hz)
	require.Len(t, hz.Hazards, 1)
	assert.Equal(t, "WS (A)", hz.Hazards[0].Label)

	resp = do(t, app, http.MethodGet, "/api/v1/weather/hourly?"+seattle+"&hours=157", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContext(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/weather/context?"+seattle, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/plain"))
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "ACTIVE HAZARDS:")
}

func TestAlerts(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/alerts?area=tx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Count  int         `json:"count"`
		Alerts []nws.Alert `json:"alerts"`
	}
	decode(t, resp, &list)
	assert.Equal(t, 3, list.Count)
	assert.Equal(t, "Severe", list.Alerts[0].Severity)

	resp = do(t, app, http.MethodGet, "/api/v1/alerts/summary?"+seattle, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sum weather.AlertSummary
	decode(t, resp, &sum)
	assert.Equal(t, 2, sum.EventType["Wind Advisory"])

	resp = do(t, app, http.MethodGet, "/api/v1/alerts/count", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var count nws.AlertCount
	decode(t, resp, &count)
	assert.Equal(t, 312, count.Total)

	resp = do(t, app, http.MethodGet, "/api/v1/alerts/search?severity=Severe&area=WA&limit=5", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/v1/alerts/search?severity=Apocalyptic", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportCSV(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/export/grid.csv?"+seattle, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "grid.csv")
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/csv"))
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "metric,validTime,value,unit\n"))

	for _, name := range []string{"hourly.csv", "daily.csv"} {
		resp := do(t, app, http.MethodGet, "/api/v1/export/"+name+"?"+seattle, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, name)
	}
}

func TestCharts(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{
		"/api/v1/charts/hourly.png?" + seattle,
		"/api/v1/charts/grid/temperature.png?" + seattle,
		"/api/v1/charts/grid/temperature.png?units=metric&" + seattle,
	} {
		resp := do(t, app, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, target)
		assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")), target)
	}

	resp := do(t, app, http.MethodGet, "/api/v1/charts/grid/quantitativePrecipitation.png?"+seattle, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestChat(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, http.MethodPost, "/api/v1/chat/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sess struct {
		ID string `json:"id"`
	}
	decode(t, resp, &sess)
	require.NotEmpty(t, sess.ID)
	msgURL := "/api/v1/chat/sessions/" + sess.ID + "/messages"

	var replies struct {
		Replies []map[string]any `json:"replies"`
	}
	resp = do(t, app, http.MethodPost, msgURL, strings.NewReader(`{"type":"user_text","text":"hello"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &replies)
	require.Len(t, replies.Replies, 1)
	assert.Equal(t, "city_select", replies.Replies[0]["type"])

	resp = do(t, app, http.MethodPost, msgURL, strings.NewReader(`{"type":"city_select","city":"Seattle"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &replies)
	assert.Equal(t, "forecast_data", replies.Replies[0]["type"])

	resp = do(t, app, http.MethodPost, msgURL, strings.NewReader(`{"type":"user_text","text":"any hazards?"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &replies)
	assert.Equal(t, "assistant_text", replies.Replies[0]["type"])
	assert.Contains(t, replies.Replies[0]["text"], "WS (A)")

	resp = do(t, app, http.MethodGet, "/api/v1/chat/sessions/"+sess.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got assistant.Session
	decode(t, resp, &got)
	assert.Len(t, got.History, 6)

	resp = do(t, app, http.MethodPost, msgURL, strings.NewReader(`{"type":"forecast_option"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodPost, msgURL, strings.NewReader(`{"type":"error","message":"x"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/v1/chat/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
