package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/Neerajpokala/NextWeather/internal/assistant"
	"github.com/Neerajpokala/NextWeather/internal/chart"
	"github.com/Neerajpokala/NextWeather/internal/geocode"
	"github.com/Neerajpokala/NextWeather/internal/httpx"
	"github.com/Neerajpokala/NextWeather/internal/nws"
	"github.com/Neerajpokala/NextWeather/internal/series"
	"github.com/Neerajpokala/NextWeather/internal/weather"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, chat *assistant.Assistant) {
	h := &handlers{service: service, chat: chat}
	v1 := app.Group("/api/v1")

	v1.Get("/geocode", h.geocode)

	v1.Get("/weather/current", h.current)
	v1.Get("/weather/grid", h.gridParameters)
	v1.Get("/weather/grid/:parameter", h.gridParameter)
	v1.Get("/weather/forecast", h.forecast)
	v1.Get("/weather/hourly", h.hourly)
	v1.Get("/weather/daily", h.daily)
	v1.Get("/weather/hazards", h.hazards)
	v1.Get("/weather/context", h.context)

	v1.Get("/alerts", h.alerts)
	v1.Get("/alerts/search", h.searchAlerts)
	v1.Get("/alerts/count", h.alertCount)
	v1.Get("/alerts/summary", h.alertSummary)

	v1.Get("/export/grid.csv", h.exportGrid)
	v1.Get("/export/hourly.csv", h.exportHourly)
	v1.Get("/export/daily.csv", h.exportDaily)

	v1.Get("/charts/hourly.png", h.hourlyChart)
	v1.Get("/charts/grid/:parameter.png", h.gridChart)

	v1.Post("/chat/sessions", h.createSession)
	v1.Get("/chat/sessions/:id", h.getSession)
	v1.Post("/chat/sessions/:id/messages", h.postMessage)
}

type handlers struct {
	service *weather.Service
	chat    *assistant.Assistant
}

// bundle resolves the request location and returns its weather bundle.
func (h *handlers) bundle(c *fiber.Ctx) (*weather.Bundle, error) {
	q, err := parseLocationQuery(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	place, err := h.service.Resolve(c.UserContext(), q.toQuery())
	if err != nil {
		return nil, upstreamError(err)
	}
	b, err := h.service.Bundle(c.UserContext(), place.Lat, place.Lon)
	if err != nil {
		return nil, upstreamError(err)
	}
	return b, nil
}

func (h *handlers) geocode(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
	}
	place, err := h.service.Geocode(c.UserContext(), q)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(place)
}

func (h *handlers) current(c *fiber.Ctx) error {
	at, err := sampleTime(c, h.service.Now())
	if err != nil {
		return err
	}
	policy, err := unitPolicy(c)
	if err != nil {
		return err
	}
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	readings, err := weather.CurrentConditions(b.Grid, at, policy)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(fiber.Map{
		"place":      b.Place,
		"at":         at,
		"conditions": readings,
	})
}

// gridParameters lists the series published in the gridpoint product.
func (h *handlers) gridParameters(c *fiber.Ctx) error {
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	if b.Grid == nil {
		return upstreamError(weather.ErrNoGridData)
	}
	return c.JSON(fiber.Map{
		"place":      b.Place,
		"updateTime": b.Grid.UpdateTime,
		"validTimes": b.Grid.ValidTimes,
		"parameters": b.Grid.Parameters(),
	})
}

func (h *handlers) gridParameter(c *fiber.Ctx) error {
	at, err := sampleTime(c, h.service.Now())
	if err != nil {
		return err
	}
	policy, err := unitPolicy(c)
	if err != nil {
		return err
	}
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	reading, err := weather.SampleParameter(b.Grid, c.Params("parameter"), at, policy)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(fiber.Map{
		"place":   b.Place,
		"at":      at,
		"reading": reading,
	})
}

func (h *handlers) forecast(c *fiber.Ctx) error {
	q := forecastQuery{Periods: 14}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	if b.Daily == nil {
		return upstreamError(weather.ErrNoForecast)
	}
	return c.JSON(fiber.Map{
		"place":   b.Place,
		"periods": firstPeriods(b.Daily.Periods, q.Periods),
	})
}

func (h *handlers) hourly(c *fiber.Ctx) error {
	q := hourlyQuery{Hours: 24}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	if b.Hourly == nil {
		return upstreamError(weather.ErrNoForecast)
	}
	return c.JSON(fiber.Map{
		"place":   b.Place,
		"periods": firstPeriods(b.Hourly.Periods, q.Hours),
	})
}

func (h *handlers) daily(c *fiber.Ctx) error {
	q := dailyQuery{Days: weather.DefaultOutlookDays}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	if b.Daily == nil {
		return upstreamError(weather.ErrNoForecast)
	}
	return c.JSON(fiber.Map{
		"place": b.Place,
		"days":  weather.DailyOutlook(b.Daily, q.Days),
	})
}

func (h *handlers) hazards(c *fiber.Ctx) error {
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	if b.Grid == nil {
		return upstreamError(weather.ErrNoGridData)
	}
	hazards, err := weather.ActiveHazards(b.Grid)
	if err != nil {
		return upstreamError(err)
	}
	if hazards == nil {
		hazards = []weather.HazardEntry{}
	}
	return c.JSON(fiber.Map{
		"place":   b.Place,
		"hazards": hazards,
	})
}

func (h *handlers) context(c *fiber.Ctx) error {
	at, err := sampleTime(c, h.service.Now())
	if err != nil {
		return err
	}
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	c.Type("txt", "utf-8")
	return c.SendString(weather.ContextText(b, at))
}

// alertsFor returns active alerts for ?area= or the request location, most
// severe first.
func (h *handlers) alertsFor(c *fiber.Ctx) ([]nws.Alert, error) {
	var (
		lat, lon float64
		area     = c.Query("area")
	)
	if area == "" {
		q, err := parseLocationQuery(c)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		place, err := h.service.Resolve(c.UserContext(), q.toQuery())
		if err != nil {
			return nil, upstreamError(err)
		}
		lat, lon = place.Lat, place.Lon
	}
	alerts, err := h.service.Alerts(c.UserContext(), lat, lon, area)
	if err != nil {
		return nil, upstreamError(err)
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return weather.SeverityRank(alerts[i].Severity) < weather.SeverityRank(alerts[j].Severity)
	})
	return alerts, nil
}

func (h *handlers) alerts(c *fiber.Ctx) error {
	alerts, err := h.alertsFor(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

func (h *handlers) searchAlerts(c *fiber.Ctx) error {
	var q alertSearchQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	alerts, err := h.service.SearchAlerts(c.UserContext(), nws.AlertQuery{
		Status:   q.Status,
		Area:     q.Area,
		Severity: q.Severity,
		Event:    q.Event,
		Limit:    q.Limit,
	})
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(fiber.Map{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

func (h *handlers) alertCount(c *fiber.Ctx) error {
	count, err := h.service.AlertCount(c.UserContext())
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(count)
}

func (h *handlers) alertSummary(c *fiber.Ctx) error {
	alerts, err := h.alertsFor(c)
	if err != nil {
		return err
	}
	return c.JSON(weather.CategorizeAlerts(alerts))
}

func (h *handlers) exportGrid(c *fiber.Ctx) error {
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	return sendCSV(c, "grid.csv", func(w io.Writer) error {
		return weather.WriteGridCSV(w, b.Grid)
	})
}

func (h *handlers) exportHourly(c *fiber.Ctx) error {
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	return sendCSV(c, "hourly.csv", func(w io.Writer) error {
		return weather.WritePeriodsCSV(w, b.Hourly)
	})
}

func (h *handlers) exportDaily(c *fiber.Ctx) error {
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	return sendCSV(c, "daily.csv", func(w io.Writer) error {
		return weather.WritePeriodsCSV(w, b.Daily)
	})
}

func sendCSV(c *fiber.Ctx, filename string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return upstreamError(err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (h *handlers) hourlyChart(c *fiber.Ctx) error {
	q := hourlyQuery{Hours: 48}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	if b.Hourly == nil {
		return upstreamError(weather.ErrNoForecast)
	}
	return sendPNG(c, func(w io.Writer) error {
		return chart.Hourly(w, b.Hourly.Periods, q.Hours)
	})
}

func (h *handlers) gridChart(c *fiber.Ctx) error {
	policy, err := unitPolicy(c)
	if err != nil {
		return err
	}
	b, err := h.bundle(c)
	if err != nil {
		return err
	}
	if b.Grid == nil {
		return upstreamError(weather.ErrNoGridData)
	}
	name := c.Params("parameter")
	if !b.Grid.Has(name) {
		return fiber.NewError(fiber.StatusNotFound, "unknown grid parameter: "+name)
	}
	s, err := b.Grid.Scalar(name)
	if err != nil {
		return upstreamError(err)
	}
	points, unit := chart.Points(s, policy)
	title := name
	if unit != "" {
		title += " (" + unit + ")"
	}
	return sendPNG(c, func(w io.Writer) error {
		return chart.Series(w, title, points)
	})
}

func sendPNG(c *fiber.Ctx, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, chart.ErrNotEnoughData) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		slog.Error("chart render failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render chart")
	}
	c.Type("png")
	return c.Send(buf.Bytes())
}

func (h *handlers) createSession(c *fiber.Ctx) error {
	sess := h.chat.Sessions().Create()
	return c.Status(fiber.StatusCreated).JSON(sess)
}

func (h *handlers) getSession(c *fiber.Ctx) error {
	sess, err := h.chat.Sessions().Get(c.Params("id"))
	if err != nil {
		return chatError(err)
	}
	return c.JSON(sess)
}

func (h *handlers) postMessage(c *fiber.Ctx) error {
	msg, err := assistant.DecodeMessage(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	replies, err := h.chat.Handle(c.UserContext(), c.Params("id"), msg)
	if err != nil {
		return chatError(err)
	}

	encoded := make([]json.RawMessage, 0, len(replies))
	for _, r := range replies {
		raw, err := assistant.EncodeMessage(r)
		if err != nil {
			return err
		}
		encoded = append(encoded, raw)
	}
	return c.JSON(fiber.Map{"replies": encoded})
}

func chatError(err error) error {
	switch {
	case errors.Is(err, assistant.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, assistant.ErrUnsupportedMessage):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// upstreamError maps service errors to HTTP errors.
func upstreamError(err error) error {
	switch {
	case errors.Is(err, weather.ErrNoLocation), errors.Is(err, weather.ErrInvalidCoordinates):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, geocode.ErrNoResults):
		return fiber.NewError(fiber.StatusNotFound, "location not found")
	case errors.Is(err, nws.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "location is outside NWS coverage")
	case errors.Is(err, series.ErrMalformed):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, httpx.ErrRateLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, "upstream rate limit reached")
	case errors.Is(err, httpx.ErrCircuitOpen):
		return fiber.NewError(fiber.StatusServiceUnavailable, "upstream temporarily unavailable")
	case errors.Is(err, weather.ErrNoGridData), errors.Is(err, weather.ErrNoForecast):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	slog.Error("upstream request failed", "error", err)
	return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
}

func firstPeriods(periods []nws.Period, n int) []nws.Period {
	if n < len(periods) {
		return periods[:n]
	}
	return periods
}
