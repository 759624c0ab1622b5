package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Neerajpokala/NextWeather/internal/series"
	"github.com/Neerajpokala/NextWeather/internal/weather"
)

var validate = validator.New()

// locationQuery selects a location by lat+lon or by free text.
type locationQuery struct {
	Lat      *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon      *float64 `validate:"omitempty,gte=-180,lte=180"`
	Location string   `validate:"required_without_all=Lat Lon"`
}

func (l locationQuery) toQuery() weather.LocationQuery {
	return weather.LocationQuery{Lat: l.Lat, Lon: l.Lon, Location: l.Location}
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	for key, dst := range map[string]**float64{"lat": &q.Lat, "lon": &q.Lon} {
		s := c.Query(key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, errors.New("invalid " + key + ": must be a number")
		}
		*dst = &v
	}
	q.Location = strings.TrimSpace(c.Query("location"))
	if (q.Lat == nil) != (q.Lon == nil) && q.Location == "" {
		return q, errors.New("lat and lon must be given together")
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

type forecastQuery struct {
	Periods int `query:"periods" validate:"gte=1,lte=14"`
}

type hourlyQuery struct {
	Hours int `query:"hours" validate:"gte=1,lte=156"`
}

type dailyQuery struct {
	Days int `query:"days" validate:"gte=1,lte=7"`
}

type alertSearchQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=actual exercise system test draft"`
	Area     string `query:"area" validate:"omitempty,len=2,alpha"`
	Severity string `query:"severity" validate:"omitempty,oneof=Extreme Severe Moderate Minor Unknown"`
	Event    string `query:"event"`
	Limit    int    `query:"limit" validate:"gte=0,lte=500"`
}

type unitsQuery struct {
	Units string `query:"units" validate:"omitempty,oneof=imperial metric"`
}

// unitPolicy returns the display policy selected by ?units=, imperial by
// default.
func unitPolicy(c *fiber.Ctx) (series.UnitPolicy, error) {
	var q unitsQuery
	if err := bindQuery(c, &q); err != nil {
		return nil, err
	}
	if q.Units == "metric" {
		return weather.MetricPolicy, nil
	}
	return weather.DefaultPolicy, nil
}

// bindQuery parses the query string into dst, which carries defaults, and
// validates it.
func bindQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

// sampleTime returns the "at" query parameter or now.
func sampleTime(c *fiber.Ctx, now time.Time) (time.Time, error) {
	s := c.Query("at")
	if s == "" {
		return now, nil
	}
	at, err := parseTime(s)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return at, nil
}
