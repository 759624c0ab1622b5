// Package nws is a client for the National Weather Service API
// (https://api.weather.gov).
package nws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Neerajpokala/NextWeather/internal/httpx"
)

const (
	APIHost          = "https://api.weather.gov"
	DefaultUserAgent = "(nextweather, contact@example.com)"
)

// ErrNotFound is returned when NWS has no data for the request, for example
// a point outside the covered area.
var ErrNotFound = httpx.ErrNotFound

// Client handles NWS API interactions.
type Client struct {
	host string
	http *httpx.Client
}

// NewClient creates a Client against host. The NWS API rejects requests
// without a User-Agent.
func NewClient(httpClient *http.Client, host, userAgent string, opts ...httpx.Option) *Client {
	if host == "" {
		host = APIHost
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	opts = append([]httpx.Option{
		httpx.WithHeader("User-Agent", userAgent),
		httpx.WithHeader("Accept", "application/geo+json"),
	}, opts...)
	return &Client{
		host: strings.TrimRight(host, "/"),
		http: httpx.New("nws", httpClient, opts...),
	}
}

// Point fetches the gridpoint metadata for a lat/lon.
func (c *Client) Point(ctx context.Context, lat, lon float64) (*Point, error) {
	var resp pointResponse
	u := fmt.Sprintf("%s/points/%.4f,%.4f", c.host, lat, lon)
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("point lookup: %w", err)
	}
	if resp.Properties.GridID == "" {
		return nil, fmt.Errorf("point lookup %.4f,%.4f: no grid in response", lat, lon)
	}
	return &resp.Properties, nil
}

// Forecast fetches the twelve-hour period forecast at forecastURL.
func (c *Client) Forecast(ctx context.Context, forecastURL string) (*Forecast, error) {
	return c.forecast(ctx, forecastURL)
}

// HourlyForecast fetches the hourly forecast at forecastURL.
func (c *Client) HourlyForecast(ctx context.Context, forecastURL string) (*Forecast, error) {
	return c.forecast(ctx, forecastURL)
}

func (c *Client) forecast(ctx context.Context, forecastURL string) (*Forecast, error) {
	if forecastURL == "" {
		return nil, errors.New("forecast: empty url")
	}
	var resp forecastResponse
	if err := c.http.GetJSON(ctx, forecastURL, &resp); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	return &resp.Properties, nil
}

// GridData fetches the raw gridpoint product at gridURL.
func (c *Client) GridData(ctx context.Context, gridURL string) (*GridData, error) {
	if gridURL == "" {
		return nil, errors.New("grid data: empty url")
	}
	var resp gridResponse
	if err := c.http.GetJSON(ctx, gridURL, &resp); err != nil {
		return nil, fmt.Errorf("grid data: %w", err)
	}
	return NewGridData(resp.Properties), nil
}

// ActiveAlertsForPoint fetches active alerts covering a lat/lon.
func (c *Client) ActiveAlertsForPoint(ctx context.Context, lat, lon float64) ([]Alert, error) {
	u := fmt.Sprintf("%s/alerts/active?point=%.4f,%.4f", c.host, lat, lon)
	return c.alerts(ctx, u)
}

// ActiveAlertsForArea fetches active alerts for a state or marine area code.
func (c *Client) ActiveAlertsForArea(ctx context.Context, area string) ([]Alert, error) {
	u := fmt.Sprintf("%s/alerts/active/area/%s", c.host, url.PathEscape(strings.ToUpper(area)))
	return c.alerts(ctx, u)
}

// AlertQuery filters SearchAlerts. Empty fields are not sent.
type AlertQuery struct {
	Status   string
	Area     string
	Severity string
	Event    string
	Limit    int
}

// DefaultAlertLimit applies when AlertQuery.Limit is zero.
const DefaultAlertLimit = 50

// SearchAlerts queries /alerts with the given filters.
func (c *Client) SearchAlerts(ctx context.Context, q AlertQuery) ([]Alert, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Area != "" {
		params.Set("area", strings.ToUpper(q.Area))
	}
	if q.Severity != "" {
		params.Set("severity", q.Severity)
	}
	if q.Event != "" {
		params.Set("event", q.Event)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultAlertLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	return c.alerts(ctx, c.host+"/alerts?"+params.Encode())
}

func (c *Client) alerts(ctx context.Context, u string) ([]Alert, error) {
	var resp alertsResponse
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("alerts: %w", err)
	}
	alerts := make([]Alert, 0, len(resp.Features))
	for _, f := range resp.Features {
		alerts = append(alerts, f.Properties)
	}
	return alerts, nil
}

// ActiveAlertCount fetches the national active alert counts.
func (c *Client) ActiveAlertCount(ctx context.Context) (*AlertCount, error) {
	var resp AlertCount
	if err := c.http.GetJSON(ctx, c.host+"/alerts/active/count", &resp); err != nil {
		return nil, fmt.Errorf("alert count: %w", err)
	}
	return &resp, nil
}
