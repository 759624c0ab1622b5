package weather

import (
	"context"

	"github.com/Neerajpokala/NextWeather/internal/nws"
)

// Upstream abstracts the NWS API.
type Upstream interface {
	Point(ctx context.Context, lat, lon float64) (*nws.Point, error)
	Forecast(ctx context.Context, forecastURL string) (*nws.Forecast, error)
	HourlyForecast(ctx context.Context, forecastURL string) (*nws.Forecast, error)
	GridData(ctx context.Context, gridURL string) (*nws.GridData, error)

	ActiveAlertsForPoint(ctx context.Context, lat, lon float64) ([]nws.Alert, error)
	ActiveAlertsForArea(ctx context.Context, area string) ([]nws.Alert, error)
	SearchAlerts(ctx context.Context, q nws.AlertQuery) ([]nws.Alert, error)
	ActiveAlertCount(ctx context.Context) (*nws.AlertCount, error)
}

// Store is the contract the bundle cache must satisfy.
type Store interface {
	Get(key string) (*Bundle, bool)
	Set(key string, b *Bundle)
}
