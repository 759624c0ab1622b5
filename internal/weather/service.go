package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Neerajpokala/NextWeather/internal/cache"
	"github.com/Neerajpokala/NextWeather/internal/geocode"
	"github.com/Neerajpokala/NextWeather/internal/nws"
)

var (
	// ErrNoLocation is returned when a query names neither coordinates nor a place.
	ErrNoLocation = errors.New("location or lat/lon required")
	// ErrInvalidCoordinates is returned for out-of-range coordinates.
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	// ErrNoGridData is returned when the gridpoint product could not be fetched.
	ErrNoGridData = errors.New("grid data unavailable")
	// ErrNoForecast is returned when a forecast product could not be fetched.
	ErrNoForecast = errors.New("forecast unavailable")
)

// Service fetches and caches NWS data per location.
type Service struct {
	upstream Upstream
	geocoder geocode.Geocoder
	store    Store
	now      cache.Clock
}

// NewService creates a new Service. store and geocoder may be nil; a nil
// clock uses time.Now.
func NewService(upstream Upstream, geocoder geocode.Geocoder, store Store, clock cache.Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		upstream: upstream,
		geocoder: geocoder,
		store:    store,
		now:      clock,
	}
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.now()
}

// Resolve turns a LocationQuery into coordinates.
func (s *Service) Resolve(ctx context.Context, q LocationQuery) (geocode.Place, error) {
	if q.Lat != nil && q.Lon != nil {
		if !geocode.ValidCoordinates(*q.Lat, *q.Lon) {
			return geocode.Place{}, ErrInvalidCoordinates
		}
		return geocode.Place{
			Name: cache.CoordKey(*q.Lat, *q.Lon),
			Lat:  *q.Lat,
			Lon:  *q.Lon,
		}, nil
	}
	if q.Location == "" {
		return geocode.Place{}, ErrNoLocation
	}
	if s.geocoder == nil {
		if lat, lon, ok := geocode.ParseCoordinates(q.Location); ok {
			return geocode.Place{Name: q.Location, Lat: lat, Lon: lon}, nil
		}
		return geocode.Place{}, fmt.Errorf("no geocoder configured: %w", geocode.ErrNoResults)
	}
	return geocode.Resolve(ctx, s.geocoder, q.Location)
}

// Geocode resolves free text with the configured geocoder.
func (s *Service) Geocode(ctx context.Context, query string) (geocode.Place, error) {
	return s.Resolve(ctx, LocationQuery{Location: query})
}

// Bundle returns the cached bundle for the coordinates, fetching it when
// absent or expired.
//
// The point lookup is fatal. The forecast products are fetched concurrently
// and each failure is only logged. A partial bundle is returned but only a
// complete one is cached, so the next call retries the missing products.
func (s *Service) Bundle(ctx context.Context, lat, lon float64) (*Bundle, error) {
	key := cache.CoordKey(lat, lon)
	if s.store != nil {
		if b, ok := s.store.Get(key); ok {
			return b, nil
		}
	}

	b, err := s.fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	if s.store != nil && b.Complete() {
		s.store.Set(key, b)
	}
	return b, nil
}

// Refresh fetches the bundle bypassing the cache and stores it. A partial
// bundle is not stored and the missing product is reported.
func (s *Service) Refresh(ctx context.Context, lat, lon float64) error {
	b, err := s.fetch(ctx, lat, lon)
	if err != nil {
		return err
	}
	switch {
	case b.Grid == nil:
		return ErrNoGridData
	case b.Daily == nil, b.Hourly == nil:
		return ErrNoForecast
	}
	if s.store != nil {
		s.store.Set(cache.CoordKey(lat, lon), b)
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, lat, lon float64) (*Bundle, error) {
	point, err := s.upstream.Point(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("point %s: %w", cache.CoordKey(lat, lon), err)
	}

	b := &Bundle{
		Place: point.Place(),
		Lat:   lat,
		Lon:   lon,
		Point: point,
	}

	var wg sync.WaitGroup
	fetchOne := func(product string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				// Log and continue; partial bundles are still useful.
				slog.Warn("nws product fetch failed",
					"product", product, "location", cache.CoordKey(lat, lon), "error", err)
			}
		}()
	}

	fetchOne("forecast", func() (err error) {
		b.Daily, err = s.upstream.Forecast(ctx, point.Forecast)
		return err
	})
	fetchOne("forecastHourly", func() (err error) {
		b.Hourly, err = s.upstream.HourlyForecast(ctx, point.ForecastHourly)
		return err
	})
	fetchOne("forecastGridData", func() (err error) {
		b.Grid, err = s.upstream.GridData(ctx, point.ForecastGridData)
		return err
	})
	wg.Wait()

	if b.Place == "" && s.geocoder != nil {
		if name, err := s.geocoder.Reverse(ctx, lat, lon); err == nil {
			b.Place = name
		} else {
			slog.Debug("reverse geocode failed", "error", err)
		}
	}

	b.FetchedAt = s.now().UTC()
	slog.Debug("bundle fetched", "location", cache.CoordKey(lat, lon), "place", b.Place,
		"daily", b.Daily != nil, "hourly", b.Hourly != nil, "grid", b.Grid != nil)
	return b, nil
}

// Alerts returns active alerts for a point or, when area is set, for a state
// or marine area code.
func (s *Service) Alerts(ctx context.Context, lat, lon float64, area string) ([]nws.Alert, error) {
	if area != "" {
		return s.upstream.ActiveAlertsForArea(ctx, area)
	}
	return s.upstream.ActiveAlertsForPoint(ctx, lat, lon)
}

// SearchAlerts queries the alert archive.
func (s *Service) SearchAlerts(ctx context.Context, q nws.AlertQuery) ([]nws.Alert, error) {
	return s.upstream.SearchAlerts(ctx, q)
}

// AlertCount returns nationwide active alert counts.
func (s *Service) AlertCount(ctx context.Context) (*nws.AlertCount, error) {
	return s.upstream.ActiveAlertCount(ctx)
}
