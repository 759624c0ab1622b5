package geocode

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"
)

// zeroResults is the error text kelvins/geocoder uses for a ZERO_RESULTS
// status. Every other error is a transport, quota or request failure.
const zeroResults = "No results found."

// libMu guards the package-level ApiKey and ApiUrl of kelvins/geocoder.
var libMu sync.Mutex

// Google geocodes with the Google Maps Geocoding API.
type Google struct {
	apiKey string
	apiURL string
}

// NewGoogle creates a Google geocoder.
func NewGoogle(apiKey string) *Google {
	return &Google{apiKey: apiKey, apiURL: geocoder.ApiUrl}
}

// Geocode returns the best match for query.
func (g *Google) Geocode(ctx context.Context, query string) (Place, error) {
	if err := ctx.Err(); err != nil {
		return Place{}, err
	}
	libMu.Lock()
	geocoder.ApiKey, geocoder.ApiUrl = g.apiKey, g.apiURL
	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	libMu.Unlock()
	if err != nil {
		return Place{}, googleError(fmt.Sprintf("geocode %q", query), err)
	}
	return Place{Name: query, Lat: loc.Latitude, Lon: loc.Longitude}, nil
}

// Reverse returns "City, State" for the coordinates.
func (g *Google) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	libMu.Lock()
	geocoder.ApiKey, geocoder.ApiUrl = g.apiKey, g.apiURL
	addrs, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: lat, Longitude: lon})
	libMu.Unlock()
	if err != nil {
		return "", googleError(fmt.Sprintf("reverse geocode %.4f,%.4f", lat, lon), err)
	}
	for _, a := range addrs {
		place := firstNonEmpty(a.City, a.County)
		if place == "" {
			continue
		}
		if a.State != "" {
			return place + ", " + a.State, nil
		}
		return place, nil
	}
	return "", fmt.Errorf("reverse geocode %.4f,%.4f: %w", lat, lon, ErrNoResults)
}

func googleError(op string, err error) error {
	if err.Error() == zeroResults {
		return fmt.Errorf("%s: %w", op, ErrNoResults)
	}
	return fmt.Errorf("%s: google geocoding: %w", op, err)
}
