// Package geocode resolves free-text locations to coordinates and back.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoResults is returned when a query matches nothing.
var ErrNoResults = errors.New("location not found")

// Place is a resolved location.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Geocoder resolves locations.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Place, error)
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// ParseCoordinates parses a literal "lat,lon" pair. ok is false when s is not
// a pair of numbers within range.
func ParseCoordinates(s string) (lat, lon float64, ok bool) {
	latStr, lonStr, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, false
	}
	if !ValidCoordinates(lat, lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

// ValidCoordinates reports whether lat/lon are within range.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Resolve geocodes query, short-circuiting literal coordinates.
func Resolve(ctx context.Context, g Geocoder, query string) (Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, fmt.Errorf("empty location: %w", ErrNoResults)
	}
	if lat, lon, ok := ParseCoordinates(query); ok {
		return Place{Name: query, Lat: lat, Lon: lon}, nil
	}
	return g.Geocode(ctx, query)
}
