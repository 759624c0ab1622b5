package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Neerajpokala/NextWeather/internal/httpx"
)

const (
	NominatimHost             = "https://nominatim.openstreetmap.org"
	DefaultNominatimUserAgent = "NextWeatherGeocoder/1.0"
)

// Nominatim geocodes with OpenStreetMap's Nominatim service. Its usage policy
// requires an identifying User-Agent.
type Nominatim struct {
	host string
	http *httpx.Client
}

// NewNominatim creates a Nominatim geocoder.
func NewNominatim(httpClient *http.Client, host, userAgent string, opts ...httpx.Option) *Nominatim {
	if host == "" {
		host = NominatimHost
	}
	if userAgent == "" {
		userAgent = DefaultNominatimUserAgent
	}
	opts = append([]httpx.Option{
		httpx.WithHeader("User-Agent", userAgent),
		httpx.WithHeader("Accept", "application/json"),
	}, opts...)
	return &Nominatim{
		host: strings.TrimRight(host, "/"),
		http: httpx.New("nominatim", httpClient, opts...),
	}
}

type searchResponse []struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the best match for query.
func (n *Nominatim) Geocode(ctx context.Context, query string) (Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	var resp searchResponse
	if err := n.http.GetJSON(ctx, n.host+"/search?"+params.Encode(), &resp); err != nil {
		return Place{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(resp) == 0 {
		return Place{}, fmt.Errorf("geocode %q: %w", query, ErrNoResults)
	}

	lat, err := strconv.ParseFloat(resp[0].Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("geocode %q: latitude: %w", query, err)
	}
	lon, err := strconv.ParseFloat(resp[0].Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("geocode %q: longitude: %w", query, err)
	}
	return Place{Name: resp[0].DisplayName, Lat: lat, Lon: lon}, nil
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		County  string `json:"county"`
	} `json:"address"`
}

// Reverse returns a short place name for the coordinates.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	var resp reverseResponse
	if err := n.http.GetJSON(ctx, n.host+"/reverse?"+params.Encode(), &resp); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}

	a := resp.Address
	place := firstNonEmpty(a.City, a.Town, a.Village, a.County)
	switch {
	case place != "" && a.State != "":
		return place + ", " + a.State, nil
	case place != "":
		return place, nil
	case resp.DisplayName != "":
		return resp.DisplayName, nil
	}
	return "", fmt.Errorf("reverse geocode %.4f,%.4f: %w", lat, lon, ErrNoResults)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
