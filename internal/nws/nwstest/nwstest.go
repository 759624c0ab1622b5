// Package nwstest serves canned NWS and Nominatim responses for tests.
//
// The fixtures describe Seattle (47.6062,-122.3321, grid SEW 124,67) with
// grid data valid around 2025-11-28T14:00Z; see SampleTime.
package nwstest

import (
	"embed"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

//go:embed testdata/*.json
var fixtures embed.FS

const (
	Lat = 47.6062
	Lon = -122.3321
)

// SampleTime falls inside the first hour of the fixture grid data.
var SampleTime = time.Date(2025, 11, 28, 14, 30, 0, 0, time.UTC)

// Server is a fake upstream recording the paths it served.
type Server struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

// NewServer starts a Server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Hits returns how many times path was requested.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.mu.Unlock()

	if r.Header.Get("User-Agent") == "" {
		http.Error(w, "missing User-Agent", http.StatusForbidden)
		return
	}

	switch {
	case r.URL.Path == "/points/47.6062,-122.3321":
		s.serve(w, "point.json")
	case strings.HasPrefix(r.URL.Path, "/points/"):
		http.NotFound(w, r)
	case r.URL.Path == "/gridpoints/SEW/124,67/forecast":
		s.serve(w, "forecast.json")
	case r.URL.Path == "/gridpoints/SEW/124,67/forecast/hourly":
		s.serve(w, "hourly.json")
	case r.URL.Path == "/gridpoints/SEW/124,67":
		s.serve(w, "grid.json")
	case r.URL.Path == "/alerts/active/count":
		s.serve(w, "count.json")
	case r.URL.Path == "/alerts/active", r.URL.Path == "/alerts", strings.HasPrefix(r.URL.Path, "/alerts/active/area/"):
		s.serve(w, "alerts.json")
	case r.URL.Path == "/search":
		if strings.Contains(strings.ToLower(r.URL.Query().Get("q")), "seattle") {
			s.serve(w, "nominatim_search.json")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	case r.URL.Path == "/reverse":
		s.serve(w, "nominatim_reverse.json")
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) serve(w http.ResponseWriter, name string) {
	b, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body := strings.ReplaceAll(string(b), "{{host}}", s.URL)
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write([]byte(body))
}
