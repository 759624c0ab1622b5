package nws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Neerajpokala/NextWeather/internal/series"
)

// GridData is the raw gridpoint product: a set of named parameters, most of
// which are interval-stamped series.
type GridData struct {
	UpdateTime time.Time
	ValidTimes string
	props      map[string]json.RawMessage
}

// NewGridData wraps the "properties" object of a gridpoint response.
func NewGridData(props map[string]json.RawMessage) *GridData {
	g := &GridData{props: props}
	if raw, ok := props["updateTime"]; ok {
		_ = json.Unmarshal(raw, &g.UpdateTime)
	}
	if raw, ok := props["validTimes"]; ok {
		_ = json.Unmarshal(raw, &g.ValidTimes)
	}
	return g
}

// Has reports whether the grid carries the named parameter as a series.
func (g *GridData) Has(name string) bool {
	if g == nil {
		return false
	}
	raw, ok := g.props[name]
	return ok && isSeries(raw)
}

// Parameters lists the names of the series-shaped parameters, sorted.
func (g *GridData) Parameters() []string {
	if g == nil {
		return nil
	}
	var names []string
	for name, raw := range g.props {
		if isSeries(raw) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// isSeries reports whether raw is an object carrying a "values" array.
func isSeries(raw json.RawMessage) bool {
	var obj struct {
		Values json.RawMessage `json:"values"`
	}
	if json.Unmarshal(raw, &obj) != nil {
		return false
	}
	v := bytes.TrimSpace(obj.Values)
	return len(v) > 0 && v[0] == '['
}

// Scalar decodes a numeric parameter. An absent parameter, or a property that
// is not a series such as "updateTime", yields a nil series and no error so
// that sampling it reports NotFound.
func (g *GridData) Scalar(name string) (*series.Series[float64], error) {
	return decodeParam[float64](g, name)
}

// Hazards decodes the "hazards" parameter.
func (g *GridData) Hazards() (*series.Series[[]Hazard], error) {
	return decodeParam[[]Hazard](g, "hazards")
}

func decodeParam[T any](g *GridData, name string) (*series.Series[T], error) {
	if g == nil {
		return nil, nil
	}
	raw, ok := g.props[name]
	if !ok || !isSeries(raw) {
		return nil, nil
	}
	s, err := series.Decode[T](name, raw)
	if err != nil {
		return nil, fmt.Errorf("grid parameter: %w", err)
	}
	return s, nil
}

// MarshalJSON writes the grid back as its properties object.
func (g *GridData) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.props)
}
