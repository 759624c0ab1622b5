package series

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned for parameters that are not series objects and for
// entries that lack a validTime or whose value does not decode as the series
// type.
var ErrMalformed = errors.New("malformed series entry")

type wireSeries struct {
	UOM    string      `json:"uom"`
	Values []wireValue `json:"values"`
}

type wireValue struct {
	ValidTime string          `json:"validTime"`
	Value     json.RawMessage `json:"value"`
}

// Decode builds a Series from a gridpoint parameter object of the form
// {"uom": "...", "values": [{"validTime": "...", "value": ...}]}.
//
// A null or absent value becomes a nil Observation.Value. Entries without a
// validTime, or with a value of the wrong type, are rejected with ErrMalformed.
func Decode[T any](name string, raw []byte) (*Series[T], error) {
	var w wireSeries
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", name, ErrMalformed, err)
	}

	s := &Series[T]{
		Name:         name,
		Unit:         w.UOM,
		Observations: make([]Observation[T], 0, len(w.Values)),
	}
	for i, v := range w.Values {
		if v.ValidTime == "" {
			return nil, fmt.Errorf("decode %s: entry %d: %w", name, i, ErrMalformed)
		}
		start, d, err := ParseValidTime(v.ValidTime)
		if err != nil {
			return nil, fmt.Errorf("decode %s: entry %d: %w", name, i, err)
		}
		obs := Observation[T]{Start: start, Duration: d}
		if len(v.Value) > 0 && !bytes.Equal(bytes.TrimSpace(v.Value), []byte("null")) {
			var val T
			if err := json.Unmarshal(v.Value, &val); err != nil {
				return nil, fmt.Errorf("decode %s: entry %d: %w: %v", name, i, ErrMalformed, err)
			}
			obs.Value = &val
		}
		s.Observations = append(s.Observations, obs)
	}
	return s, nil
}
