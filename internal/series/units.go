package series

import "strings"

// Conversion is a linear unit conversion: out = in*Scale + Offset.
type Conversion struct {
	Scale  float64
	Offset float64
	Label  string
}

// Apply converts v.
func (c Conversion) Apply(v float64) float64 {
	return v*c.Scale + c.Offset
}

// UnitPolicy maps a source unit tag to the conversion used for display.
type UnitPolicy map[string]Conversion

// Lookup finds the conversion for a unit tag. The full tag is tried first,
// then the part after the last ':' so that "wmoUnit:degC" matches a "degC"
// rule.
func (p UnitPolicy) Lookup(unit string) (Conversion, bool) {
	if c, ok := p[unit]; ok {
		return c, true
	}
	if i := strings.LastIndex(unit, ":"); i != -1 && i+1 < len(unit) {
		c, ok := p[unit[i+1:]]
		return c, ok
	}
	return Conversion{}, false
}

// Convert applies the matching rule to v. Without a rule v is returned as is
// and the label is the original unit tag.
func (p UnitPolicy) Convert(unit string, v float64) (float64, string) {
	c, ok := p.Lookup(unit)
	if !ok {
		return v, unit
	}
	return c.Apply(v), c.Label
}

// ImperialPolicy returns the display policy used by the dashboards:
// Fahrenheit, miles per hour and percent.
func ImperialPolicy() UnitPolicy {
	return UnitPolicy{
		"degC":           {Scale: 9.0 / 5.0, Offset: 32, Label: "°F"},
		"km_h":           {Scale: 0.621371, Label: "mph"},
		"km_h-1":         {Scale: 0.621371, Label: "mph"},
		"percent":        {Scale: 1, Label: "%"},
		"degree_(angle)": {Scale: 1, Label: "°"},
		"mm":             {Scale: 0.0393701, Label: "in"},
	}
}

// MetricPolicy keeps the NWS metric values and only swaps the WMO unit codes
// for readable labels.
func MetricPolicy() UnitPolicy {
	return UnitPolicy{
		"degC":           {Scale: 1, Label: "°C"},
		"km_h":           {Scale: 1, Label: "km/h"},
		"km_h-1":         {Scale: 1, Label: "km/h"},
		"percent":        {Scale: 1, Label: "%"},
		"degree_(angle)": {Scale: 1, Label: "°"},
		"mm":             {Scale: 1, Label: "mm"},
	}
}
