package unit

import (
	"math"
	"strconv"
	"strings"
)

// Params holds the parsed configuration for a single unit.
type Params struct {
	ID   string
	Type string
	Num  map[string]float64
	Str  map[string]string
}

// NewParams splits raw document values into numeric and string settings.
// Booleans become 1 or 0; other value kinds are ignored.
func NewParams(id, unitType string, raw map[string]any) Params {
	num := map[string]float64{}
	str := map[string]string{}

	for k, v := range raw {
		switch t := v.(type) {
		case float64:
			num[k] = t
		case float32:
			num[k] = float64(t)
		case int:
			num[k] = float64(t)
		case int64:
			num[k] = float64(t)
		case uint64:
			num[k] = float64(t)
		case string:
			str[k] = t
		case bool:
			if t {
				num[k] = 1
			} else {
				num[k] = 0
			}
		}
	}

	return Params{ID: id, Type: unitType, Num: num, Str: str}
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
// Numeric strings are accepted.
func (p Params) GetNum(key string, def float64) float64 {
	v, ok := p.Num[key]
	if !ok {
		s, found := p.Str[key]
		if !found {
			return def
		}

		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return def
		}

		v = parsed
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// GetStr returns a string setting, or def if missing or blank.
func (p Params) GetStr(key, def string) string {
	s := strings.TrimSpace(p.Str[key])
	if s == "" {
		return def
	}

	return s
}

// GetBool interprets a numeric setting as a flag.
func (p Params) GetBool(key string, def bool) bool {
	d := 0.0
	if def {
		d = 1
	}

	return p.GetNum(key, d) != 0
}

func (p Params) name() string {
	if p.ID != "" {
		return p.ID
	}

	return p.Type
}
