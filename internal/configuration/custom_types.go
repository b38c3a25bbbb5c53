package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// FloatSliceHookFunc returns a mapstructure decode hook that parses a comma separated
// string (as provided by environment variables) into a []float64, e.g. "30, 35,40".
func FloatSliceHookFunc() mapstructure.DecodeHookFuncType {
	floatSliceType := reflect.TypeOf([]float64{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != floatSliceType || f.Kind() != reflect.String {
			return data, nil
		}

		raw := strings.TrimSpace(data.(string))
		raw = strings.TrimPrefix(raw, "[")
		raw = strings.TrimSuffix(raw, "]")
		if len(raw) <= 0 {
			return []float64{}, nil
		}

		parts := strings.Split(raw, ",")
		result := make([]float64, 0, len(parts))
		for _, part := range parts {
			value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q: %w", part, err)
			}
			result = append(result, value)
		}
		return result, nil
	}
}
