package record

import (
	"math"

	"github.com/goccy/go-yaml"
)

// MarshalYAML converts the value into ordered YAML nodes. Integral numbers are
// written without a fractional part.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return nil, nil
		}
		if v.n == math.Trunc(v.n) && math.Abs(v.n) < 1<<53 {
			return int64(v.n), nil
		}
		return v.n, nil
	case KindString:
		return v.s, nil
	case KindArray:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = item
		}
		return items, nil
	case KindObject:
		slice := make(yaml.MapSlice, 0, v.obj.Len())
		for _, key := range v.obj.keys {
			slice = append(slice, yaml.MapItem{Key: key, Value: v.obj.fields[key]})
		}
		return slice, nil
	default:
		return nil, nil
	}
}
