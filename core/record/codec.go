package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/7sDream/geko"
)

// Decode parses a single JSON document, keeping object key order.
func Decode(data []byte) (Value, error) {
	raw, err := geko.JSONUnmarshal(data)
	if err != nil {
		return Undefined(), fmt.Errorf("failed to decode record: %w", err)
	}
	return FromAny(raw), nil
}

// DecodeAll parses a JSON array into its items.
func DecodeAll(data []byte) ([]Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Value{}, nil
	}
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if v.kind != KindArray {
		return nil, fmt.Errorf("expected a JSON array of records, got %s", v.kind)
	}
	return v.arr, nil
}

// FromAny converts a decoded Go value into a Value. Plain maps have no order,
// so their keys are sorted.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case *Object:
		return ObjectValue(t)
	case []Value:
		return Array(t...)
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case geko.ObjectItems:
		keys := t.Keys()
		vals := t.Values()
		obj := NewObject()
		for i := range keys {
			obj.Set(keys[i], FromAny(vals[i]))
		}
		return ObjectValue(obj)
	case geko.Array:
		items := make([]Value, len(t.List))
		for i, item := range t.List {
			items[i] = FromAny(item)
		}
		return Array(items...)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Array(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromAny(t[k]))
		}
		return ObjectValue(obj)
	}

	// Structs and other typed values go through their JSON form.
	if rv := reflect.ValueOf(x); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return Null()
	}
	data, err := json.Marshal(x)
	if err != nil {
		return String(fmt.Sprint(x))
	}
	v, err := Decode(data)
	if err != nil {
		return String(string(data))
	}
	return v
}

// MarshalJSON writes the value with object keys in their original order.
// Undefined is written as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalAll writes items as a JSON array, keeping object key order.
func MarshalAll(items []Value) ([]byte, error) {
	return Array(items...).MarshalJSON()
}

// UnmarshalJSON decodes a JSON document into the value.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// Canonical returns a deterministic serialization: compact JSON with object
// keys sorted. Structurally equal values always serialize identically.
func Canonical(v Value) string {
	var buf bytes.Buffer
	// encode only fails on string marshalling, which cannot fail for Go strings.
	_ = encode(&buf, v, true)
	return buf.String()
}

func encode(buf *bytes.Buffer, v Value, sorted bool) error {
	switch v.kind {
	case KindUndefined, KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(formatNumber(v.n))
	case KindString:
		data, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item, sorted); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		keys := v.obj.Keys()
		if sorted {
			sort.Strings(keys)
		}
		buf.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(data)
			buf.WriteByte(':')
			if err := encode(buf, v.obj.fields[key], sorted); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// formatNumber follows encoding/json float formatting. Non-finite numbers
// have no JSON form and become null; negative zero is written as 0.
func formatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "null"
	}
	if n == 0 {
		return "0"
	}
	data, _ := json.Marshal(n)
	return string(data)
}
