package record

import (
	"math"
	"strconv"
)

// Type categories returned by TypeOf.
const (
	TypeUndefined = "undefined"
	TypeObject    = "object"
	TypeBoolean   = "boolean"
	TypeNumber    = "number"
	TypeString    = "string"
)

// TypeOf returns the runtime type category of a value.
// Null, arrays and objects all share the "object" category.
func TypeOf(v Value) string {
	switch v.kind {
	case KindNull, KindArray, KindObject:
		return TypeObject
	case KindBool:
		return TypeBoolean
	case KindNumber:
		return TypeNumber
	case KindString:
		return TypeString
	default:
		return TypeUndefined
	}
}

// IsPlainObject reports whether v is a keyed object (not null, not an array).
func IsPlainObject(v Value) bool {
	return v.kind == KindObject
}

// Equal reports deep structural equality. Object fields are compared
// regardless of order, arrays element by element. NaN equals NaN and
// negative zero equals positive zero.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n || (math.IsNaN(a.n) && math.IsNaN(b.n))
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, key := range a.obj.keys {
			other, ok := b.obj.Get(key)
			if !ok || !Equal(a.obj.fields[key], other) {
				return false
			}
		}
		return true
	}
	return false
}

// Keys returns the top-level field names of a value: object keys in order,
// or array indices. Primitives have no fields.
func Keys(v Value) []string {
	switch v.kind {
	case KindObject:
		return v.obj.Keys()
	case KindArray:
		keys := make([]string, len(v.arr))
		for i := range v.arr {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	default:
		return nil
	}
}

// Field looks up a top-level field. Missing fields, out of range indices and
// lookups on primitives yield Undefined.
func Field(v Value, name string) Value {
	switch v.kind {
	case KindObject:
		if f, ok := v.obj.Get(name); ok {
			return f
		}
	case KindArray:
		if i, ok := arrayIndex(name); ok && i < len(v.arr) {
			return v.arr[i]
		}
	}
	return Undefined()
}

// arrayIndex accepts only canonical non-negative integers ("0", "12", not "012").
func arrayIndex(name string) (int, bool) {
	if name == "" || name[0] < '0' || name[0] > '9' || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}
	i, err := strconv.Atoi(name)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
