package record

// Kind identifies the shape held by a Value.
type Kind int

const (
	// KindUndefined marks an absent field. It is the zero Kind.
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "undefined"
	}
}

// Value is a dynamically typed record value. The zero Value is Undefined.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  *Object
}

// Undefined returns the value used for absent fields.
func Undefined() Value { return Value{} }

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a sequence of values.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// ObjectValue wraps an object. A nil object becomes an empty one.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether the value represents an absent field.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// AsBool returns the boolean payload, or false for other kinds.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the numeric payload, or 0 for other kinds.
func (v Value) AsNumber() float64 { return v.n }

// AsString returns the string payload, or "" for other kinds.
func (v Value) AsString() string { return v.s }

// AsArray returns the array items, or nil for other kinds.
func (v Value) AsArray() []Value { return v.arr }

// AsObject returns the object, or nil for other kinds.
func (v Value) AsObject() *Object { return v.obj }

// String implements fmt.Stringer using the canonical serialization.
func (v Value) String() string { return Canonical(v) }

// Object is an ordered set of named fields.
type Object struct {
	keys   []string
	fields map[string]Value
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Set assigns a field. New keys are appended; existing keys keep their position.
func (o *Object) Set(key string, v Value) *Object {
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
	return o
}

// Get returns the field value and whether the key is present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Undefined(), false
	}
	v, ok := o.fields[key]
	return v, ok
}

// Keys returns the field names in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}
