// Package record models schema-less dataset entries.
//
// Records arriving from a dataset have no schema known ahead of time. They are
// usually flat JSON objects, but may also be primitives or arrays, and two
// records describing the same entity may differ in shape. The Value type is a
// discriminated variant over every JSON shape (plus Undefined for absent
// fields) so comparison code can stay explicit and total over any input.
//
// # Shapes
//
//   - Undefined: a field that is not present on a record.
//   - Null, Bool, Number, String: JSON primitives.
//   - Array: ordered sequence of values.
//   - Object: ordered keys mapped to values. Key order follows the source
//     document, but equality is order-independent.
//
// # Encoding
//
// Decode and DecodeAll parse JSON while preserving object key order. Canonical
// produces a deterministic serialization with object keys sorted, which is what
// identity keys are built from.
//
// # Usage
//
//	items, err := record.DecodeAll(data)
//	if err != nil {
//	    return err
//	}
//	same := record.Equal(items[0], items[1])
//	key := record.Canonical(items[0])
package record
