package integrity

import (
	"data-integrity/core/record"
)

// OutputShape selects and renames the fields of the rows pushed to the output dataset.
type OutputShape struct {
	// PickFields keeps only these fields, in this order. Empty keeps every field.
	PickFields []string
	// RenameFields maps a field name to the name it is written under.
	RenameFields map[string]string
	// MaxEntries caps the number of rows pushed. Zero pushes every row.
	MaxEntries int
}

func (o OutputShape) validate() error {
	if o.MaxEntries < 0 {
		return configError("outputMaxEntries", "outputMaxEntries must not be negative, got %d", o.MaxEntries)
	}
	for _, name := range o.PickFields {
		if name == "" {
			return configError("outputPickFields", "outputPickFields must not contain empty names")
		}
	}
	for from, to := range o.RenameFields {
		if from == "" || to == "" {
			return configError("outputRenameFields", "outputRenameFields must map non-empty names, got %q -> %q", from, to)
		}
	}
	return nil
}

// Apply shapes rows. Fields are picked first, then renamed.
// Values that are not objects pass through unchanged.
func (o OutputShape) Apply(rows []record.Value) []record.Value {
	if o.MaxEntries > 0 && len(rows) > o.MaxEntries {
		rows = rows[:o.MaxEntries]
	}
	if len(o.PickFields) == 0 && len(o.RenameFields) == 0 {
		return rows
	}

	out := make([]record.Value, len(rows))
	for i, row := range rows {
		if !record.IsPlainObject(row) {
			out[i] = row
			continue
		}
		out[i] = record.ObjectValue(o.rename(o.pick(row.AsObject())))
	}
	return out
}

func (o OutputShape) pick(obj *record.Object) *record.Object {
	if len(o.PickFields) == 0 {
		return obj
	}
	picked := record.NewObject()
	for _, name := range o.PickFields {
		if v, ok := obj.Get(name); ok {
			picked.Set(name, v)
		}
	}
	return picked
}

func (o OutputShape) rename(obj *record.Object) *record.Object {
	if len(o.RenameFields) == 0 {
		return obj
	}
	renamed := record.NewObject()
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		if to, ok := o.RenameFields[key]; ok {
			key = to
		}
		renamed.Set(key, v)
	}
	return renamed
}
