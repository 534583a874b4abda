package compare

import "data-integrity/core/record"

// DefaultKey identifies a record by its full canonical serialization, so two
// records share an identity only when their content is identical.
func DefaultKey(item record.Value) string {
	return record.Canonical(item)
}

// FieldsKey identifies records by the values of the given fields, in order.
// With no fields it falls back to DefaultKey. Absent and null fields produce
// the same key.
func FieldsKey(fields ...string) KeyFunc {
	if len(fields) == 0 {
		return DefaultKey
	}
	names := append([]string(nil), fields...)
	return func(item record.Value) string {
		values := make([]record.Value, len(names))
		for i, name := range names {
			values[i] = record.Field(item, name)
		}
		return record.Canonical(record.Array(values...))
	}
}

// Analyze matches tested records to reference records by identity key and
// reports field level discrepancies for every matched pair.
func Analyze(in Input) *Analysis {
	key := in.Key
	if key == nil {
		key = DefaultKey
	}
	ignored := toSet(in.IgnoredFields)
	warn := toSet(in.WarnFields)

	index := newReferenceIndex(in.ReferenceItems, key)

	analysis := &Analysis{
		MismatchFields:         []FieldMismatch{},
		Items:                  []ItemReport{},
		ReferenceItemsFound:    []record.Value{},
		ReferenceItemsNotFound: []record.Value{},
		TestItemsFound:         []record.Value{},
		TestItemsNotFound:      []record.Value{},
	}

	for _, testItem := range in.TestItems {
		cacheID := key(testItem)
		entry, ok := index.get(cacheID)
		if !ok {
			analysis.TestItemsNotFound = append(analysis.TestItemsNotFound, testItem)
			continue
		}

		entry.Found = true
		analysis.TestItemsFound = append(analysis.TestItemsFound, testItem)
		analysis.Items = append(analysis.Items, compareItems(cacheID, entry.Item, testItem, ignored))
	}

	for _, entry := range index.entries() {
		if entry.Found {
			analysis.ReferenceItemsFound = append(analysis.ReferenceItemsFound, entry.Item)
		} else {
			analysis.ReferenceItemsNotFound = append(analysis.ReferenceItemsNotFound, entry.Item)
		}
	}

	analysis.MismatchFields = collectMismatches(analysis.Items, warn)
	return analysis
}

// compareItems builds the report for one matched pair.
//
// The top-level type check only runs when at least one side is not a plain
// object. For two plain objects MatchType therefore stays false no matter how
// the fields compare, so such pairs are always candidates for mismatch rows;
// only fields that actually differ end up in the output.
func compareItems(cacheID string, reference, tested record.Value, ignored map[string]struct{}) ItemReport {
	identical := record.Equal(tested, reference)

	matchType := false
	if !record.IsPlainObject(tested) || !record.IsPlainObject(reference) {
		matchType = record.TypeOf(tested) == record.TypeOf(reference)
	}

	names := fieldNames(reference, tested, ignored)
	fields := make([]FieldReport, 0, len(names))
	allMatch, allTypes := true, true
	for _, name := range names {
		ref := record.Field(reference, name)
		got := record.Field(tested, name)
		fr := FieldReport{
			FieldName:      name,
			Match:          record.Equal(ref, got),
			MatchType:      record.TypeOf(ref) == record.TypeOf(got),
			ValueReference: ref,
			ValueTested:    got,
		}
		allMatch = allMatch && fr.Match
		allTypes = allTypes && fr.MatchType
		fields = append(fields, fr)
	}

	return ItemReport{
		CacheID:        cacheID,
		Match:          identical && allMatch,
		MatchType:      matchType && allTypes,
		Fields:         fields,
		ValueReference: reference,
		ValueTested:    tested,
	}
}

// fieldNames returns the union of both records' field names, reference first,
// without duplicates and without ignored fields.
func fieldNames(reference, tested record.Value, ignored map[string]struct{}) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, keys := range [][]string{record.Keys(reference), record.Keys(tested)} {
		for _, name := range keys {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			if _, skip := ignored[name]; skip {
				continue
			}
			names = append(names, name)
		}
	}
	return names
}

func collectMismatches(items []ItemReport, warn map[string]struct{}) []FieldMismatch {
	rows := []FieldMismatch{}
	for _, item := range items {
		if item.Match && item.MatchType {
			continue
		}
		for _, field := range item.Fields {
			if field.Match && field.MatchType {
				continue
			}
			rows = append(rows, FieldMismatch{
				ItemCacheID:         item.CacheID,
				ItemTypeMismatch:    !item.MatchType,
				ItemValueReference:  item.ValueReference,
				ItemValueTested:     item.ValueTested,
				FieldName:           field.FieldName,
				FieldTypeMismatch:   !field.MatchType,
				FieldValueReference: field.ValueReference,
				FieldValueTested:    field.ValueTested,
				Severity:            severityFor(field.FieldName, warn),
			})
		}
	}
	return rows
}

func severityFor(field string, warn map[string]struct{}) Severity {
	if _, ok := warn[field]; ok {
		return SeverityWarn
	}
	return SeverityError
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
