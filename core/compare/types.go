package compare

import "data-integrity/core/record"

// Severity classifies a field mismatch.
type Severity string

const (
	// SeverityWarn marks mismatches on fields listed as warn-only.
	SeverityWarn Severity = "WARN"
	// SeverityError marks every other mismatch.
	SeverityError Severity = "ERROR"
)

// KeyFunc derives the identity key of a record. It must be pure and deterministic.
type KeyFunc func(item record.Value) string

// ReferenceEntry wraps a reference record while it is being matched.
type ReferenceEntry struct {
	// Item is the reference record.
	Item record.Value

	// Found flips to true once a tested record maps to the same identity key.
	Found bool
}

// FieldReport compares a single top-level field of a matched pair.
type FieldReport struct {
	// FieldName is the name of the compared field.
	FieldName string `json:"fieldName"`

	// Match is true when both values are deeply equal.
	Match bool `json:"match"`

	// MatchType is true when both values share the same type category.
	MatchType bool `json:"matchType"`

	// ValueReference is what we expect.
	ValueReference record.Value `json:"valueReference"`

	// ValueTested is what we found.
	ValueTested record.Value `json:"valueTested"`
}

// ItemReport compares a matched pair of records.
type ItemReport struct {
	// CacheID is the identity key both records share.
	CacheID string `json:"cacheId"`

	// Match is true when the records are deeply equal and every field matches.
	Match bool `json:"match"`

	// MatchType is true when the top-level types agree and every field type matches.
	// Two plain objects never get MatchType true; see compareItems.
	MatchType bool `json:"matchType"`

	// Fields holds the per-field comparison, in union order.
	Fields []FieldReport `json:"fields"`

	ValueReference record.Value `json:"valueReference"`
	ValueTested    record.Value `json:"valueTested"`
}

// FieldMismatch is one reported discrepancy, scoped to one field of one matched pair.
type FieldMismatch struct {
	ItemCacheID string `json:"itemCacheId"`

	// ItemKeys holds the identity field values looked up on the tested record.
	// It is filled in by the reconciliation driver.
	ItemKeys map[string]record.Value `json:"itemKeys"`

	// ItemTypeMismatch is the negation of the item's MatchType.
	ItemTypeMismatch   bool         `json:"itemTypeMismatch"`
	ItemValueReference record.Value `json:"itemValueReference"`
	ItemValueTested    record.Value `json:"itemValueTested"`

	FieldName string `json:"fieldName"`

	// FieldTypeMismatch is the negation of the field's MatchType.
	FieldTypeMismatch   bool         `json:"fieldTypeMismatch"`
	FieldValueReference record.Value `json:"fieldValueReference"`
	FieldValueTested    record.Value `json:"fieldValueTested"`

	Severity Severity `json:"severity"`
}

// Input bundles the collections and settings for Analyze.
type Input struct {
	// TestItems are checked against the reference. Shape and size are unknown.
	TestItems []record.Value

	// ReferenceItems describe what we expect. Usually tens of entries.
	ReferenceItems []record.Value

	// Key derives identity keys. Nil means DefaultKey.
	Key KeyFunc

	// IgnoredFields never appear in field reports.
	IgnoredFields []string

	// WarnFields downgrade mismatches to SeverityWarn.
	WarnFields []string
}

// Analysis is the output of Analyze.
type Analysis struct {
	MismatchFields []FieldMismatch

	// Items holds a report for every matched pair, in tested order.
	Items []ItemReport

	ReferenceItemsFound    []record.Value
	ReferenceItemsNotFound []record.Value
	TestItemsFound         []record.Value
	TestItemsNotFound      []record.Value
}
