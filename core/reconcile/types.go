package reconcile

import (
	"math/rand/v2"

	"data-integrity/core/compare"
	"data-integrity/core/record"
)

// DefaultMaxReferenceEntries is the reference capacity used when none is configured.
const DefaultMaxReferenceEntries = 20

// Options controls a reconciliation run.
type Options struct {
	// IdentityFields are the fields whose values identify a record.
	// If empty, the whole record is its identity.
	IdentityFields []string

	// IgnoredFields are excluded from field comparison.
	// Use it for values that change on every run, such as timestamps.
	IgnoredFields []string

	// WarnFields produce WARN rows instead of ERROR rows.
	WarnFields []string

	// RemoveStale enables computation of the refreshed reference collection.
	RemoveStale bool

	// MaxReferenceEntries caps how many entries the refreshed reference is backfilled to.
	MaxReferenceEntries int

	// Rand is the sampling source for backfilled entries.
	// If nil, the global source is used.
	Rand *rand.Rand
}

// DefaultOptions returns options with stale removal enabled and the default capacity.
func DefaultOptions() Options {
	return Options{
		RemoveStale:         true,
		MaxReferenceEntries: DefaultMaxReferenceEntries,
	}
}

// Stats summarizes a reconciliation run.
type Stats struct {
	// ReferenceItemsFound counts reference records matched by a tested record.
	ReferenceItemsFound int `json:"referenceItemsFound" yaml:"referenceItemsFound"`

	// ReferenceItemsNotFound counts stale reference records.
	ReferenceItemsNotFound int `json:"referenceItemsNotFound" yaml:"referenceItemsNotFound"`

	// ReferenceItemsSuccess counts matched records without any mismatch row.
	ReferenceItemsSuccess int `json:"referenceItemsSuccess" yaml:"referenceItemsSuccess"`

	// ReferenceItemsFail counts distinct matched records with at least one mismatch row.
	ReferenceItemsFail int `json:"referenceItemsFail" yaml:"referenceItemsFail"`
}

// Valid reports whether the counts are consistent with each other.
func (s Stats) Valid() bool {
	return s.ReferenceItemsSuccess >= 0 &&
		s.ReferenceItemsSuccess <= s.ReferenceItemsFound &&
		s.ReferenceItemsSuccess+s.ReferenceItemsFail == s.ReferenceItemsFound
}

// Result is the output of Reconcile.
type Result struct {
	// Mismatches holds one row per mismatching field, with ItemKeys filled in.
	Mismatches []compare.FieldMismatch `json:"mismatches"`

	// Stats summarizes the run.
	Stats Stats `json:"stats"`

	// Refreshed is the reference collection to persist for the next run.
	// Only meaningful when ReferenceRefreshed is true.
	Refreshed []record.Value `json:"refreshed,omitempty"`

	// ReferenceRefreshed is true when stale removal ran and Refreshed should replace the reference.
	ReferenceRefreshed bool `json:"referenceRefreshed"`

	// Analysis is the raw matcher output.
	Analysis *compare.Analysis `json:"-"`
}
