package reconcile

import (
	"math/rand/v2"

	"data-integrity/core/compare"
	"data-integrity/core/record"
)

// Reconcile compares the tested records against the reference records and
// computes mismatch rows, statistics and, when enabled, the refreshed reference.
func Reconcile(testItems, referenceItems []record.Value, opts Options) *Result {
	analysis := compare.Analyze(compare.Input{
		TestItems:      testItems,
		ReferenceItems: referenceItems,
		Key:            compare.FieldsKey(opts.IdentityFields...),
		IgnoredFields:  opts.IgnoredFields,
		WarnFields:     opts.WarnFields,
	})

	mismatches := make([]compare.FieldMismatch, len(analysis.MismatchFields))
	failing := make(map[string]struct{})
	for i, row := range analysis.MismatchFields {
		row.ItemKeys = itemKeys(row.ItemValueTested, opts.IdentityFields)
		mismatches[i] = row
		failing[row.ItemCacheID] = struct{}{}
	}

	found := len(analysis.ReferenceItemsFound)
	result := &Result{
		Mismatches: mismatches,
		Stats: Stats{
			ReferenceItemsFound:    found,
			ReferenceItemsNotFound: len(analysis.ReferenceItemsNotFound),
			ReferenceItemsSuccess:  found - len(failing),
			ReferenceItemsFail:     len(failing),
		},
		Analysis: analysis,
	}

	if opts.RemoveStale {
		slots := opts.MaxReferenceEntries - found
		sampled := sample(analysis.TestItemsNotFound, slots, opts.Rand)

		refreshed := make([]record.Value, 0, found+len(sampled))
		refreshed = append(refreshed, analysis.ReferenceItemsFound...)
		refreshed = append(refreshed, sampled...)

		result.Refreshed = refreshed
		result.ReferenceRefreshed = true
	}

	return result
}

// itemKeys looks up each identity field on the tested record.
func itemKeys(tested record.Value, fields []string) map[string]record.Value {
	keys := make(map[string]record.Value, len(fields))
	for _, field := range fields {
		keys[field] = record.Field(tested, field)
	}
	return keys
}

// sample picks up to n items uniformly at random without replacement.
// The input slice is not modified. n <= 0 selects nothing.
func sample(items []record.Value, n int, rng *rand.Rand) []record.Value {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	if n > len(items) {
		n = len(items)
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	pool := append([]record.Value(nil), items...)
	for i := 0; i < n; i++ {
		j := i + intN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
