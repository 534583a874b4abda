// Package reconcile drives a comparison run between a reference collection and
// a tested collection.
//
// It turns the matcher output into three results:
//   - severity tagged mismatch rows enriched with identity field values
//   - summary statistics for the run
//   - a refreshed reference collection with stale entries replaced
//
// # Refreshing the reference
//
// Reference records that were not found in the tested collection are stale.
// When RemoveStale is set, the refreshed reference keeps every found record in
// its original order and fills the remaining capacity (MaxReferenceEntries)
// with tested records that had no reference counterpart, sampled uniformly
// without replacement.
//
// # Usage Example
//
//	opts := reconcile.DefaultOptions()
//	opts.IdentityFields = []string{"id"}
//	opts.WarnFields = []string{"description"}
//
//	result := reconcile.Reconcile(tested, reference, opts)
//	fmt.Println(result.Stats.ReferenceItemsFail)
//
// Reconcile performs no I/O. Fetching the collections and persisting the
// results is left to the caller.
package reconcile
