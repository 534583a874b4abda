// Package integrity runs data integrity checks of a tested dataset against a
// curated reference dataset.
//
// A run optionally starts an actor or task that produces the tested dataset,
// downloads both datasets, compares records sharing an identity key, pushes one
// row per mismatching field to the output dataset, stores summary statistics
// in the key-value store and finally refreshes the reference: stale entries are
// dropped and the free capacity is filled with tested records not yet covered.
//
// Runs against the same reference dataset are serialized.
//
// # Errors
//
//   - ErrConfiguration: missing or invalid input (HTTP 400)
//   - ErrUnresolvableInput: the tested dataset cannot be determined or read (HTTP 422)
//   - ErrUpstream: the actor or task run did not succeed (HTTP 502)
//
// # HTTP Endpoints
//
//   - POST /integrity/check : Runs a check (supports ?dryRun=true).
//   - POST /integrity/compare : Compares inline collections, writes nothing.
//   - GET /integrity/stats : Returns the stats of the last run (supports ?key=).
package integrity
