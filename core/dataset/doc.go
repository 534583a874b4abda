// Package dataset stores record collections and small key-value entries.
//
// A dataset is an ordered sequence of records addressed by id. Stores read
// datasets (Source), replace or extend them (Sink) and keep JSON values under
// well-known keys (KeyValue).
//
// # Backends
//
// Open selects a backend from Config.Driver:
//   - file: JSON files below a directory
//   - s3: objects in a MinIO or S3 bucket
//   - sql: rows in MySQL or SQLite via GORM
//
// Any backend can be wrapped in a CachedStore, which keeps fetched datasets
// for a TTL and collapses concurrent fetches of the same id into one.
//
// # Usage
//
//	store, err := dataset.Open(ctx, cfg.Dataset, cfg.Storage, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	items, err := store.Fetch(ctx, "reference")
package dataset
