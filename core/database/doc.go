// Package database handles database connections and schema inspection.
//
// It wraps GORM and opens MySQL or SQLite connections based on the
// application's configuration. The SQL dataset backend stores collections and
// key-value entries through it.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, applies pool settings and
// verifies the connection with a ping bounded by Config.TimeoutSeconds.
//
// # Schema Inspection
//
// GetTableColumns reads a table's columns (SHOW COLUMNS on MySQL, PRAGMA
// table_info on SQLite). MissingColumns builds on it to verify that a table
// has the columns a store expects before it is used.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "dataset_items", "dataset_id", "body")
package database
