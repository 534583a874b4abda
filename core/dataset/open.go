package dataset

import (
	"context"
	"fmt"

	"data-integrity/core/database"
	"data-integrity/core/storage"
)

// Open builds the configured backend, connecting to object storage or the
// database only when that backend is selected.
func Open(ctx context.Context, cfg Config, storageCfg storage.Config, dbCfg database.Config) (Store, error) {
	var store Store

	switch cfg.Driver {
	case DriverFile, "":
		store = NewFileStore(cfg.Dir)

	case DriverS3:
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureBucket(ctx, client, storageCfg.Bucket, storageCfg.Region); err != nil {
			return nil, err
		}
		store = NewObjectStore(client, storageCfg.Bucket, cfg.Prefix)

	case DriverSQL:
		db, err := database.Connect(dbCfg)
		if err != nil {
			return nil, err
		}
		sqlStore := NewSQLStore(db)
		if err := sqlStore.Migrate(ctx); err != nil {
			return nil, err
		}
		store = sqlStore

	default:
		return nil, fmt.Errorf("unsupported dataset driver: %s", cfg.Driver)
	}

	if ttl := cfg.CacheTTL(); ttl > 0 {
		store = NewCachedStore(store, ttl)
	}
	return store, nil
}
