package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"data-integrity/core/database"
	"data-integrity/core/record"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

// datasetItem is one record of a dataset, stored as its JSON body.
type datasetItem struct {
	ID        uint   `gorm:"primaryKey"`
	DatasetID string `gorm:"column:dataset_id;size:191;not null;index:idx_dataset_items_position,priority:1"`
	Position  int    `gorm:"column:position;not null;index:idx_dataset_items_position,priority:2"`
	Body      string `gorm:"column:body;type:text;not null"`
}

func (datasetItem) TableName() string { return "dataset_items" }

// kvEntry is one key-value entry.
type kvEntry struct {
	EntryKey string `gorm:"column:entry_key;primaryKey;size:191"`
	Value    string `gorm:"column:value;type:text;not null"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLStore keeps datasets and key-value entries in two tables.
// An id with no rows reads as an empty dataset.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore creates a store on an open connection. Call Migrate before first use.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Migrate creates the tables if needed and verifies their columns.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&datasetItem{}, &kvEntry{}); err != nil {
		return fmt.Errorf("failed to migrate dataset tables: %w", err)
	}

	required := map[string][]string{
		datasetItem{}.TableName(): {"dataset_id", "position", "body"},
		kvEntry{}.TableName():     {"entry_key", "value"},
	}
	for table, columns := range required {
		missing, err := database.MissingColumns(s.db.WithContext(ctx), table, columns...)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("table %s is missing columns: %s", table, strings.Join(missing, ", "))
		}
	}
	return nil
}

// Fetch loads the dataset rows in position order.
func (s *SQLStore) Fetch(ctx context.Context, id string) ([]record.Value, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var rows []datasetItem
	err := s.db.WithContext(ctx).
		Where("dataset_id = ?", id).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset %s: %w", id, err)
	}

	items := make([]record.Value, len(rows))
	for i, row := range rows {
		v, err := record.Decode([]byte(row.Body))
		if err != nil {
			return nil, fmt.Errorf("dataset %s position %d: %w", id, row.Position, err)
		}
		items[i] = v
	}
	return items, nil
}

// Replace deletes the dataset rows and inserts items in one transaction.
func (s *SQLStore) Replace(ctx context.Context, id string, items []record.Value) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	rows, err := toRows(id, 0, items)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", id).Delete(&datasetItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear dataset %s: %w", id, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert dataset %s: %w", id, err)
		}
		return nil
	})
}

// Append inserts items after the last stored position.
func (s *SQLStore) Append(ctx context.Context, id string, items []record.Value) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		err := tx.Model(&datasetItem{}).
			Where("dataset_id = ?", id).
			Select("COALESCE(MAX(position), -1)").
			Scan(&last).Error
		if err != nil {
			return fmt.Errorf("failed to read dataset %s: %w", id, err)
		}

		rows, err := toRows(id, last+1, items)
		if err != nil {
			return err
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to append to dataset %s: %w", id, err)
		}
		return nil
	})
}

// Put upserts a key-value entry.
func (s *SQLStore) Put(ctx context.Context, key string, value any) error {
	if err := ValidateID(key); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}

	entry := kvEntry{EntryKey: key, Value: string(data)}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to store key %s: %w", key, err)
	}
	return nil
}

// Get reads a key-value entry.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateID(key); err != nil {
		return nil, err
	}

	var entry kvEntry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("key", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

// List returns the distinct dataset ids that have rows.
func (s *SQLStore) List(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).
		Model(&datasetItem{}).
		Distinct("dataset_id").
		Order("dataset_id").
		Pluck("dataset_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return ids, nil
}

// Delete removes every row of the dataset.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("dataset_id = ?", id).Delete(&datasetItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete dataset %s: %w", id, err)
	}
	return nil
}

func toRows(id string, start int, items []record.Value) ([]datasetItem, error) {
	rows := make([]datasetItem, len(items))
	for i, item := range items {
		body, err := item.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode dataset %s item %d: %w", id, i, err)
		}
		rows[i] = datasetItem{DatasetID: id, Position: start + i, Body: string(body)}
	}
	return rows, nil
}
