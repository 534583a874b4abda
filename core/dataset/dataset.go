package dataset

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"data-integrity/core/record"
)

// ErrNotFound is returned when a dataset or key does not exist.
var ErrNotFound = errors.New("not found")

// Source reads datasets.
type Source interface {
	// Fetch returns every record of the dataset in stored order.
	Fetch(ctx context.Context, id string) ([]record.Value, error)
}

// Sink writes datasets.
type Sink interface {
	// Replace clears the dataset and stores items in their place.
	Replace(ctx context.Context, id string, items []record.Value) error
	// Append adds items after the existing records, creating the dataset if needed.
	Append(ctx context.Context, id string, items []record.Value) error
}

// KeyValue stores JSON values under string keys.
type KeyValue interface {
	// Put marshals value to JSON and stores it under key.
	Put(ctx context.Context, key string, value any) error
	// Get returns the stored JSON for key.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Store combines all dataset operations.
type Store interface {
	Source
	Sink
	KeyValue

	// List returns the ids of all stored datasets, sorted.
	List(ctx context.Context) ([]string, error)
	// Delete removes a dataset. Deleting a missing dataset is not an error.
	Delete(ctx context.Context, id string) error
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._~-]{0,199}$`)

// ValidateID checks that id can be used as a dataset id or key.
// Ids start with a letter or digit and may contain letters, digits, '.', '_', '~' and '-'.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid dataset id %q", id)
	}
	return nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func encodeItems(items []record.Value) ([]byte, error) {
	if items == nil {
		items = []record.Value{}
	}
	return record.MarshalAll(items)
}
