package datasets

import (
	"context"
	"errors"
	"fmt"

	"data-integrity/core/dataset"
	"data-integrity/core/record"

	"go.uber.org/zap"
)

// ErrInvalidID is returned for dataset ids the store cannot hold.
var ErrInvalidID = errors.New("invalid dataset id")

// Page is a window of a dataset.
type Page struct {
	ID     string         `json:"id"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
	Items  []record.Value `json:"items" swaggertype:"array,object"`
}

// Service manages stored datasets.
type Service struct {
	store  dataset.Store
	logger *zap.Logger
}

// NewService creates a new dataset service.
func NewService(store dataset.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// List returns the ids of all datasets.
func (s *Service) List(ctx context.Context) ([]string, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Get returns up to limit items starting at offset. A limit of 0 or less returns everything after offset.
func (s *Service) Get(ctx context.Context, id string, offset, limit int) (*Page, error) {
	if err := check(id); err != nil {
		return nil, err
	}
	items, err := s.store.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	total := len(items)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	return &Page{
		ID:     id,
		Total:  total,
		Offset: offset,
		Limit:  limit,
		Items:  append([]record.Value{}, items[offset:end]...),
	}, nil
}

// Replace clears the dataset and stores items in its place.
func (s *Service) Replace(ctx context.Context, id string, items []record.Value) error {
	if err := check(id); err != nil {
		return err
	}
	if err := s.store.Replace(ctx, id, items); err != nil {
		return err
	}
	s.logger.Info("Replaced dataset", zap.String("dataset", id), zap.Int("items", len(items)))
	return nil
}

// Append adds items to the end of the dataset.
func (s *Service) Append(ctx context.Context, id string, items []record.Value) error {
	if err := check(id); err != nil {
		return err
	}
	if err := s.store.Append(ctx, id, items); err != nil {
		return err
	}
	s.logger.Info("Appended to dataset", zap.String("dataset", id), zap.Int("items", len(items)))
	return nil
}

// Delete removes the dataset.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := check(id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted dataset", zap.String("dataset", id))
	return nil
}

func check(id string) error {
	if err := dataset.ValidateID(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
