package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"data-integrity/core/record"
	"data-integrity/core/storage"

	"github.com/minio/minio-go/v7"
)

const contentTypeJSON = "application/json"

// ObjectStore keeps datasets as JSON objects in a bucket:
// <prefix>datasets/<id>.json and <prefix>kv/<key>.json.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string

	// mu serializes read-modify-write appends.
	mu sync.Mutex
}

// NewObjectStore creates a store on top of a storage client.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *ObjectStore) datasetObject(id string) string {
	return path.Join(s.prefix+"datasets", id+".json")
}

func (s *ObjectStore) keyObject(key string) string {
	return path.Join(s.prefix+"kv", key+".json")
}

// Fetch downloads and decodes a dataset object.
func (s *ObjectStore) Fetch(ctx context.Context, id string) ([]record.Value, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	data, err := s.download(ctx, s.datasetObject(id))
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, notFound("dataset", id)
		}
		return nil, fmt.Errorf("failed to fetch dataset %s: %w", id, err)
	}
	items, err := record.DecodeAll(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", id, err)
	}
	return items, nil
}

// Replace uploads the dataset, overwriting any previous object.
func (s *ObjectStore) Replace(ctx context.Context, id string, items []record.Value) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadItems(ctx, id, items)
}

// Append downloads the dataset, extends it and uploads it again.
func (s *ObjectStore) Append(ctx context.Context, id string, items []record.Value) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Fetch(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.uploadItems(ctx, id, append(existing, items...))
}

func (s *ObjectStore) uploadItems(ctx context.Context, id string, items []record.Value) error {
	data, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("failed to encode dataset %s: %w", id, err)
	}
	if err := s.upload(ctx, s.datasetObject(id), data); err != nil {
		return fmt.Errorf("failed to store dataset %s: %w", id, err)
	}
	return nil
}

// Put uploads a key-value entry as JSON.
func (s *ObjectStore) Put(ctx context.Context, key string, value any) error {
	if err := ValidateID(key); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	if err := s.upload(ctx, s.keyObject(key), data); err != nil {
		return fmt.Errorf("failed to store key %s: %w", key, err)
	}
	return nil
}

// Get downloads a key-value entry.
func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateID(key); err != nil {
		return nil, err
	}
	data, err := s.download(ctx, s.keyObject(key))
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, notFound("key", key)
		}
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, nil
}

// List lists dataset objects below the datasets prefix.
func (s *ObjectStore) List(ctx context.Context) ([]string, error) {
	prefix := s.prefix + "datasets/"
	ids := []string{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list datasets: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if !strings.HasSuffix(name, ".json") || strings.Contains(name, "/") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the dataset object.
func (s *ObjectStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	err := s.client.RemoveObject(ctx, s.bucket, s.datasetObject(id), minio.RemoveObjectOptions{})
	if err != nil && !storage.IsNotFound(err) {
		return fmt.Errorf("failed to delete dataset %s: %w", id, err)
	}
	return nil
}

func (s *ObjectStore) upload(ctx context.Context, object string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentTypeJSON,
	})
	return err
}

// download reads the whole object. minio reports a missing object on the first read.
func (s *ObjectStore) download(ctx context.Context, object string) ([]byte, error) {
	reader, err := s.client.GetObject(ctx, s.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
