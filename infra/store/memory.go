package store

import (
	"context"
	"sync"

	"github.com/amirasaad/urbanbank/pkg/repository"
)

// MemoryStore keeps encoded collections in memory. Records go through the
// same JSON codec as the file store, so callers never share maps with it.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	locks *collectionLocks
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string][]byte),
		locks: newCollectionLocks(),
	}
}

// SetRaw replaces a collection with raw bytes, valid JSON or not.
func (s *MemoryStore) SetRaw(collection string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[collection] = data
}

func (s *MemoryStore) Ensure(ctx context.Context, collections ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range collections {
		if _, ok := s.data[c]; !ok {
			s.data[c] = []byte("[]")
		}
	}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, collection string) ([]repository.Record, error) {
	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()
	return s.load(collection), nil
}

func (s *MemoryStore) Save(ctx context.Context, collection string, records []repository.Record) error {
	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()
	return s.save(collection, records)
}

func (s *MemoryStore) Update(
	ctx context.Context,
	collection string,
	fn func(records []repository.Record) ([]repository.Record, error),
) error {
	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()

	updated, err := fn(s.load(collection))
	if err != nil {
		return err
	}
	return s.save(collection, updated)
}

func (s *MemoryStore) load(collection string) []repository.Record {
	s.mu.Lock()
	data, ok := s.data[collection]
	s.mu.Unlock()
	if !ok {
		return []repository.Record{}
	}
	records, err := decodeRecords(data)
	if err != nil {
		return []repository.Record{}
	}
	return records
}

func (s *MemoryStore) save(collection string, records []repository.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[collection] = data
	s.mu.Unlock()
	return nil
}
