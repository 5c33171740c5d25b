package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/amirasaad/urbanbank/pkg/repository"
)

// FileStore keeps each collection as a JSON array in <dir>/<collection>.json.
//
// Writes go through a temp file and a rename, so a crash never leaves a
// half-written collection. Writes to different collections are independent.
type FileStore struct {
	dir    string
	logger *slog.Logger
	locks  *collectionLocks
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: logger.With("component", "file_store", "dir", dir),
		locks:  newCollectionLocks(),
	}
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *FileStore) Ensure(ctx context.Context, collections ...string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	for _, c := range collections {
		mu := s.locks.get(c)
		mu.Lock()
		_, err := os.Stat(s.path(c))
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("Initialising empty collection", "collection", c)
			err = s.save(c, nil)
		}
		mu.Unlock()
		if err != nil {
			return fmt.Errorf("ensure collection %q: %w", c, err)
		}
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, collection string) ([]repository.Record, error) {
	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()
	return s.load(collection)
}

func (s *FileStore) Save(ctx context.Context, collection string, records []repository.Record) error {
	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()
	return s.save(collection, records)
}

func (s *FileStore) Update(
	ctx context.Context,
	collection string,
	fn func(records []repository.Record) ([]repository.Record, error),
) error {
	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()

	records, err := s.load(collection)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return s.save(collection, updated)
}

func (s *FileStore) load(collection string) ([]repository.Record, error) {
	data, err := os.ReadFile(s.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return []repository.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %q: %w", collection, err)
	}
	records, err := decodeRecords(data)
	if err != nil {
		s.logger.Warn("Unparsable collection treated as empty", "collection", collection, "error", err)
		return []repository.Record{}, nil
	}
	return records, nil
}

func (s *FileStore) save(collection string, records []repository.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", collection, err)
	}
	tmp, err := os.CreateTemp(s.dir, collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("write collection %q: %w", collection, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()           //nolint:errcheck
		os.Remove(tmp.Name()) //nolint:errcheck
		return fmt.Errorf("write collection %q: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return fmt.Errorf("write collection %q: %w", collection, err)
	}
	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return fmt.Errorf("replace collection %q: %w", collection, err)
	}
	return nil
}
