package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/urbanbank/pkg/repository"
	"gorm.io/gorm"
)

// CollectionRecord is one record of a collection stored as a JSON payload.
type CollectionRecord struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"index;not null;size:64"`
	Position   int    `gorm:"not null"`
	Payload    string `gorm:"type:jsonb;not null"`
}

// TableName specifies the table name for the CollectionRecord model.
func (CollectionRecord) TableName() string {
	return "collection_records"
}

// GormStore keeps collections in a single Postgres table, one row per
// record, ordered by position. Save replaces a collection inside one
// database transaction.
//
// Update is serialised per collection inside this process only.
type GormStore struct {
	db     *gorm.DB
	logger *slog.Logger
	locks  *collectionLocks
}

func NewGormStore(db *gorm.DB, logger *slog.Logger) *GormStore {
	return &GormStore{
		db:     db,
		logger: logger.With("component", "gorm_store"),
		locks:  newCollectionLocks(),
	}
}

// Ensure migrates the records table. A collection without rows is empty.
func (s *GormStore) Ensure(ctx context.Context, collections ...string) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&CollectionRecord{}); err != nil {
		return fmt.Errorf("migrate collection_records: %w", err)
	}
	return nil
}

func (s *GormStore) Load(ctx context.Context, collection string) ([]repository.Record, error) {
	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()
	return s.load(ctx, collection)
}

func (s *GormStore) Save(ctx context.Context, collection string, records []repository.Record) error {
	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()
	return s.save(ctx, collection, records)
}

func (s *GormStore) Update(
	ctx context.Context,
	collection string,
	fn func(records []repository.Record) ([]repository.Record, error),
) error {
	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()

	records, err := s.load(ctx, collection)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return s.save(ctx, collection, updated)
}

func (s *GormStore) load(ctx context.Context, collection string) ([]repository.Record, error) {
	var rows []CollectionRecord
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("position").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load collection %q: %w", collection, err)
	}
	records := make([]repository.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeRecord([]byte(row.Payload))
		if err != nil {
			s.logger.Warn("Skipping unparsable record", "collection", collection, "id", row.ID, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *GormStore) save(ctx context.Context, collection string, records []repository.Record) error {
	rows := make([]CollectionRecord, 0, len(records))
	for i, rec := range records {
		payload, err := encodeRecord(rec)
		if err != nil {
			return fmt.Errorf("encode collection %q: %w", collection, err)
		}
		rows = append(rows, CollectionRecord{
			Collection: collection,
			Position:   i,
			Payload:    string(payload),
		})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", collection).Delete(&CollectionRecord{}).Error; err != nil {
			return fmt.Errorf("clear collection %q: %w", collection, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("save collection %q: %w", collection, err)
		}
		return nil
	})
}
