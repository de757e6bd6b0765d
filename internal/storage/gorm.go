package storage

import (
	"context"
	"fmt"

	"kotd-tracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore adapts a GORM connection (MySQL in production) to the
// Backend contract. Collections map to the model tables; replace-mode
// writes become upserts that overwrite every column.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, collection, key string, dest any) (bool, error) {
	pk, err := primaryKeyColumn(collection)
	if err != nil {
		return false, err
	}
	tx := s.db.WithContext(ctx).Where(pk+" = ?", key).Limit(1).Find(dest)
	if tx.Error != nil {
		return false, fmt.Errorf("get %s/%s: %w", collection, key, tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (s *GormStore) BatchWrite(ctx context.Context, ops []WriteOp) error {
	if len(ops) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if op.Mode != ModeReplace {
				return fmt.Errorf("unsupported write mode %q for %s/%s", op.Mode, op.Collection, op.Key)
			}
			// UpdateAll makes the upsert a full replacement, never a merge
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(op.Value).Error; err != nil {
				return fmt.Errorf("write %s/%s: %w", op.Collection, op.Key, err)
			}
		}
		return nil
	})
}

func (s *GormStore) Query(ctx context.Context, collection string, q Query, dest any) error {
	tx := s.db.WithContext(ctx)
	for _, f := range q.Filters {
		tx = tx.Where(fmt.Sprintf("%s %s ?", f.Field, f.Op), f.Value)
	}
	if q.OrderBy != "" {
		order := q.OrderBy
		if q.Descending {
			order += " DESC"
		}
		tx = tx.Order(order)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(dest).Error; err != nil {
		return fmt.Errorf("query %s: %w", collection, err)
	}
	return nil
}

func primaryKeyColumn(collection string) (string, error) {
	switch collection {
	case CollectionItems:
		return "id", nil
	case CollectionObservations:
		return "`key`", nil
	case CollectionDays:
		return "date", nil
	default:
		return "", fmt.Errorf("unknown collection %q", collection)
	}
}

// Models returns the record types the adapter persists, in automigrate
// order.
func Models() []any {
	return []any{&models.Item{}, &models.DailyObservation{}, &models.IngestedDay{}}
}
