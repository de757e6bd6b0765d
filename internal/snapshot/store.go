// Package snapshot persists parsed shop rows as (static item, daily
// observation) pairs, at most once per calendar day.
package snapshot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"kotd-tracker/internal/models"
	"kotd-tracker/internal/parse"
	"kotd-tracker/internal/storage"

	"github.com/sirupsen/logrus"
)

// maxBatchOps bounds one physical commit, matching document-store
// batch limits.
const maxBatchOps = 400

type Store struct {
	backend storage.Backend
	log     *logrus.Entry
	// mu serializes the check-then-write of Upsert so two concurrent
	// ingestions of the same date cannot both pass the existence check.
	mu sync.Mutex
}

func NewStore(backend storage.Backend) *Store {
	return &Store{
		backend: backend,
		log:     logrus.WithField("component", "snapshot"),
	}
}

// UpsertResult reports what one ingestion did.
type UpsertResult struct {
	Date            string `json:"date"`
	Items           int    `json:"items"`
	Writes          int    `json:"writes"`
	AlreadyRecorded bool   `json:"already_recorded"`
}

// Upsert records one day's rows. Items are overwritten wholesale;
// observations are written under their (itemID, date) key. If the date
// is already recorded the call is a no-op with zero writes.
//
// The day marker goes into the final batch, so a failure partway
// through the sequence leaves the date unrecorded and a retry will
// re-evaluate existence and write again.
func (s *Store) Upsert(ctx context.Context, date string, sourceTime time.Time, rows []models.RawRow) (*UpsertResult, error) {
	if date == "" {
		return nil, fmt.Errorf("upsert: missing date")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var day models.IngestedDay
	recorded, err := s.backend.Get(ctx, storage.CollectionDays, date, &day)
	if err != nil {
		return nil, err
	}
	if recorded {
		s.log.WithField("date", date).Info("date already recorded, skipping")
		return &UpsertResult{Date: date, AlreadyRecorded: true}, nil
	}

	now := time.Now().UTC()
	ops := make([]storage.WriteOp, 0, len(rows)*2+1)
	for _, row := range rows {
		item := models.Item{
			ID:         row.ID,
			Name:       row.Name,
			Category:   models.CategoryFromTag(row.Type),
			TypeTag:    row.Type,
			Element:    row.Element,
			BaseDamage: parse.ParseDamage(row.Damage),
			ReqLevel:   parse.ParseReqLevel(row.ReqLevel),
			UpdatedAt:  now,
		}
		ops = append(ops, storage.WriteOp{
			Collection: storage.CollectionItems,
			Key:        strconv.FormatInt(row.ID, 10),
			Value:      &item,
			Mode:       storage.ModeReplace,
		})

		obs := models.DailyObservation{
			Key:        models.ObservationKey(row.ID, date),
			ItemID:     row.ID,
			Date:       date,
			Price:      parse.ParsePrice(row.Price),
			Durability: parse.ParseDurability(row.Durability),
			CreatedAt:  now,
		}
		ops = append(ops, storage.WriteOp{
			Collection: storage.CollectionObservations,
			Key:        obs.Key,
			Value:      &obs,
			Mode:       storage.ModeReplace,
		})
	}
	ops = append(ops, storage.WriteOp{
		Collection: storage.CollectionDays,
		Key:        date,
		Value: &models.IngestedDay{
			Date:       date,
			ItemCount:  len(rows),
			SourceTime: sourceTime.UTC(),
			CreatedAt:  now,
		},
		Mode: storage.ModeReplace,
	})

	for start := 0; start < len(ops); start += maxBatchOps {
		end := start + maxBatchOps
		if end > len(ops) {
			end = len(ops)
		}
		if err := s.backend.BatchWrite(ctx, ops[start:end]); err != nil {
			return nil, fmt.Errorf("upsert %s: %w", date, err)
		}
	}

	s.log.WithFields(logrus.Fields{"date": date, "items": len(rows), "writes": len(ops)}).Info("snapshot recorded")
	return &UpsertResult{Date: date, Items: len(rows), Writes: len(ops)}, nil
}

// GetByDate returns the day's observations joined with their items,
// ordered by item id.
func (s *Store) GetByDate(ctx context.Context, date string) ([]models.Record, error) {
	var observations []models.DailyObservation
	err := s.backend.Query(ctx, storage.CollectionObservations, storage.Query{
		Filters: []storage.Filter{{Field: "date", Op: storage.OpEq, Value: date}},
		OrderBy: "item_id",
	}, &observations)
	if err != nil {
		return nil, err
	}
	if len(observations) == 0 {
		return nil, nil
	}

	var items []models.Item
	if err := s.backend.Query(ctx, storage.CollectionItems, storage.Query{}, &items); err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	records := make([]models.Record, 0, len(observations))
	for _, obs := range observations {
		item, ok := byID[obs.ItemID]
		if !ok {
			// every observation should have its item; tolerate and log
			s.log.WithField("item_id", obs.ItemID).Warn("observation without item record")
			item = models.Item{ID: obs.ItemID}
		}
		records = append(records, models.Record{Item: item, Observation: obs})
	}
	return records, nil
}

// GetHistory returns an item's observations ordered by date. Start and
// end bound the range when non-empty (inclusive).
func (s *Store) GetHistory(ctx context.Context, itemID int64, start, end string) ([]models.DailyObservation, error) {
	filters := []storage.Filter{{Field: "item_id", Op: storage.OpEq, Value: itemID}}
	if start != "" {
		filters = append(filters, storage.Filter{Field: "date", Op: storage.OpGte, Value: start})
	}
	if end != "" {
		filters = append(filters, storage.Filter{Field: "date", Op: storage.OpLte, Value: end})
	}
	var observations []models.DailyObservation
	err := s.backend.Query(ctx, storage.CollectionObservations, storage.Query{
		Filters: filters,
		OrderBy: "date",
	}, &observations)
	if err != nil {
		return nil, err
	}
	return observations, nil
}

// GetLatestDate returns the most recent recorded date, or "" when
// nothing has been ingested yet.
func (s *Store) GetLatestDate(ctx context.Context) (string, error) {
	var days []models.IngestedDay
	err := s.backend.Query(ctx, storage.CollectionDays, storage.Query{
		OrderBy:    "date",
		Descending: true,
		Limit:      1,
	}, &days)
	if err != nil {
		return "", err
	}
	if len(days) == 0 {
		return "", nil
	}
	return days[0].Date, nil
}

// Dates returns every recorded day, newest first.
func (s *Store) Dates(ctx context.Context) ([]models.IngestedDay, error) {
	var days []models.IngestedDay
	err := s.backend.Query(ctx, storage.CollectionDays, storage.Query{
		OrderBy:    "date",
		Descending: true,
	}, &days)
	if err != nil {
		return nil, err
	}
	return days, nil
}

// PreviousDate returns the newest recorded date strictly before the
// given one, or "" if none exists.
func (s *Store) PreviousDate(ctx context.Context, date string) (string, error) {
	var days []models.IngestedDay
	err := s.backend.Query(ctx, storage.CollectionDays, storage.Query{
		Filters:    []storage.Filter{{Field: "date", Op: storage.OpLte, Value: date}},
		OrderBy:    "date",
		Descending: true,
		Limit:      2,
	}, &days)
	if err != nil {
		return "", err
	}
	for _, d := range days {
		if d.Date < date {
			return d.Date, nil
		}
	}
	return "", nil
}
