package services

import (
	"context"
	"time"

	"kotd-tracker/internal/parse"
	"kotd-tracker/internal/snapshot"

	"github.com/sirupsen/logrus"
)

// IngestResult is what one ingestion attempt did, in API-friendly
// form.
type IngestResult struct {
	Date            string    `json:"date"`
	Items           int       `json:"items"`
	SkippedRows     int       `json:"skipped_rows"`
	AlreadyRecorded bool      `json:"already_recorded"`
	SourceTime      time.Time `json:"source_time"`
}

// Notifier receives successful ingest results; the websocket hub
// implements it.
type Notifier interface {
	NotifyIngest(result IngestResult)
}

// IngestService runs the fetch -> extract -> upsert pipeline. It does
// not retry; failures are surfaced and the scheduler decides.
type IngestService struct {
	provider RawTextProvider
	store    *snapshot.Store
	notifier Notifier
	log      *logrus.Entry
}

func NewIngestService(provider RawTextProvider, store *snapshot.Store) *IngestService {
	return &IngestService{
		provider: provider,
		store:    store,
		log:      logrus.WithField("component", "ingest"),
	}
}

// SetNotifier attaches a listener for completed ingests.
func (s *IngestService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Run performs one ingestion attempt. A failed attempt writes nothing;
// an already-recorded date is a successful no-op.
func (s *IngestService) Run(ctx context.Context) (*IngestResult, error) {
	raw, err := s.provider.FetchRawText(ctx)
	if err != nil {
		return nil, err
	}

	table, err := parse.ExtractShop(raw)
	if err != nil {
		return nil, err
	}
	if table.Dropped > 0 {
		s.log.WithFields(logrus.Fields{
			"date":    table.Date(),
			"dropped": table.Dropped,
		}).Warn("malformed rows skipped")
	}

	upserted, err := s.store.Upsert(ctx, table.Date(), table.UpdatedAt, table.Rows)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{
		Date:            upserted.Date,
		Items:           upserted.Items,
		SkippedRows:     table.Dropped,
		AlreadyRecorded: upserted.AlreadyRecorded,
		SourceTime:      table.UpdatedAt,
	}
	if s.notifier != nil && !result.AlreadyRecorded {
		s.notifier.NotifyIngest(*result)
	}
	return result, nil
}
