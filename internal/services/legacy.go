package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"kotd-tracker/internal/models"
	"kotd-tracker/internal/snapshot"

	"github.com/sirupsen/logrus"
)

// Legacy export format: the old one-table-per-day layout dumped as
// {"data":{"snapshots":[{"snapshot_date":..., "weapons":[...]}]}}.
type legacyExport struct {
	Data struct {
		Snapshots []legacySnapshot `json:"snapshots"`
	} `json:"data"`
}

type legacySnapshot struct {
	SnapshotDate string         `json:"snapshot_date"`
	Weapons      []legacyWeapon `json:"weapons"`
}

type legacyWeapon struct {
	ID         int64       `json:"id"`
	Price      string      `json:"price"`
	Type       string      `json:"type"`
	Name       string      `json:"name"`
	Damage     string      `json:"damage"`
	Durability string      `json:"durability"`
	Element    string      `json:"element"`
	ReqLevel   json.Number `json:"req_level"`
}

type LegacyImportResult struct {
	Snapshots int `json:"snapshots"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
	Items     int `json:"items"`
}

// ImportLegacyExport replays a legacy export into the two-collection
// layout, one upsert per legacy day. Safe to run repeatedly: days
// already recorded are skipped by the store's existence check.
func ImportLegacyExport(ctx context.Context, store *snapshot.Store, r io.Reader) (*LegacyImportResult, error) {
	var export legacyExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("legacy export decode: %w", err)
	}

	log := logrus.WithField("component", "legacy-import")
	result := &LegacyImportResult{Snapshots: len(export.Data.Snapshots)}
	for _, snap := range export.Data.Snapshots {
		if snap.SnapshotDate == "" {
			log.Warn("snapshot without a date skipped")
			continue
		}
		sourceTime, err := time.ParseInLocation("2006-01-02", snap.SnapshotDate, time.UTC)
		if err != nil {
			log.WithField("date", snap.SnapshotDate).Warn("unreadable snapshot date skipped")
			continue
		}

		rows := make([]models.RawRow, 0, len(snap.Weapons))
		for _, w := range snap.Weapons {
			rows = append(rows, models.RawRow{
				Price:      w.Price,
				ID:         w.ID,
				Type:       w.Type,
				Name:       w.Name,
				Damage:     w.Damage,
				Durability: w.Durability,
				Element:    w.Element,
				ReqLevel:   w.ReqLevel.String(),
			})
		}

		upserted, err := store.Upsert(ctx, snap.SnapshotDate, sourceTime, rows)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", snap.SnapshotDate, err)
		}
		if upserted.AlreadyRecorded {
			result.Skipped++
			continue
		}
		result.Imported++
		result.Items += upserted.Items
	}
	return result, nil
}
