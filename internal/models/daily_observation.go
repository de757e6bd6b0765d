package models

import (
	"fmt"
	"time"
)

// DailyObservation stores one day's price/durability reading for one
// item. Immutable once written: the composite (ItemID, Date) key is
// recorded at most once and never merged or overwritten.
type DailyObservation struct {
	// Key is "<itemID>_<date>", the document id in the observation
	// collection.
	Key    string `json:"key" gorm:"primaryKey;size:32"`
	ItemID int64  `json:"item_id" gorm:"index;not null"`
	// Date is the ISO calendar date (UTC) the shop post was captured for.
	Date       string   `json:"date" gorm:"index;size:10;not null"`
	Price      *float64 `json:"price"`
	Durability *float64 `json:"durability"`

	CreatedAt time.Time `json:"created_at"`
}

// ObservationKey builds the composite document key for (itemID, date).
func ObservationKey(itemID int64, date string) string {
	return fmt.Sprintf("%d_%s", itemID, date)
}

// IngestedDay is the day marker: its existence means the date has been
// recorded and any further upsert for it is a no-op.
type IngestedDay struct {
	Date      string    `json:"date" gorm:"primaryKey;size:10"`
	ItemCount int       `json:"item_count"`
	// SourceTime is the "Last Updated" instant parsed from the post.
	SourceTime time.Time `json:"source_time"`
	CreatedAt  time.Time `json:"created_at"`
}
