package models

import "time"

// Item stores the static metadata of one shop entry, keyed by the
// stable integer id from the shop post. Overwritten wholesale on every
// ingestion that sees the id; never deleted.
type Item struct {
	ID       int64    `json:"id" gorm:"primaryKey"`
	Name     string   `json:"name" gorm:"index"`
	Category Category `json:"category" gorm:"index;size:16"`
	// TypeTag keeps the raw category cell from the source (emoji or word)
	TypeTag    string   `json:"type_tag"`
	Element    string   `json:"element" gorm:"index"`
	BaseDamage *float64 `json:"base_damage"`
	ReqLevel   *int64   `json:"req_level"`

	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Observations []DailyObservation `json:"observations,omitempty" gorm:"foreignKey:ItemID;references:ID"`
}
