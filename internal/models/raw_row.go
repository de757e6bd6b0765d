package models

// RawRow is one unvalidated line of the shop table, all fields still
// in their display form ("360g", "10 Uses", "~3.0"). Never persisted
// directly; either promoted to Item+DailyObservation or dropped.
type RawRow struct {
	Price      string `json:"price"`
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	Damage     string `json:"damage"`
	Durability string `json:"durability"`
	Element    string `json:"element"`
	ReqLevel   string `json:"req_level"`
}
