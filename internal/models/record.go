package models

// Record is one item joined with its observation for a single date —
// the unit the metrics and aggregation functions operate on.
type Record struct {
	Item        Item             `json:"item"`
	Observation DailyObservation `json:"observation"`
}
