package metrics

import "kotd-tracker/internal/models"

// Direction picks which extreme BestOf looks for.
type Direction int

const (
	Min Direction = iota
	Max
)

// ParseDirection maps the API's "min"/"max" strings.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "min":
		return Min, true
	case "max":
		return Max, true
	default:
		return 0, false
	}
}

// BestResult is the extremal record for one metric.
type BestResult struct {
	Record models.Record `json:"record"`
	Value  float64       `json:"value"`
}

// BestOf scans the records and returns the one minimizing or
// maximizing the metric. Records where the metric is nil are ignored;
// nil is returned when every record's metric is nil.
func BestOf(records []models.Record, metric Metric, dir Direction) *BestResult {
	var best *BestResult
	for _, r := range records {
		v := metric(r)
		if v == nil {
			continue
		}
		if best == nil || better(*v, best.Value, dir) {
			best = &BestResult{Record: r, Value: *v}
		}
	}
	return best
}

// BestOfByCategory partitions the records by category, then runs the
// same reduction within each partition. Categories missing a usable
// metric value are absent from the result.
func BestOfByCategory(records []models.Record, metric Metric, dir Direction) map[models.Category]*BestResult {
	partitions := map[models.Category][]models.Record{}
	for _, r := range records {
		c := recordCategory(r)
		partitions[c] = append(partitions[c], r)
	}
	out := map[models.Category]*BestResult{}
	for c, part := range partitions {
		if best := BestOf(part, metric, dir); best != nil {
			out[c] = best
		}
	}
	return out
}

// recordCategory normalizes through the tag lookup so records carrying
// either representation (icon or word) land in the same partition.
func recordCategory(r models.Record) models.Category {
	if r.Item.Category != "" {
		return models.CategoryFromTag(string(r.Item.Category))
	}
	return models.CategoryFromTag(r.Item.TypeTag)
}

func better(candidate, incumbent float64, dir Direction) bool {
	if dir == Min {
		return candidate < incumbent
	}
	return candidate > incumbent
}
