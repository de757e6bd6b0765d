package metrics

import "math"

// ChangeKind classifies a day-over-day price comparison.
type ChangeKind string

const (
	// ChangeNormal is a regular percentage move.
	ChangeNormal ChangeKind = "change"
	// ChangeNew marks an item with no previous-day price.
	ChangeNew ChangeKind = "new"
	// ChangeRemoved marks an item that vanished from the shop.
	ChangeRemoved ChangeKind = "removed"
	// ChangeUnbounded marks a move from an exact 0 to a nonzero price,
	// where a percentage is undefined.
	ChangeUnbounded ChangeKind = "unbounded_increase"
)

// noiseThresholdPct suppresses sub-0.1% moves, which are rounding
// noise in the source, not real repricings.
const noiseThresholdPct = 0.1

type ChangeInfo struct {
	Kind    ChangeKind `json:"kind"`
	Sign    string     `json:"sign,omitempty"`
	Percent float64    `json:"percent,omitempty"`
}

// PriceChange compares an item's price between two days. Nil means no
// visible change: both prices absent, an unreadable comparison, or a
// move below the noise threshold. Prices arrive already parsed, so an
// unparseable display string and a missing record both come in as nil.
func PriceChange(current, previous *float64) *ChangeInfo {
	switch {
	case current == nil && previous == nil:
		return nil
	case previous == nil:
		return &ChangeInfo{Kind: ChangeNew}
	case current == nil:
		return &ChangeInfo{Kind: ChangeRemoved}
	}

	if *previous == 0 {
		if *current == 0 {
			return nil
		}
		return &ChangeInfo{Kind: ChangeUnbounded, Sign: "+"}
	}

	percent := (*current - *previous) / *previous * 100
	if math.Abs(percent) < noiseThresholdPct {
		return nil
	}
	sign := "+"
	if percent < 0 {
		sign = "-"
	}
	return &ChangeInfo{Kind: ChangeNormal, Sign: sign, Percent: percent}
}
