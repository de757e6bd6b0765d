// Package metrics derives comparative signals from recorded shop
// data. Everything here is pure and total: a value that cannot be
// computed is nil, never a zero and never a panic, and callers must
// branch on nil separately from 0.
package metrics

import "kotd-tracker/internal/models"

// Metric computes one derived value for a record, or nil when an
// operand is missing or the computation is undefined.
type Metric func(models.Record) *float64

// PricePerDurability is the cost of one use. Lower is better; a free
// item scores 0.
func PricePerDurability(r models.Record) *float64 {
	price, dur := r.Observation.Price, r.Observation.Durability
	if price == nil || dur == nil || *dur == 0 {
		return nil
	}
	if *price == 0 {
		return ptr(0)
	}
	return ptr(*price / *dur)
}

// PricePerDamageDurability is the cost of one point of total damage
// output. Lower is better. A zero damage*durability product is
// undefined (nil); a zero price with a nonzero product is still the
// best possible 0.
func PricePerDamageDurability(r models.Record) *float64 {
	price, dur := r.Observation.Price, r.Observation.Durability
	dmg := r.Item.BaseDamage
	if price == nil || dur == nil || dmg == nil {
		return nil
	}
	product := *dmg * *dur
	if product == 0 {
		return nil
	}
	if *price == 0 {
		return ptr(0)
	}
	return ptr(*price / product)
}

// DamagePerPrice is damage bought per gold. Higher is better.
func DamagePerPrice(r models.Record) *float64 {
	price := r.Observation.Price
	dmg := r.Item.BaseDamage
	if price == nil || *price == 0 || dmg == nil {
		return nil
	}
	if *dmg == 0 {
		return ptr(0)
	}
	return ptr(*dmg / *price)
}

// CombatEfficiency is total damage output per gold,
// damage*durability/price. Higher is better.
func CombatEfficiency(r models.Record) *float64 {
	price, dur := r.Observation.Price, r.Observation.Durability
	dmg := r.Item.BaseDamage
	if price == nil || *price == 0 || dmg == nil || dur == nil {
		return nil
	}
	if *dmg == 0 || *dur == 0 {
		return ptr(0)
	}
	return ptr(*dmg * *dur / *price)
}

// ByName resolves a metric identifier as used by the API and the
// export tool.
func ByName(name string) (Metric, bool) {
	switch name {
	case "price_per_durability":
		return PricePerDurability, true
	case "price_per_damage_durability":
		return PricePerDamageDurability, true
	case "damage_per_price":
		return DamagePerPrice, true
	case "combat_efficiency":
		return CombatEfficiency, true
	default:
		return nil, false
	}
}

func ptr(v float64) *float64 {
	return &v
}
