package models

import "strings"

// Category is the normalized weapon class used for partitioned
// aggregation.
type Category string

const (
	CategoryMelee Category = "melee"
	CategoryRange Category = "range"
	CategoryMagic Category = "magic"
	CategoryOther Category = "other"
)

// categoryTags maps the free-form type cell of the shop post to a
// Category. The post has used both emoji icons and plain words across
// captures; new tags are added here, not in code paths.
var categoryTags = map[string]Category{
	"⚔":      CategoryMelee,
	"🗡":      CategoryMelee,
	"🔨":      CategoryMelee,
	"🏹":      CategoryRange,
	"🔫":      CategoryRange,
	"🪃":      CategoryRange,
	"🔮":      CategoryMagic,
	"🪄":      CategoryMagic,
	"📖":      CategoryMagic,
	"melee":  CategoryMelee,
	"range":  CategoryRange,
	"ranged": CategoryRange,
	"magic":  CategoryMagic,
	"mage":   CategoryMagic,
}

// CategoryFromTag resolves a raw type tag (emoji or word, either
// representation may appear) to its Category. Unknown tags map to
// CategoryOther. Already-normalized values pass through, so it is safe
// to call on Item.Category as well as on raw cells.
func CategoryFromTag(tag string) Category {
	t := strings.ToLower(strings.TrimSpace(tag))
	// emoji variants often carry the U+FE0F variation selector
	t = strings.ReplaceAll(t, "️", "")
	if t == "" {
		return CategoryOther
	}
	if c, ok := categoryTags[t]; ok {
		return c
	}
	return CategoryOther
}
