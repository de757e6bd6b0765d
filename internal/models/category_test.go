package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryFromTag(t *testing.T) {
	cases := map[string]Category{
		"⚔️":     CategoryMelee,
		"⚔":      CategoryMelee,
		"🏹":      CategoryRange,
		"🔮":      CategoryMagic,
		"melee":  CategoryMelee,
		"Melee":  CategoryMelee,
		"ranged": CategoryRange,
		"MAGIC":  CategoryMagic,
		"melee ": CategoryMelee,
		"🍞":      CategoryOther,
		"":       CategoryOther,
	}
	for tag, want := range cases {
		require.Equal(t, want, CategoryFromTag(tag), "tag %q", tag)
	}
}

func TestCategoryFromTagPassthrough(t *testing.T) {
	// already-normalized enum values survive re-normalization
	for _, c := range []Category{CategoryMelee, CategoryRange, CategoryMagic} {
		require.Equal(t, c, CategoryFromTag(string(c)))
	}
}
