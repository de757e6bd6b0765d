package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type doc struct {
	Key  string  `json:"key"`
	Rank float64 `json:"rank"`
	Tag  string  `json:"tag"`
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	var d doc
	found, err := s.Get(context.Background(), "docs", "nope", &d)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStoreReplaceSemantics(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.BatchWrite(ctx, []WriteOp{
		{Collection: "docs", Key: "a", Value: doc{Key: "a", Rank: 1, Tag: "old"}, Mode: ModeReplace},
	})
	require.NoError(t, err)

	// a replace write discards every previous field
	err = s.BatchWrite(ctx, []WriteOp{
		{Collection: "docs", Key: "a", Value: map[string]any{"key": "a", "rank": 2}, Mode: ModeReplace},
	})
	require.NoError(t, err)

	var d doc
	found, err := s.Get(ctx, "docs", "a", &d)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2.0, d.Rank)
	require.Equal(t, "", d.Tag)
}

func TestMemoryStoreRejectsUnknownMode(t *testing.T) {
	err := NewMemoryStore().BatchWrite(context.Background(), []WriteOp{
		{Collection: "docs", Key: "a", Value: doc{}, Mode: "merge"},
	})
	require.Error(t, err)
}

func TestMemoryStoreQuery(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.BatchWrite(ctx, []WriteOp{
		{Collection: "docs", Key: "a", Value: doc{Key: "a", Rank: 3, Tag: "x"}, Mode: ModeReplace},
		{Collection: "docs", Key: "b", Value: doc{Key: "b", Rank: 1, Tag: "x"}, Mode: ModeReplace},
		{Collection: "docs", Key: "c", Value: doc{Key: "c", Rank: 2, Tag: "y"}, Mode: ModeReplace},
	})
	require.NoError(t, err)

	var out []doc
	err = s.Query(ctx, "docs", Query{
		Filters: []Filter{{Field: "tag", Op: OpEq, Value: "x"}},
		OrderBy: "rank",
	}, &out)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "b", out[0].Key)
	require.Equal(t, "a", out[1].Key)

	err = s.Query(ctx, "docs", Query{
		Filters:    []Filter{{Field: "rank", Op: OpGte, Value: 2}},
		OrderBy:    "rank",
		Descending: true,
		Limit:      1,
	}, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "a", out[0].Key)
}
