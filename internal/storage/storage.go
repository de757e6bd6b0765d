// Package storage defines the narrow persistence contract the tracker
// needs: point reads, replace-mode batch writes and filtered queries.
// Any store offering these primitives (document store, relational
// table, key-value store) can back it; the production adapter is
// GORM/MySQL, tests run on the in-memory adapter.
package storage

import "context"

const (
	CollectionItems        = "items"
	CollectionObservations = "daily_observations"
	CollectionDays         = "ingested_days"
)

// WriteMode tags how a write applies. Only full replacement is
// supported: merge writes were the source of stray-field drift in
// earlier schemes and are deliberately not part of the contract.
type WriteMode string

const ModeReplace WriteMode = "replace"

// WriteOp is one document write. Value is the full record; the
// previous version of the key, if any, is discarded entirely.
type WriteOp struct {
	Collection string
	Key        string
	Value      any
	Mode       WriteMode
}

type FilterOp string

const (
	OpEq  FilterOp = "="
	OpGte FilterOp = ">="
	OpLte FilterOp = "<="
)

type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Query selects documents of one collection. A zero Query selects
// everything.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Backend is the storage collaborator.
type Backend interface {
	// Get loads the document at (collection, key) into dest and reports
	// whether it existed.
	Get(ctx context.Context, collection, key string, dest any) (bool, error)
	// BatchWrite applies all ops atomically. Callers bound batch sizes
	// to the storage layer's limits; the backend does not split them.
	BatchWrite(ctx context.Context, ops []WriteOp) error
	// Query loads matching documents into dest, a pointer to a slice of
	// the collection's record type.
	Query(ctx context.Context, collection string, q Query, dest any) error
}
