package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is a Backend over in-process maps. It backs tests and
// exercises the same document semantics as the production adapter:
// replace-only writes, atomic batches, field-filtered queries.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage
	// WriteOps counts individual document writes, letting tests assert
	// that an idempotent second upsert performed zero writes.
	writeOps int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]json.RawMessage{}}
}

func (s *MemoryStore) WriteOps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writeOps
}

func (s *MemoryStore) Get(ctx context.Context, collection, key string, dest any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[collection][key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(doc, dest); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", collection, key, err)
	}
	return true, nil
}

func (s *MemoryStore) BatchWrite(ctx context.Context, ops []WriteOp) error {
	// validate before touching state so the batch stays atomic
	encoded := make([]json.RawMessage, len(ops))
	for i, op := range ops {
		if op.Mode != ModeReplace {
			return fmt.Errorf("unsupported write mode %q for %s/%s", op.Mode, op.Collection, op.Key)
		}
		raw, err := json.Marshal(op.Value)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", op.Collection, op.Key, err)
		}
		encoded[i] = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, op := range ops {
		if s.data[op.Collection] == nil {
			s.data[op.Collection] = map[string]json.RawMessage{}
		}
		s.data[op.Collection][op.Key] = encoded[i]
		s.writeOps++
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query, dest any) error {
	s.mu.RLock()
	docs := make([]map[string]any, 0, len(s.data[collection]))
	for _, raw := range s.data[collection] {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			s.mu.RUnlock()
			return fmt.Errorf("decode %s document: %w", collection, err)
		}
		if matches(fields, q.Filters) {
			docs = append(docs, fields)
		}
	}
	s.mu.RUnlock()

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := compareValues(docs[i][q.OrderBy], docs[j][q.OrderBy]) < 0
			if q.Descending {
				return !less
			}
			return less
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func matches(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok {
			return false
		}
		cmp := compareValues(v, f.Value)
		switch f.Op {
		case OpEq:
			if cmp != 0 {
				return false
			}
		case OpGte:
			if cmp < 0 {
				return false
			}
		case OpLte:
			if cmp > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compareValues orders two document field values. Numbers compare
// numerically, everything else by string form (ISO dates sort
// correctly that way).
func compareValues(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
