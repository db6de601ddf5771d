package store

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used for local development and unit tests.
// Documents keep insertion order; values are deep-copied on every read and write.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	order []string
	docs  map[string]Fields
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memCollection)}
}

func (m *MemoryStore) collection(name string, create bool) *memCollection {
	c, ok := m.collections[name]
	if !ok && create {
		c = &memCollection{docs: make(map[string]Fields)}
		m.collections[name] = c
	}
	return c
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.collection(collection, false)
	if c == nil {
		return nil, ErrNotFound
	}
	f, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Fields: copyFields(f)}, nil
}

func (m *MemoryStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Document{}
	c := m.collection(collection, false)
	if c == nil {
		return out, nil
	}
	for _, id := range c.order {
		f := c.docs[id]
		if matches(f, q.Filters) {
			out = append(out, Document{ID: id, Fields: copyFields(f)})
		}
	}
	if q.OrderBy != nil {
		field, desc := q.OrderBy.Field, q.OrderBy.Desc
		sort.SliceStable(out, func(i, j int) bool {
			c := compareValues(out[i].Fields[field], out[j].Fields[field])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection, true)
	id := uuid.NewString()
	c.docs[id] = copyFields(fields)
	c.order = append(c.order, id)
	return id, nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection, false)
	if c == nil {
		return ErrNotFound
	}
	existing, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		existing[k] = copyValue(v)
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection, false)
	if c == nil {
		return ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) SetWithMerge(ctx context.Context, collection, id string, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection, true)
	existing, ok := c.docs[id]
	if !ok {
		c.docs[id] = copyFields(fields)
		c.order = append(c.order, id)
		return nil
	}
	for k, v := range fields {
		existing[k] = copyValue(v)
	}
	return nil
}

func matches(f Fields, filters []Filter) bool {
	for _, flt := range filters {
		v, ok := f[flt.Field]
		if !ok || compareValues(v, flt.Value) != 0 {
			return false
		}
	}
	return true
}

// compareValues orders the scalar types documents carry. Mismatched or
// unsupported types compare by their kind name so sorting stays deterministic.
func compareValues(a, b any) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return strings.Compare(kindName(a), kindName(b))
}

func kindName(v any) string {
	if v == nil {
		return ""
	}
	return reflect.TypeOf(v).Kind().String()
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func copyFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case Fields:
		return map[string]any(copyFields(t))
	case map[string]any:
		return map[string]any(copyFields(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = map[string]any(copyFields(t[i]))
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}
