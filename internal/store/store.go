// Package store is the document store boundary: schemaless documents
// addressed by collection name and identifier.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrUnavailable = errors.New("document store unavailable")
)

// Fields is the field set of one document. Values are plain Go values:
// strings, numbers, bools, []any, []string and map[string]any.
type Fields map[string]any

// Document is a stored document with its store-assigned identifier.
type Document struct {
	ID     string
	Fields Fields
}

// Filter matches documents whose Field equals Value.
type Filter struct {
	Field string
	Value any
}

// Order sorts by a single field.
type Order struct {
	Field string
	Desc  bool
}

// Query narrows a List call. The zero Query lists the whole collection
// in insertion order.
type Query struct {
	Filters []Filter
	OrderBy *Order
}

// Where returns a copy of q with an additional equality filter.
func (q Query) Where(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

// OrderedBy returns a copy of q sorted by field.
func (q Query) OrderedBy(field string, desc bool) Query {
	q.OrderBy = &Order{Field: field, Desc: desc}
	return q
}

// Store is implemented by MemoryStore and MongoStore.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	// Update merges fields into an existing document; unspecified fields are untouched.
	Update(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
	// SetWithMerge creates the document at id or merges fields into it.
	SetWithMerge(ctx context.Context, collection, id string, fields Fields) error
}
