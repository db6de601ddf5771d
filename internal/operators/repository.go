package operators

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/go-viper/mapstructure/v2"
)

// Repository defines persistence operations for operators.
type Repository interface {
	UpsertByEmail(ctx context.Context, o *Operator) (*Operator, error)
	GetByEmail(ctx context.Context, email string) (*Operator, error)
	GetByID(ctx context.Context, id string) (*Operator, error)
}

// StoreRepository keeps operators in the document store's operators collection.
type StoreRepository struct {
	store store.Store
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{store: s}
}

func (r *StoreRepository) UpsertByEmail(ctx context.Context, o *Operator) (*Operator, error) {
	now := time.Now().UTC()
	existing, err := r.GetByEmail(ctx, o.Email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		o.UpdatedAt = now
		id, err := r.store.Create(ctx, content.OperatorsCollection, fields(o))
		if err != nil {
			return nil, err
		}
		created := *o
		created.ID = id
		return &created, nil
	}

	merged := *existing
	if o.Sub != "" {
		merged.Sub = o.Sub
	}
	if o.Name != "" {
		merged.Name = o.Name
	}
	if o.PasswordHash != "" {
		merged.PasswordHash = o.PasswordHash
	}
	if !o.LastLoginAt.IsZero() {
		merged.LastLoginAt = o.LastLoginAt
	}
	merged.UpdatedAt = now
	if err := r.store.Update(ctx, content.OperatorsCollection, existing.ID, fields(&merged)); err != nil {
		return nil, err
	}
	return &merged, nil
}

// GetByEmail returns nil, nil when no operator has email.
func (r *StoreRepository) GetByEmail(ctx context.Context, email string) (*Operator, error) {
	docs, err := r.store.List(ctx, content.OperatorsCollection, store.Query{}.Where("email", email))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decode(docs[0])
}

// GetByID returns nil, nil when id is unknown.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*Operator, error) {
	d, err := r.store.Get(ctx, content.OperatorsCollection, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return decode(*d)
}

func fields(o *Operator) store.Fields {
	return store.Fields{
		"sub":          o.Sub,
		"email":        o.Email,
		"name":         o.Name,
		"passwordHash": o.PasswordHash,
		"createdAt":    o.CreatedAt,
		"updatedAt":    o.UpdatedAt,
		"lastLoginAt":  o.LastLoginAt,
	}
}

func decode(d store.Document) (*Operator, error) {
	var o Operator
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &o,
		WeaklyTypedInput: true,
		DecodeHook:       keepTime,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(d.Fields); err != nil {
		return nil, fmt.Errorf("decode operator %s: %w", d.ID, err)
	}
	o.ID = d.ID
	return &o, nil
}

var timeType = reflect.TypeOf(time.Time{})

// keepTime passes time.Time values through untouched and parses RFC 3339 strings.
func keepTime(from, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case time.Time:
		return v, nil
	case string:
		if v == "" {
			return time.Time{}, nil
		}
		return time.Parse(time.RFC3339, v)
	}
	return data, nil
}
