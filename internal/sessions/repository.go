package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/devfolio/devfolio/internal/store"
)

// Repository provides session persistence operations. Get returns nil, nil
// for unknown tokens.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

const sessionsCollection = "sessions"

// StoreRepository keeps sessions in the document store, keyed by token.
// It is used when Redis is not configured.
type StoreRepository struct {
	store store.Store
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{store: s}
}

func (r *StoreRepository) Create(ctx context.Context, s *Session) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = now.Add(7 * 24 * time.Hour)
	}
	return r.store.SetWithMerge(ctx, sessionsCollection, s.Token, store.Fields{
		"sub":       s.Sub,
		"expiresAt": s.ExpiresAt.Format(time.RFC3339Nano),
		"createdAt": s.CreatedAt.Format(time.RFC3339Nano),
	})
}

func (r *StoreRepository) Get(ctx context.Context, token string) (*Session, error) {
	d, err := r.store.Get(ctx, sessionsCollection, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	s := &Session{Token: token}
	s.Sub, _ = d.Fields["sub"].(string)
	s.ExpiresAt = parseTime(d.Fields["expiresAt"])
	s.CreatedAt = parseTime(d.Fields["createdAt"])
	return s, nil
}

func (r *StoreRepository) Delete(ctx context.Context, token string) error {
	err := r.store.Delete(ctx, sessionsCollection, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		p, err := time.Parse(time.RFC3339Nano, t)
		if err == nil {
			return p
		}
	}
	return time.Time{}
}
