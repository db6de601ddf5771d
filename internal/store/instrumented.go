package store

import "context"

// Observer receives one call per store operation.
type Observer func(collection, op string, err error)

type instrumented struct {
	next Store
	obs  Observer
}

// Instrument wraps s so every operation is reported to obs.
func Instrument(s Store, obs Observer) Store {
	if obs == nil {
		return s
	}
	return &instrumented{next: s, obs: obs}
}

func (i *instrumented) Get(ctx context.Context, collection, id string) (*Document, error) {
	d, err := i.next.Get(ctx, collection, id)
	i.obs(collection, "get", err)
	return d, err
}

func (i *instrumented) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	docs, err := i.next.List(ctx, collection, q)
	i.obs(collection, "list", err)
	return docs, err
}

func (i *instrumented) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id, err := i.next.Create(ctx, collection, fields)
	i.obs(collection, "create", err)
	return id, err
}

func (i *instrumented) Update(ctx context.Context, collection, id string, fields Fields) error {
	err := i.next.Update(ctx, collection, id, fields)
	i.obs(collection, "update", err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, collection, id string) error {
	err := i.next.Delete(ctx, collection, id)
	i.obs(collection, "delete", err)
	return err
}

func (i *instrumented) SetWithMerge(ctx context.Context, collection, id string, fields Fields) error {
	err := i.next.SetWithMerge(ctx, collection, id, fields)
	i.obs(collection, "merge", err)
	return err
}
