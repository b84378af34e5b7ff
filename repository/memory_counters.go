package repository

import (
	"context"

	"post-analysis-service/counter"
)

type MemoryCounters struct {
	store *counter.Store
}

func NewMemoryCounters(store *counter.Store) MemoryCounters {
	return MemoryCounters{
		store: store,
	}
}

func (r MemoryCounters) Get(ctx context.Context, key string) (int, error) {
	count, _ := r.store.Get(key)
	return count, nil
}

func (r MemoryCounters) Increment(ctx context.Context, key string) (int, error) {
	return r.store.Increment(key), nil
}

func (r MemoryCounters) Decrement(ctx context.Context, key string) error {
	r.store.Decrement(key)
	return nil
}
