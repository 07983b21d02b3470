package storage

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryRepository returns a process-local repository, mainly for tests.
func NewMemoryRepository() Repository {
	return &memoryRepo{values: make(map[string][]byte)}
}

func (r *memoryRepo) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *memoryRepo) Save(ctx context.Context, entries ...Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		r.values[e.Key] = append([]byte(nil), e.Value...)
	}
	return nil
}

func (r *memoryRepo) Close() error { return nil }
