package resumes

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryRepo keeps the current résumé per user in memory.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Record)}
}

func (r *MemoryRepo) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rec.UserID] = clone(rec)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.data[userID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return clone(rec), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[userID]; !ok {
		return ErrNotFound
	}
	delete(r.data, userID)
	return nil
}

func clone(rec Record) Record {
	rec.Keywords = slices.Clone(rec.Keywords)
	rec.Sections = maps.Clone(rec.Sections)
	return rec
}
