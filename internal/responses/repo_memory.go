package responses

import (
	"context"
	"sort"
	"sync"
)

type memoryEntry struct {
	Response Response `json:"response"`
	Seq      int64    `json:"seq"`
}

// MemoryRepo keeps responses in process memory.
type MemoryRepo struct {
	mu      sync.RWMutex
	seq     int64
	entries map[string]map[string]memoryEntry
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{entries: make(map[string]map[string]memoryEntry)}
}

func (r *MemoryRepo) List(ctx context.Context, userID string, category Category) ([]Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []memoryEntry
	for _, e := range r.entries[userID] {
		if category != "" && e.Response.Category != category {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Response.CreatedAt.Equal(b.Response.CreatedAt) {
			return a.Response.CreatedAt.Before(b.Response.CreatedAt)
		}
		return a.Seq < b.Seq
	})
	out := make([]Response, 0, len(entries))
	for _, e := range entries {
		out = append(out, cloneResponse(e.Response))
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[userID][id]
	if !ok {
		return Response{}, ErrNotFound
	}
	return cloneResponse(e.Response), nil
}

func (r *MemoryRepo) Create(ctx context.Context, resp Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user := r.entries[resp.UserID]
	if user == nil {
		user = make(map[string]memoryEntry)
		r.entries[resp.UserID] = user
	}
	if _, exists := user[resp.ID]; exists {
		return ErrDuplicate
	}
	r.seq++
	user[resp.ID] = memoryEntry{Response: cloneResponse(resp), Seq: r.seq}
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, resp Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[resp.UserID][resp.ID]
	if !ok {
		return ErrNotFound
	}
	e.Response = cloneResponse(resp)
	r.entries[resp.UserID][resp.ID] = e
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[userID][id]; !ok {
		return ErrNotFound
	}
	delete(r.entries[userID], id)
	return nil
}

func (r *MemoryRepo) DeleteBySource(ctx context.Context, userID, source string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.entries[userID] {
		if e.Response.Source == source {
			delete(r.entries[userID], id)
			removed++
		}
	}
	return removed, nil
}

// snapshot copies the whole store; callers hold the lock.
func (r *MemoryRepo) snapshot() map[string][]memoryEntry {
	out := make(map[string][]memoryEntry, len(r.entries))
	for userID, user := range r.entries {
		list := make([]memoryEntry, 0, len(user))
		for _, e := range user {
			list = append(list, e)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
		out[userID] = list
	}
	return out
}

// restore replaces the store contents; callers hold the lock.
func (r *MemoryRepo) restore(data map[string][]memoryEntry) {
	r.entries = make(map[string]map[string]memoryEntry, len(data))
	r.seq = 0
	for userID, list := range data {
		user := make(map[string]memoryEntry, len(list))
		for _, e := range list {
			e.Response.UserID = userID
			user[e.Response.ID] = e
			if e.Seq > r.seq {
				r.seq = e.Seq
			}
		}
		r.entries[userID] = user
	}
}

func cloneResponse(r Response) Response {
	if r.Tags != nil {
		r.Tags = append([]string(nil), r.Tags...)
	}
	return r
}

var _ Repo = (*MemoryRepo)(nil)
