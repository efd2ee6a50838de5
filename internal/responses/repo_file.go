package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepo is the non-relational fallback: a MemoryRepo persisted to a
// single JSON file after every write.
type FileRepo struct {
	mem     *MemoryRepo
	path    string
	flushMu sync.Mutex
}

type fileDocument struct {
	Users map[string][]memoryEntry `json:"users"`
}

// NewFileRepo loads path if it exists.
func NewFileRepo(path string) (*FileRepo, error) {
	repo := &FileRepo{mem: NewMemoryRepo(), path: path}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return repo, nil
	case err != nil:
		return nil, fmt.Errorf("read responses file: %w", err)
	}
	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode responses file: %w", err)
	}
	repo.mem.restore(doc.Users)
	return repo, nil
}

func (r *FileRepo) List(ctx context.Context, userID string, category Category) ([]Response, error) {
	return r.mem.List(ctx, userID, category)
}

func (r *FileRepo) Get(ctx context.Context, userID, id string) (Response, error) {
	return r.mem.Get(ctx, userID, id)
}

func (r *FileRepo) Create(ctx context.Context, resp Response) error {
	if err := r.mem.Create(ctx, resp); err != nil {
		return err
	}
	return r.flush()
}

func (r *FileRepo) Update(ctx context.Context, resp Response) error {
	if err := r.mem.Update(ctx, resp); err != nil {
		return err
	}
	return r.flush()
}

func (r *FileRepo) Delete(ctx context.Context, userID, id string) error {
	if err := r.mem.Delete(ctx, userID, id); err != nil {
		return err
	}
	return r.flush()
}

func (r *FileRepo) DeleteBySource(ctx context.Context, userID, source string) (int, error) {
	n, err := r.mem.DeleteBySource(ctx, userID, source)
	if err != nil || n == 0 {
		return n, err
	}
	return n, r.flush()
}

// flush writes the file atomically through a temp file and rename.
func (r *FileRepo) flush() error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	r.mem.mu.RLock()
	doc := fileDocument{Users: r.mem.snapshot()}
	r.mem.mu.RUnlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode responses file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".responses-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("rename responses file: %w", err)
	}
	return nil
}

var _ Repo = (*FileRepo)(nil)
