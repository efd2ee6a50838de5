package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir, err := NewDirStore(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	return map[string]Store{"dir": dir, "memory": NewMemoryStore()}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.Get(ctx, "settings"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			type settings struct {
				Theme    string `json:"theme"`
				PageSize string `json:"pageSize"`
			}
			if err := PutJSON(ctx, s, "settings", settings{Theme: "dark", PageSize: "a4"}); err != nil {
				t.Fatalf("PutJSON: %v", err)
			}
			var got settings
			ok, err := GetJSON(ctx, s, "settings", &got)
			if err != nil || !ok {
				t.Fatalf("GetJSON: ok=%v err=%v", ok, err)
			}
			if got.Theme != "dark" || got.PageSize != "a4" {
				t.Fatalf("unexpected value %+v", got)
			}

			if err := s.Delete(ctx, "settings"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := s.Delete(ctx, "settings"); err != nil {
				t.Fatalf("second Delete: %v", err)
			}
			ok, err = GetJSON(ctx, s, "settings", &got)
			if err != nil || ok {
				t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", "with space"} {
				if err := s.Put(context.Background(), key, []byte("{}")); !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
				}
			}
		})
	}
}

func TestDirStoreLeavesNoTempFiles(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.Put(ctx, "responses", []byte(`[]`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "responses.json" {
		t.Fatalf("unexpected files %v", entries)
	}
}
