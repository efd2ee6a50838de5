package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"coverletter-backend/internal/shared/storage/object"
)

func TestStoreSaveOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mimeType, err := store.Save(ctx, "user-1", "resume.txt", strings.NewReader("Jane Doe\nSkills: Go"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("Jane Doe\nSkills: Go")) {
		t.Fatalf("unexpected size %d", size)
	}
	if !strings.HasPrefix(mimeType, "text/plain") {
		t.Fatalf("unexpected mime %q", mimeType)
	}
	if !strings.HasSuffix(key, "_resume.txt") {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "Jane Doe\nSkills: Go" {
		t.Fatalf("unexpected body %q", body)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second Delete should be a no-op: %v", err)
	}
}

func TestStoreRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal rejected")
	}
	if _, _, _, err := store.Save(context.Background(), "user-1", "../x.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected bad file name rejected")
	}
}
