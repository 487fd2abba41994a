package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "abc.txt", strings.NewReader("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	r, err := store.Open(ctx, "abc.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want payload", data)
	}
}

func TestLocalStore_DeleteIsIdempotent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "gone.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "gone.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Second delete must not error.
	if err := store.Delete(ctx, "gone.txt"); err != nil {
		t.Errorf("Delete again: %v", err)
	}

	if _, err := store.Open(ctx, "gone.txt"); err == nil {
		t.Error("Open succeeded after delete")
	}
}

func TestLocalStore_KeysStayInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	// A hostile key must not escape the upload directory.
	if err := store.Put(ctx, "../escape.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Open(ctx, "escape.txt"); err != nil {
		t.Errorf("key was not flattened into the store dir: %v", err)
	}
}
