package pagesmith

import (
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), ManifestName))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePutAndGet(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Put("posts/a.md", "hash1", "posts/a/index.html"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := s.Get("posts/a.md")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Hash != "hash1" {
		t.Errorf("Hash = %q, want hash1", got.Hash)
	}
	if got.Output != "posts/a/index.html" {
		t.Errorf("Output = %q, want posts/a/index.html", got.Output)
	}
	if got.BuiltAt == "" {
		t.Error("BuiltAt should be stamped")
	}
}

func TestStorePutUpsert(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Put("posts/a.md", "hash1", "posts/a/index.html"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put("posts/a.md", "hash2", "posts/a/index.html"); err != nil {
		t.Fatalf("Put update failed: %v", err)
	}
	got, err := s.Get("posts/a.md")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Hash != "hash2" {
		t.Errorf("Hash = %q, want hash2", got.Hash)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get("nonexistent")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreListAndDelete(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Put("a.md", "h1", "a/index.html"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put("b.md", "h2", "b/index.html"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List count = %d, want 2", len(entries))
	}

	if err := s.Delete("a.md"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	entries, err = s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("List count after delete = %d, want 1", len(entries))
	}
	if _, ok := entries["b.md"]; !ok {
		t.Error("b.md should survive deleting a.md")
	}
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("same"))
	b := HashBytes([]byte("same"))
	c := HashBytes([]byte("different"))
	if a != b {
		t.Error("identical input should hash identically")
	}
	if a == c {
		t.Error("different input should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
