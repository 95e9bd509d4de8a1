package pagesmith

import (
	"os"
	"path/filepath"
	"testing"
)

func writeContentFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "posts/one.md", "---\ntitle: One\n---\nbody\n")
	writeContentFile(t, dir, "posts/two.markdown", "---\ntitle: Two\n---\nbody\n")
	writeContentFile(t, dir, "about.md", "---\ntitle: About\n---\nbody\n")
	writeContentFile(t, dir, "notes.txt", "not content")

	docs, err := LoadDocuments(dir)
	if err != nil {
		t.Fatalf("LoadDocuments failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3: %v", len(docs), docs)
	}
	paths := make(map[string]bool)
	for _, d := range docs {
		paths[d.Path] = true
	}
	for _, want := range []string{"posts/one.md", "posts/two.markdown", "about.md"} {
		if !paths[want] {
			t.Errorf("missing document %s", want)
		}
	}
}

func TestLoadDocumentsSkipsHiddenAndUnderscore(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "posts/keep.md", "---\ntitle: Keep\n---\n")
	writeContentFile(t, dir, "_drafts/skip.md", "---\ntitle: Skip\n---\n")
	writeContentFile(t, dir, "posts/_notes.md", "scratch")
	writeContentFile(t, dir, ".hidden/skip.md", "scratch")

	docs, err := LoadDocuments(dir)
	if err != nil {
		t.Fatalf("LoadDocuments failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Path != "posts/keep.md" {
		t.Errorf("docs = %v, want only posts/keep.md", docs)
	}
}

func TestLoadDocumentsMissingDir(t *testing.T) {
	_, err := LoadDocuments(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing content directory")
	}
}
