package pagesmith

import (
	"bytes"
	"errors"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLayouts(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir
}

func TestLoadLayoutsRequiresBase(t *testing.T) {
	dir := writeLayouts(t, map[string]string{
		"post.html": "<html></html>",
	})
	if _, err := LoadLayouts(dir, testConfig()); err == nil {
		t.Fatal("expected error when base.html is missing")
	}
}

func TestResolveExplicitLayout(t *testing.T) {
	dir := writeLayouts(t, map[string]string{
		"base.html":    "base",
		"gallery.html": "gallery",
	})
	layouts, err := LoadLayouts(dir, testConfig())
	if err != nil {
		t.Fatalf("LoadLayouts failed: %v", err)
	}

	tests := []struct {
		layout string
		want   string
	}{
		{"gallery", "gallery.html"},
		{"gallery.html", "gallery.html"},
	}
	for _, tt := range tests {
		name, err := layouts.Resolve(Document{Layout: tt.layout})
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tt.layout, err)
		}
		if name != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.layout, name, tt.want)
		}
	}
}

func TestResolveMissingLayoutIsError(t *testing.T) {
	dir := writeLayouts(t, map[string]string{"base.html": "base"})
	layouts, err := LoadLayouts(dir, testConfig())
	if err != nil {
		t.Fatalf("LoadLayouts failed: %v", err)
	}

	_, err = layouts.Resolve(Document{Layout: "missing", Path: "posts/p.md"})
	if !errors.Is(err, ErrLayoutNotFound) {
		t.Fatalf("err = %v, want ErrLayoutNotFound", err)
	}
	if !strings.Contains(err.Error(), "posts/p.md") {
		t.Errorf("error should name the document: %v", err)
	}
}

func TestResolveFallbacks(t *testing.T) {
	dir := writeLayouts(t, map[string]string{
		"base.html": "base",
		"post.html": "post",
	})
	layouts, err := LoadLayouts(dir, testConfig())
	if err != nil {
		t.Fatalf("LoadLayouts failed: %v", err)
	}

	// posts fall back to post.html
	name, err := layouts.Resolve(Document{Path: "posts/p.md"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if name != "post.html" {
		t.Errorf("post fallback = %q, want post.html", name)
	}

	// pages have no page.html here, so base.html
	name, err = layouts.Resolve(Document{Path: "about.md"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if name != "base.html" {
		t.Errorf("page fallback = %q, want base.html", name)
	}
}

func TestExecuteWithPartialsAndFuncs(t *testing.T) {
	dir := writeLayouts(t, map[string]string{
		"base.html":         `{{template "nav.html" .}}<main>{{.Doc.Title}} {{.Content}}</main><a href="{{absURL "tags" (slugify "Go Stuff")}}">t</a>`,
		"partials/nav.html": `<nav>{{.Site.Name}}</nav>`,
	})
	layouts, err := LoadLayouts(dir, testConfig())
	if err != nil {
		t.Fatalf("LoadLayouts failed: %v", err)
	}

	var buf bytes.Buffer
	err = layouts.Execute(&buf, "base.html", PageData{
		Site:    testConfig(),
		Doc:     Document{Title: "Hi"},
		Content: template.HTML("<p>body</p>"),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<nav>Test Blog</nav>") {
		t.Errorf("partial not rendered: %q", out)
	}
	if !strings.Contains(out, "<p>body</p>") {
		t.Errorf("content not passed through as HTML: %q", out)
	}
	if !strings.Contains(out, "https://example.com/tags/go-stuff/") {
		t.Errorf("absURL/slugify funcs failed: %q", out)
	}
}
