package pagesmith

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello, World", "hello-world"},
		{"  Spaces  around  ", "spaces-around"},
		{"Already-slugged", "already-slugged"},
		{"Ünïcode stripped", "n-code-stripped"},
		{"Trailing!!!", "trailing"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "post"}, "https://example.com/blog/post/"},
		{"https://example.com/sub", []string{"a"}, "https://example.com/sub/a/"},
		{"https://example.com", []string{"/posts/first/"}, "https://example.com/posts/first/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.expected {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
		}
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"posts/my-first-post.md", "My First Post"},
		{"snake_case_name.md", "Snake Case Name"},
		{"about.markdown", "About"},
	}
	for _, tt := range tests {
		if got := TitleFromPath(tt.path); got != tt.expected {
			t.Errorf("TitleFromPath(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"a", "", "  ", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("FilterEmpty = %v, want [a b]", got)
	}
}

func TestRelatedDocuments(t *testing.T) {
	current := Document{Permalink: "/posts/a/", Tags: []string{"Go", "web"}}
	docs := []Document{
		{Permalink: "/posts/a/", Tags: []string{"go"}},       // self, excluded
		{Permalink: "/posts/b/", Tags: []string{"go"}},       // shares go (case-insensitive)
		{Permalink: "/posts/c/", Tags: []string{"database"}}, // unrelated
		{Permalink: "/posts/d/", Tags: []string{"WEB"}},      // shares web
	}
	related := RelatedDocuments(current, docs)
	if len(related) != 2 {
		t.Fatalf("related count = %d, want 2", len(related))
	}
	if related[0].Permalink != "/posts/b/" || related[1].Permalink != "/posts/d/" {
		t.Errorf("related = %v, want b and d", related)
	}
}

func TestWebsiteJsonLD(t *testing.T) {
	cfg := testConfig()
	cfg.Author = "Jo"
	got := WebsiteJsonLD(cfg)
	for _, want := range []string{`"@type":"WebSite"`, `"name":"Test Blog"`, `"name":"Jo"`} {
		if !strings.Contains(got, want) {
			t.Errorf("WebsiteJsonLD missing %s: %s", want, got)
		}
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	doc := Document{
		Title:     "First Post",
		Permalink: "/posts/first/",
		Summary:   "sum",
		Date:      day(10),
		Tags:      []string{"go", "web"},
	}
	got := BlogPostingJsonLD(doc, testConfig())
	for _, want := range []string{
		`"@type":"BlogPosting"`,
		`"headline":"First Post"`,
		`"datePublished":"2024-01-10"`,
		`"keywords":"go, web"`,
		`"url":"https://example.com/posts/first/"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BlogPostingJsonLD missing %s: %s", want, got)
		}
	}
}
