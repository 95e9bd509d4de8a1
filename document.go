package pagesmith

import (
	"bytes"
	"fmt"
	pathpkg "path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// Document is the core content type: a markdown file with front matter,
// loaded from the content tree and rendered by a layout template.
type Document struct {
	Path      string // source path relative to the content root
	Title     string
	Date      time.Time
	Tags      []string
	Summary   string
	Layout    string
	Permalink string // URL path, slash-bounded, e.g. "/blog/hello-world/"
	Link      string // alias of Permalink for templates
	Comments  bool
	Published bool
	Body      string                 // markdown body, front matter stripped
	HTML      string                 // rendered body, filled during build
	Hash      string                 // sha256 of the source file, for the build manifest
	Params    map[string]interface{} // unrecognized front-matter keys
}

// Slug returns the last path segment of the document's permalink.
func (d Document) Slug() string {
	trimmed := strings.Trim(d.Permalink, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// IsPost reports whether the document lives under the posts/ subtree.
func (d Document) IsPost() bool {
	return strings.HasPrefix(d.Path, "posts/") || strings.HasPrefix(d.Path, "posts\\")
}

// frontMatterEnvelope is the typed view of a document's front matter.
// Keys not named here land in Custom and are exposed as template Params.
type frontMatterEnvelope struct {
	Layout      string                 `yaml:"layout"`
	Title       string                 `yaml:"title"`
	Permalink   string                 `yaml:"permalink"`
	Published   *bool                  `yaml:"published"`
	Comment     *bool                  `yaml:"comment"`
	Comments    *bool                  `yaml:"comments"`
	Tags        []string               `yaml:"tags"`
	Date        string                 `yaml:"date"`
	Summary     string                 `yaml:"summary"`
	Description string                 `yaml:"description"`
	Custom      map[string]interface{} `yaml:",inline"`
}

// dateFormats are accepted front-matter date layouts, most specific first.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDocument parses a raw content file into a Document. The path is
// stored as given and also drives the default permalink and title.
//
// Front-matter semantics:
//   - published defaults to true when absent
//   - comment and comments are aliases; comments wins if both are set
//   - a file without a front-matter block is a document with empty
//     metadata and the whole file as body
func ParseDocument(path string, source []byte) (Document, error) {
	var env frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter for %s: %w", path, err)
	}

	doc := Document{
		Path:      path,
		Hash:      HashBytes(source),
		Title:     env.Title,
		Tags:      FilterEmpty(env.Tags),
		Summary:   env.Summary,
		Layout:    env.Layout,
		Published: true,
		Body:      string(body),
		Params:    env.Custom,
	}
	if doc.Params == nil {
		doc.Params = map[string]interface{}{}
	}
	if doc.Summary == "" {
		doc.Summary = env.Description
	}
	if env.Published != nil {
		doc.Published = *env.Published
	}
	if env.Comment != nil {
		doc.Comments = *env.Comment
	}
	if env.Comments != nil {
		doc.Comments = *env.Comments
	}
	if env.Date != "" {
		t, err := parseDate(env.Date)
		if err != nil {
			return Document{}, fmt.Errorf("parse date for %s: %w", path, err)
		}
		doc.Date = t
	}
	if doc.Title == "" {
		doc.Title = TitleFromPath(path)
	}
	doc.Permalink = permalinkFor(path, env.Permalink)
	doc.Link = doc.Permalink
	return doc, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, use YYYY-MM-DD or RFC3339", s)
}

// permalinkFor computes the output URL path. A front-matter permalink
// overrides the path-derived default; both come out slash-bounded.
func permalinkFor(path, override string) string {
	p := override
	if p == "" {
		p = strings.ReplaceAll(path, "\\", "/")
		p = strings.TrimSuffix(p, pathpkg.Ext(p))
	}
	p = strings.Trim(p, "/")
	if p == "" || p == "index" {
		return "/"
	}
	return "/" + p + "/"
}
