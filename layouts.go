package pagesmith

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagesmith/pagesmith/markdown"
)

// ErrLayoutNotFound is returned when a document's layout key names a
// template that was not loaded. A missing layout reference is an
// authoring defect and fails the build.
var ErrLayoutNotFound = errors.New("pagesmith: layout not found")

const baseLayout = "base.html"

// Layouts holds the parsed html/template set for a site: base.html,
// named layouts alongside it, and partials under partials/.
type Layouts struct {
	templates *template.Template
}

// PageData is the root object every layout executes against.
type PageData struct {
	Site    SiteConfig
	Doc     Document
	Posts   []Document // all published posts, newest first
	Tags    []string
	Tag     string // active tag on tag listing pages
	Content template.HTML
}

// LoadLayouts parses every .html file under dir into a single template
// set. base.html must exist directly in dir.
func LoadLayouts(dir string, cfg SiteConfig) (*Layouts, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan layouts directory %q: %w", dir, err)
	}

	hasBase := false
	for _, f := range files {
		if filepath.Base(f) == baseLayout && filepath.Dir(f) == filepath.Clean(dir) {
			hasBase = true
			break
		}
	}
	if !hasBase {
		return nil, fmt.Errorf("%s not found in layouts directory %q", baseLayout, dir)
	}

	root := template.New("").Funcs(layoutFuncs(cfg))
	templates, err := root.ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	return &Layouts{templates: templates}, nil
}

// layoutFuncs are the helpers exposed to every layout template.
func layoutFuncs(cfg SiteConfig) template.FuncMap {
	return template.FuncMap{
		"absURL": func(segments ...string) string {
			return BuildURL(cfg.URL, segments...)
		},
		"slugify":  Slugify,
		"joinTags": JoinTags,
		"safeURL":  markdown.SafeURL,
		"formatDate": func(layout string, t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"related": RelatedDocuments,
		"siteJsonLD": func() template.JS {
			return template.JS(WebsiteJsonLD(cfg))
		},
		"postJsonLD": func(doc Document) template.JS {
			return template.JS(BlogPostingJsonLD(doc, cfg))
		},
	}
}

// Resolve picks the layout name for a document. An explicit layout key
// must match a loaded template; without one, posts fall back to
// post.html, pages to page.html, and finally base.html.
func (l *Layouts) Resolve(doc Document) (string, error) {
	if doc.Layout != "" {
		name := doc.Layout
		if !strings.HasSuffix(name, ".html") {
			name += ".html"
		}
		if l.templates.Lookup(name) == nil {
			return "", fmt.Errorf("%w: %q referenced by %s", ErrLayoutNotFound, doc.Layout, doc.Path)
		}
		return name, nil
	}
	fallback := "page.html"
	if doc.IsPost() {
		fallback = "post.html"
	}
	if l.templates.Lookup(fallback) != nil {
		return fallback, nil
	}
	return baseLayout, nil
}

// Has reports whether a template with the given name was loaded.
func (l *Layouts) Has(name string) bool {
	return l.templates.Lookup(name) != nil
}

// Execute renders the named layout with data.
func (l *Layouts) Execute(w io.Writer, name string, data PageData) error {
	if err := l.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("execute layout %q: %w", name, err)
	}
	return nil
}
