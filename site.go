package pagesmith

import (
	"errors"
	"sort"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("pagesmith: document not found")

// Site aggregates the loaded content tree: published posts and pages,
// drafts, and the tag taxonomy. All listings exclude unpublished documents.
type Site struct {
	Config SiteConfig
	Posts  []Document // published, under posts/, date-descending
	Pages  []Document // published, everything else
	Drafts []Document // published: false, preview only

	tagIndex map[string][]Document
	tags     []string
}

// BuildSite loads the content directory and assembles the site model.
func BuildSite(cfg SiteConfig) (*Site, error) {
	docs, err := LoadDocuments(cfg.ContentDir)
	if err != nil {
		return nil, err
	}
	return NewSite(cfg, docs), nil
}

// NewSite assembles a Site from already-parsed documents.
func NewSite(cfg SiteConfig, docs []Document) *Site {
	s := &Site{
		Config:   cfg,
		tagIndex: make(map[string][]Document),
	}
	for _, d := range docs {
		if !d.Published {
			s.Drafts = append(s.Drafts, d)
			continue
		}
		if d.IsPost() {
			s.Posts = append(s.Posts, d)
		} else {
			s.Pages = append(s.Pages, d)
		}
	}

	// Newest first; undated documents sink to the end. Permalink breaks
	// ties so repeated builds order identically.
	sort.SliceStable(s.Posts, func(i, j int) bool {
		a, b := s.Posts[i], s.Posts[j]
		if a.Date.IsZero() != b.Date.IsZero() {
			return !a.Date.IsZero()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Permalink < b.Permalink
	})
	sort.SliceStable(s.Pages, func(i, j int) bool {
		return s.Pages[i].Permalink < s.Pages[j].Permalink
	})
	sort.SliceStable(s.Drafts, func(i, j int) bool {
		return s.Drafts[i].Permalink < s.Drafts[j].Permalink
	})

	seen := make(map[string]struct{})
	for _, p := range s.Posts {
		for _, t := range p.Tags {
			tag := normalizeTag(t)
			if tag == "" {
				continue
			}
			s.tagIndex[tag] = append(s.tagIndex[tag], p)
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				s.tags = append(s.tags, tag)
			}
		}
	}
	sort.Strings(s.tags)
	return s
}

// Tags returns the sorted, case-insensitively deduplicated tags of all
// published posts.
func (s *Site) Tags() []string {
	return s.tags
}

// PostsByTag returns published posts carrying the given tag, newest first.
func (s *Site) PostsByTag(tag string) []Document {
	return s.tagIndex[normalizeTag(tag)]
}

// Documents returns every published document, posts before pages.
func (s *Site) Documents() []Document {
	out := make([]Document, 0, len(s.Posts)+len(s.Pages))
	out = append(out, s.Posts...)
	return append(out, s.Pages...)
}

// Lookup finds a published document by permalink.
func (s *Site) Lookup(permalink string) (Document, error) {
	for _, d := range s.Documents() {
		if d.Permalink == permalink {
			return d, nil
		}
	}
	return Document{}, ErrNotFound
}

// Draft finds an unpublished document by slug, for the preview server.
func (s *Site) Draft(slug string) (Document, error) {
	for _, d := range s.Drafts {
		if d.Slug() == slug {
			return d, nil
		}
	}
	return Document{}, ErrNotFound
}
