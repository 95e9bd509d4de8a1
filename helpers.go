package pagesmith

import (
	"encoding/json"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var titleCaser = cases.Title(language.English)

// TitleFromPath derives a display title from a content file path when no
// front-matter title is present: "posts/my-first-post.md" -> "My First Post".
func TitleFromPath(p string) string {
	base := filepath.Base(p)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return titleCaser.String(base)
}

// RelatedDocuments finds documents that share at least one tag with current.
func RelatedDocuments(current Document, docs []Document) []Document {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := normalizeTag(t)
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Document
	for _, d := range docs {
		if d.Permalink == current.Permalink {
			continue
		}
		for _, t := range d.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, d)
				break
			}
		}
	}
	return related
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(doc Document, cfg SiteConfig) string {
	docURL := BuildURL(cfg.URL, doc.Permalink)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    doc.Title,
		"description": doc.Summary,
		"url":         docURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   docURL,
		},
	}
	if !doc.Date.IsZero() {
		data["datePublished"] = doc.Date.Format("2006-01-02")
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(doc.Tags) > 0 {
		data["keywords"] = strings.Join(doc.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
