package pagesmith

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pagesmith/pagesmith/markdown"
)

// manifestLayoutsKey is the reserved manifest row recording the combined
// fingerprint of the layout set and site config. When it changes, every
// page is re-rendered.
const manifestLayoutsKey = "_layouts"

// manifestListingPrefix marks manifest rows for generated listing pages
// (home, tags index, per-tag pages), so listings that stop being
// generated get pruned like documents do.
const manifestListingPrefix = "_listing:"

// ManifestName is the build-cache database file inside the output dir.
const ManifestName = ".pagesmith.db"

// BuildOptions controls a single build run.
type BuildOptions struct {
	Force bool // re-render everything, ignoring the manifest
}

// BuildResult reports what a build did.
type BuildResult struct {
	Rendered int // documents rendered this run
	Skipped  int // documents unchanged since the last build
	Pruned   int // stale outputs removed
}

// Build renders the whole site into cfg.OutputDir: every published
// document, the home and tag listings, sitemap.xml, feed.xml, robots.txt,
// and the static assets. Unpublished documents never reach the output.
func Build(cfg SiteConfig, opts BuildOptions) (BuildResult, error) {
	site, err := BuildSite(cfg)
	if err != nil {
		return BuildResult{}, err
	}
	layouts, err := LoadLayouts(cfg.LayoutsDir, cfg)
	if err != nil {
		return BuildResult{}, err
	}
	return BuildInto(site, layouts, opts)
}

// BuildInto renders an already-assembled site with the given layouts.
func BuildInto(site *Site, layouts *Layouts, opts BuildOptions) (BuildResult, error) {
	cfg := site.Config
	var res BuildResult

	if err := checkPermalinks(site); err != nil {
		return res, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}

	store, err := NewStore(filepath.Join(cfg.OutputDir, ManifestName))
	if err != nil {
		return res, fmt.Errorf("open build manifest: %w", err)
	}
	defer store.Close()

	// A changed layout or config invalidates every rendered page.
	fingerprint, err := layoutsFingerprint(cfg)
	if err != nil {
		return res, err
	}
	renderAll := opts.Force
	if prev, err := store.Get(manifestLayoutsKey); err != nil || prev.Hash != fingerprint {
		renderAll = true
	}

	if err := CopyStatic(cfg.StaticDir, cfg.OutputDir, cfg); err != nil {
		return res, fmt.Errorf("copy static assets: %w", err)
	}

	published := make(map[string]bool)
	docOutputs := make(map[string]bool)
	for _, doc := range site.Documents() {
		published[doc.Path] = true
		docOutputs[docOutput(doc)] = true
	}

	for _, doc := range site.Documents() {
		outRel := docOutput(doc)
		outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(outRel))

		prev, prevErr := store.Get(doc.Path)
		if !renderAll && prevErr == nil && prev.Hash == doc.Hash {
			if _, err := os.Stat(outPath); err == nil {
				res.Skipped++
				continue
			}
		}

		page, err := RenderDocument(site, layouts, doc)
		if err != nil {
			return res, err
		}
		if err := writeFile(outPath, page); err != nil {
			return res, err
		}
		// A changed permalink moves the page; the old location must go,
		// or it stays reachable forever. Never remove a path another
		// document now owns.
		if prevErr == nil && prev.Output != "" && prev.Output != outRel && !docOutputs[prev.Output] {
			old := filepath.Join(cfg.OutputDir, filepath.FromSlash(prev.Output))
			if err := os.Remove(old); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return res, fmt.Errorf("remove moved page %s: %w", old, err)
			}
			removeEmptyParents(filepath.Dir(old), cfg.OutputDir)
		}
		if err := store.Put(doc.Path, doc.Hash, outRel); err != nil {
			return res, err
		}
		res.Rendered++
	}

	// Prune outputs whose source vanished or was unpublished.
	entries, err := store.List()
	if err != nil {
		return res, err
	}
	for path, e := range entries {
		if path == manifestLayoutsKey || strings.HasPrefix(path, manifestListingPrefix) || published[path] {
			continue
		}
		target := filepath.Join(cfg.OutputDir, filepath.FromSlash(e.Output))
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("prune %s: %w", target, err)
		}
		removeEmptyParents(filepath.Dir(target), cfg.OutputDir)
		if err := store.Delete(path); err != nil {
			return res, err
		}
		res.Pruned++
	}

	// Listings, feeds, and the sitemap aggregate across documents, so
	// they regenerate on every build.
	listings, err := buildListings(site, layouts)
	if err != nil {
		return res, err
	}
	if err := buildFeeds(site); err != nil {
		return res, err
	}

	// Listing pages that stopped being generated (a tag's last post
	// dropped it, a content document took over the home page) are as
	// stale as pruned documents.
	emitted := make(map[string]bool, len(listings))
	for _, rel := range listings {
		emitted[rel] = true
		if err := store.Put(manifestListingPrefix+rel, "", rel); err != nil {
			return res, err
		}
	}
	for path, e := range entries {
		if !strings.HasPrefix(path, manifestListingPrefix) || emitted[e.Output] {
			continue
		}
		if !docOutputs[e.Output] {
			target := filepath.Join(cfg.OutputDir, filepath.FromSlash(e.Output))
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return res, fmt.Errorf("prune %s: %w", target, err)
			}
			removeEmptyParents(filepath.Dir(target), cfg.OutputDir)
			res.Pruned++
		}
		if err := store.Delete(path); err != nil {
			return res, err
		}
	}

	if err := store.Put(manifestLayoutsKey, fingerprint, ""); err != nil {
		return res, err
	}

	log.Printf("build: %d rendered, %d skipped, %d pruned -> %s", res.Rendered, res.Skipped, res.Pruned, cfg.OutputDir)
	return res, nil
}

// RenderDocument converts a document's markdown body and wraps it in its
// resolved layout. The preview server uses this for drafts too.
func RenderDocument(site *Site, layouts *Layouts, doc Document) ([]byte, error) {
	body, err := markdown.Render([]byte(doc.Body))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.Path, err)
	}
	doc.HTML = string(body)

	name, err := layouts.Resolve(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = layouts.Execute(&buf, name, PageData{
		Site:    site.Config,
		Doc:     doc,
		Posts:   site.Posts,
		Tags:    site.Tags(),
		Content: template.HTML(doc.HTML),
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.Path, err)
	}
	return buf.Bytes(), nil
}

// buildListings writes the home page and the tag taxonomy pages and
// returns the output-relative paths it emitted. home.html renders the
// index when present, tag.html the per-tag listings; both fall back to
// base.html.
func buildListings(site *Site, layouts *Layouts) ([]string, error) {
	cfg := site.Config
	var emitted []string

	renderListing := func(outRel, preferred, tag string, posts []Document) error {
		name := baseLayout
		if layouts.Has(preferred) {
			name = preferred
		}
		var buf bytes.Buffer
		err := layouts.Execute(&buf, name, PageData{
			Site:  cfg,
			Posts: posts,
			Tags:  site.Tags(),
			Tag:   tag,
		})
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(outRel)), buf.Bytes()); err != nil {
			return err
		}
		emitted = append(emitted, outRel)
		return nil
	}

	// Home listing is skipped when the content tree supplies its own
	// index document (permalink "/").
	if _, err := site.Lookup("/"); errors.Is(err, ErrNotFound) {
		if err := renderListing("index.html", "home.html", "", site.Posts); err != nil {
			return nil, err
		}
	}

	if len(site.Tags()) > 0 {
		if err := renderListing("tags/index.html", "tags.html", "", site.Posts); err != nil {
			return nil, err
		}
	}
	for _, tag := range site.Tags() {
		out := "tags/" + Slugify(tag) + "/index.html"
		if err := renderListing(out, "tag.html", tag, site.PostsByTag(tag)); err != nil {
			return nil, err
		}
	}
	return emitted, nil
}

func buildFeeds(site *Site) error {
	cfg := site.Config

	sitemap, err := SitemapXML(site)
	if err != nil {
		return fmt.Errorf("render sitemap: %w", err)
	}
	if err := writeFile(filepath.Join(cfg.OutputDir, "sitemap.xml"), sitemap); err != nil {
		return err
	}

	feed, err := FeedXML(site)
	if err != nil {
		return fmt.Errorf("render feed: %w", err)
	}
	if err := writeFile(filepath.Join(cfg.OutputDir, "feed.xml"), feed); err != nil {
		return err
	}

	return writeFile(filepath.Join(cfg.OutputDir, "robots.txt"), RobotsTxt(cfg))
}

// docOutput is the output-relative file a document renders to.
func docOutput(doc Document) string {
	return filepath.ToSlash(filepath.Join(filepath.FromSlash(strings.Trim(doc.Permalink, "/")), "index.html"))
}

// checkPermalinks rejects sites where two documents resolve to the same
// output path, which a permalink override can cause.
func checkPermalinks(site *Site) error {
	seen := make(map[string]string)
	for _, d := range site.Documents() {
		if other, ok := seen[d.Permalink]; ok {
			return fmt.Errorf("permalink %q claimed by both %s and %s", d.Permalink, other, d.Path)
		}
		seen[d.Permalink] = d.Path
	}
	return nil
}

// layoutsFingerprint hashes the layout files and the parts of the config
// that affect rendered output.
func layoutsFingerprint(cfg SiteConfig) (string, error) {
	var parts []string
	err := filepath.WalkDir(cfg.LayoutsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		parts = append(parts, filepath.ToSlash(path)+":"+HashBytes(data))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint layouts: %w", err)
	}
	sort.Strings(parts)
	parts = append(parts, fmt.Sprintf("cfg:%s|%s|%s|%s", cfg.Name, cfg.URL, cfg.Description, cfg.Author))
	return HashBytes([]byte(strings.Join(parts, "\n"))), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// removeEmptyParents deletes now-empty directories left behind by a
// pruned page, stopping at the output root.
func removeEmptyParents(dir, root string) {
	root = filepath.Clean(root)
	for dir != root && strings.HasPrefix(dir, root) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
