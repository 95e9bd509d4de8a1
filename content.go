package pagesmith

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// markdownExts are the content file extensions the loader accepts.
var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
}

// LoadDocuments walks contentDir and parses every markdown file into a
// Document. Paths are stored relative to contentDir with forward slashes.
// Files and directories whose name starts with "_" or "." are skipped,
// so authors can keep notes alongside content.
func LoadDocuments(contentDir string) ([]Document, error) {
	if _, err := os.Stat(contentDir); err != nil {
		return nil, fmt.Errorf("content directory %q: %w", contentDir, err)
	}

	var docs []Document
	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			if d.IsDir() && path != contentDir {
				return filepath.SkipDir
			}
			if !d.IsDir() {
				return nil
			}
		}
		if d.IsDir() || !markdownExts[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		doc, err := ParseDocument(filepath.ToSlash(rel), source)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
