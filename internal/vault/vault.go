// Package vault provides access to the local document corpus: discovery,
// frontmatter-based provenance persistence and reference extraction.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const markdownExt = ".md"

// Document is one markdown document of the vault.
type Document struct {
	AbsPath string // absolute filesystem path
	RelPath string // vault-relative path, slash-separated, with extension
	Front   Frontmatter
	Body    []byte // content after the frontmatter block
}

// Path returns the vault-relative document path without the markdown
// extension. This is the form recorded in provenance metadata and used for
// path-based link lookups.
func (d *Document) Path() string {
	return strings.TrimSuffix(d.RelPath, markdownExt)
}

// Title returns the page title: the frontmatter title if set, otherwise the
// file name without extension.
func (d *Document) Title() string {
	if d.Front.Title != "" {
		return d.Front.Title
	}
	base := filepath.Base(d.RelPath)
	return strings.TrimSuffix(base, markdownExt)
}

// Dir returns the vault-relative directory of the document, used as the
// renderer's resolution base. Empty for documents at the vault root.
func (d *Document) Dir() string {
	dir := filepath.ToSlash(filepath.Dir(d.RelPath))
	if dir == "." {
		return ""
	}
	return dir
}

// Walk discovers all markdown documents under root, skipping dotted
// directories. Documents with unreadable or malformed frontmatter are loaded
// with an empty frontmatter rather than dropped.
func Walk(root string) ([]*Document, error) {
	var docs []*Document

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), markdownExt) {
			return nil
		}

		doc, loadErr := Load(root, p)
		if loadErr != nil {
			return loadErr
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}

	return docs, nil
}

// Load reads a single document from disk.
func Load(root, absPath string) (*Document, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return nil, fmt.Errorf("relativize path: %w", err)
	}

	doc := &Document{
		AbsPath: absPath,
		RelPath: filepath.ToSlash(rel),
	}

	front, body, err := ParseFrontmatter(data)
	if err != nil {
		// No or malformed frontmatter: treat the whole file as body.
		doc.Body = data
		return doc, nil
	}
	doc.Front = front
	doc.Body = body
	return doc, nil
}

// Save writes the document back to disk, re-serializing its frontmatter.
func (d *Document) Save() error {
	data, err := SerializeFrontmatter(d.Front, d.Body)
	if err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}
	if err := os.WriteFile(d.AbsPath, data, 0600); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
