// Package links resolves cross-document references between synchronized pages
// into remote addresses and rewrites the corresponding inline markup.
package links

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/CePeU/foundrysync/internal/foundry"
)

// Address is the composite identifier used by the remote store to address a
// page.
type Address struct {
	JournalID string
	PageID    string
}

// UUID renders the address in the remote addressing scheme.
func (a Address) UUID() string {
	return "JournalEntry." + a.JournalID + ".JournalEntryPage." + a.PageID
}

// PendingPage is a synchronized page queued for link resolution.
type PendingPage struct {
	JournalID string
	Page      *foundry.JournalPage
	Addr      Address
}

// Resolver maps document identities and paths to remote page addresses and
// rewrites pending link references. It operates over the full set of
// previously-synchronized pages, not a single document.
type Resolver struct {
	byID   map[string]Address
	byPath map[string]Address
	logger *slog.Logger
}

// NewResolver creates an empty resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		byID:   make(map[string]Address),
		byPath: make(map[string]Address),
		logger: logger,
	}
}

// BuildMaps scans all pages carrying provenance metadata, registers their
// remote addresses under both the recorded document identity and the recorded
// document path, and returns the pages still holding unresolved links.
func (r *Resolver) BuildMaps(journals []foundry.JournalEntry) []*PendingPage {
	var pending []*PendingPage

	for i := range journals {
		j := &journals[i]
		for k := range j.Pages {
			page := &j.Pages[k]
			prov := page.Flags.Foundrysync
			if prov == nil {
				continue
			}

			addr := Address{JournalID: j.ID, PageID: page.ID}
			if prov.DocumentID != "" {
				r.byID[prov.DocumentID] = addr
			}
			if prov.DocumentPath != "" {
				r.byPath[prov.DocumentPath] = addr
			}

			if prov.UnresolvedLinks > 0 {
				pending = append(pending, &PendingPage{
					JournalID: j.ID,
					Page:      page,
					Addr:      addr,
				})
			}
		}
	}

	return pending
}

// ResolvePage resolves every pending link reference of one page and rewrites
// the matching inline markup in its stored content. It reports whether the
// page's content or link provenance changed and must be persisted.
func (r *Resolver) ResolvePage(p *PendingPage) bool {
	prov := p.Page.Flags.Foundrysync
	if prov == nil {
		return false
	}

	changed := false
	for i := range prov.Links {
		link := &prov.Links[i]
		if link.Resolved {
			continue
		}
		if r.resolveLink(p, link) {
			changed = true
		}
	}

	if unresolved := prov.CountUnresolved(); unresolved != prov.UnresolvedLinks {
		prov.UnresolvedLinks = unresolved
		changed = true
	}

	return changed
}

// resolveLink resolves a single reference. Identity-based resolution always
// wins over path-based resolution; a link with neither identity nor path that
// carries an anchor is a self reference.
func (r *Resolver) resolveLink(p *PendingPage, link *foundry.LinkReference) bool {
	addr, ok := r.lookup(link)
	if !ok {
		if link.TargetDocumentID == "" && link.TargetPath == "" && link.IsAnchor {
			addr = p.Addr
		} else {
			r.logger.Debug("link target not resolvable",
				"page", p.Page.ID,
				"target_id", link.TargetDocumentID,
				"target_path", link.TargetPath)
			return false
		}
	}

	ref := addr.UUID()
	if link.IsAnchor {
		if slug := Slugify(link.Anchor); slug != "" {
			ref += "#" + slug
		}
	}
	replacement := fmt.Sprintf("@UUID[%s]{%s}", ref, link.DisplayText)

	needle := originalMarkup(link)
	if needle == "" || !strings.Contains(p.Page.Text.Content, needle) {
		r.logger.Warn("original link markup not found, leaving unresolved",
			"page", p.Page.ID,
			"target_path", link.TargetPath,
			"anchor", link.Anchor)
		return false
	}

	p.Page.Text.Content = strings.Replace(p.Page.Text.Content, needle, replacement, 1)
	link.Resolved = true
	return true
}

// lookup tries identity first, then path.
func (r *Resolver) lookup(link *foundry.LinkReference) (Address, bool) {
	if link.TargetDocumentID != "" {
		if addr, ok := r.byID[link.TargetDocumentID]; ok {
			return addr, true
		}
	}
	if link.TargetPath != "" {
		if addr, ok := r.byPath[NormalizePath(link.TargetPath)]; ok {
			return addr, true
		}
	}
	return Address{}, false
}

// originalMarkup reconstructs the exact anchor tag to replace, depending on
// which of path and anchor were present in the source. An unclassifiable link
// yields an empty needle.
func originalMarkup(link *foundry.LinkReference) string {
	switch {
	case link.TargetPath == "" && link.IsAnchor:
		return fmt.Sprintf(`<a href="%s">%s</a>`, link.Anchor, link.DisplayText)
	case link.TargetPath != "" && link.Anchor == "":
		return fmt.Sprintf(`<a href="%s">%s</a>`, link.TargetPath, link.DisplayText)
	case link.TargetPath != "" && link.Anchor != "":
		return fmt.Sprintf(`<a href="%s%s">%s</a>`, link.TargetPath, link.Anchor, link.DisplayText)
	}
	return ""
}

// NormalizePath turns a link target as it appeared in markup into the
// provenance document-path form: percent-decoded and without the markdown
// extension.
func NormalizePath(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	return strings.TrimSuffix(p, ".md")
}
