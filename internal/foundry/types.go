package foundry

import "time"

// RootFolderID is the sentinel parent reference for entities living at the
// top of the remote tree.
const RootFolderID = ""

// Folder is a folder record as returned by the remote store.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent,omitempty"`
}

// JournalEntry is a journal record with its ordered pages.
type JournalEntry struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	FolderID string        `json:"folder,omitempty"`
	Pages    []JournalPage `json:"pages,omitempty"`
}

// JournalPage is a single page of a journal entry.
type JournalPage struct {
	ID    string    `json:"id,omitempty"`
	Name  string    `json:"name"`
	Type  string    `json:"type,omitempty"`
	Text  PageText  `json:"text"`
	Flags PageFlags `json:"flags,omitempty"`
}

// PageText holds the stored HTML content of a page.
type PageText struct {
	Content string `json:"content"`
}

// PageFlags carries namespaced per-module metadata on a page. The
// "foundrysync" key is a persisted format shared with any existing remote
// corpus and must not change.
type PageFlags struct {
	Foundrysync *Provenance `json:"foundrysync,omitempty"`
}

// Provenance records which local document produced a page, so that a later
// link-resolution run (possibly in a different process) can rebuild its maps
// purely from the remote corpus.
type Provenance struct {
	DocumentID      string          `json:"documentId"`
	DocumentPath    string          `json:"documentPath"`
	ContentHash     string          `json:"contentHash,omitempty"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
	ModifiedAt      time.Time       `json:"modifiedAt,omitempty"`
	UploadedAt      time.Time       `json:"uploadedAt,omitempty"`
	Links           []LinkReference `json:"links,omitempty"`
	UnresolvedLinks int             `json:"unresolvedLinks"`
}

// LinkReference is one outbound cross-document link recorded on a page.
//
// TargetPath is the link target exactly as it appeared in the rendered markup
// (extension and all); lookups normalize it, while the rewrite step uses it
// verbatim to reconstruct the original anchor tag. Anchor keeps its leading "#".
type LinkReference struct {
	SourceDocumentID string `json:"sourceDocumentId,omitempty"`
	TargetPath       string `json:"targetPath,omitempty"`
	DisplayText      string `json:"displayText,omitempty"`
	TargetDocumentID string `json:"targetDocumentId,omitempty"`
	IsAnchor         bool   `json:"isAnchor,omitempty"`
	Anchor           string `json:"anchor,omitempty"`
	Resolved         bool   `json:"resolved,omitempty"`
}

// FileEntry is one entry of the remote upload directory listing.
type FileEntry struct {
	Path string `json:"path"`
}

// CountUnresolved returns the number of links not yet marked resolved.
func (p *Provenance) CountUnresolved() int {
	n := 0
	for i := range p.Links {
		if !p.Links[i].Resolved {
			n++
		}
	}
	return n
}
