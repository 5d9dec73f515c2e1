package sync

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/CePeU/foundrysync/internal/foundry"
	"github.com/CePeU/foundrysync/internal/hierarchy"
	"github.com/CePeU/foundrysync/internal/vault"
)

// UpsertDecision records the outcome of resolving one document to a remote
// page. Folder creation, journal creation and page creation are independent
// sub-decisions, so the record carries independent flags instead of one enum.
type UpsertDecision struct {
	PageFound     bool
	CreatePage    bool
	UpdatePage    bool
	CreateFolder  bool
	CreateJournal bool
}

// UpsertDocument resolves a document to at most one remote page (by stored
// identity, then by computed path) or creates folder, journal and page as
// needed, then writes the page content. Remote failures are logged and
// substituted with empty defaults; the procedure continues degraded rather
// than aborting.
func (s *Session) UpsertDocument(ctx context.Context, doc *vault.Document, content, hash string, linkRefs []foundry.LinkReference) UpsertDecision {
	var d UpsertDecision

	title := doc.Title()
	folderPath, journalName := s.destination(doc)

	var folderID, journalID, pageID string

	if node, ok := s.index.PagesByID[doc.Front.FoundryID]; doc.Front.FoundryID != "" && ok {
		// Stored identity wins: adopt the indexed page's placement, skip all
		// creation.
		d.PageFound = true
		d.UpdatePage = true
		pageID = node.ID
		journalID = node.JournalID
		if journal, ok := s.index.JournalsByID[journalID]; ok {
			folderID = journal.FolderID
		}
	} else {
		folderID, journalID, pageID = s.resolveByPath(ctx, &d, folderPath, journalName, title)
	}

	page := foundry.JournalPage{
		ID:   pageID,
		Name: title,
		Type: "text",
		Text: foundry.PageText{Content: content},
		Flags: foundry.PageFlags{
			Foundrysync: s.buildProvenance(doc, hash, linkRefs),
		},
	}

	if d.CreatePage {
		newID := s.createPage(ctx, journalID, page)
		if newID != "" {
			s.index.AddPage(&hierarchy.PageNode{
				ID:         newID,
				Name:       title,
				JournalID:  journalID,
				FullPath:   hierarchy.JoinPagePath(folderPath, journalName, title),
				Provenance: page.Flags.Foundrysync,
			})
		}
		s.writeBack(ctx, doc, newID, journalID, folderID, folderPath, journalName, title)
	} else {
		if err := s.client.UpdatePage(ctx, journalID, page); err != nil {
			s.logger.WarnContext(ctx, "update page failed", "page", pageID, "error", err)
		} else if node, ok := s.index.PagesByID[pageID]; ok {
			node.Provenance = page.Flags.Foundrysync
		}
	}

	return d
}

// resolveByPath runs the folder → journal → page resolution chain for a
// document without a usable stored identity.
func (s *Session) resolveByPath(ctx context.Context, d *UpsertDecision, folderPath, journalName, title string) (folderID, journalID, pageID string) {
	if node, ok := s.index.FoldersByPath[folderPath]; ok || folderPath == "" {
		if ok {
			folderID = node.ID
		}
	} else {
		// A just-created folder cannot already contain an existing journal in
		// the index, so everything below it is a creation.
		d.CreateFolder = true
		d.CreatePage = true
		id, err := s.index.EnsureFolderPath(ctx, folderPath, s.client.CreateFolder)
		if err != nil {
			s.logger.WarnContext(ctx, "folder chain creation failed", "path", folderPath, "error", err)
			id = ""
		}
		folderID = id
	}

	journalKey := hierarchy.JoinJournalPath(folderPath, journalName)
	if node, ok := s.index.JournalsByPath[journalKey]; ok {
		journalID = node.ID
		d.UpdatePage = true
	} else {
		d.CreateJournal = true
		d.CreatePage = true
		id, err := s.client.CreateJournal(ctx, journalName, folderID)
		if err != nil {
			s.logger.WarnContext(ctx, "create journal failed", "name", journalName, "error", err)
			id = ""
		}
		journalID = id
		if journalID != "" {
			s.index.AddJournal(&hierarchy.JournalNode{
				ID:       journalID,
				Name:     journalName,
				FolderID: folderID,
				FullPath: journalKey,
			})
		}
	}

	pageKey := hierarchy.JoinPagePath(folderPath, journalName, title)
	if node, ok := s.index.PagesByPath[pageKey]; ok {
		pageID = node.ID
		d.PageFound = true
		d.UpdatePage = true
		d.CreatePage = false
	} else {
		d.CreatePage = true
	}

	return folderID, journalID, pageID
}

// createPage issues the create-page write and recovers the remote-assigned id
// by filtering the response page list by name. Zero or multiple matches are
// ambiguous and yield an empty identity; the page then stays unresolvable in
// the index until the next full session rebuild.
func (s *Session) createPage(ctx context.Context, journalID string, page foundry.JournalPage) string {
	page.ID = "" // remote assigns the id
	result, err := s.client.CreatePage(ctx, journalID, page)
	if err != nil {
		s.logger.WarnContext(ctx, "create page failed", "name", page.Name, "error", err)
		return ""
	}

	newID := ""
	matches := 0
	for i := range result {
		if result[i].Name == page.Name {
			matches++
			newID = result[i].ID
		}
	}
	if matches != 1 {
		s.logger.WarnContext(ctx, "ambiguous create-page response, id not recovered",
			"name", page.Name, "matches", matches)
		return ""
	}
	return newID
}

// writeBack persists the resolved identity and placement into the source
// document's frontmatter. Only the create path needs this (an update does not
// change the identity) and it is guarded by configuration.
func (s *Session) writeBack(ctx context.Context, doc *vault.Document, pageID, journalID, folderID, folderPath, journalName, title string) {
	if !s.cfg.WriteBack {
		return
	}

	doc.Front.FoundryID = pageID
	doc.Front.FoundryJournal = journalID
	doc.Front.FoundryFolder = folderID
	doc.Front.FoundryPath = hierarchy.JoinPagePath(folderPath, journalName, title)
	doc.Front.FoundryTitle = title

	if err := doc.Save(); err != nil {
		s.logger.WarnContext(ctx, "frontmatter write-back failed", "path", doc.RelPath, "error", err)
	}
}

// buildProvenance assembles the namespaced provenance sub-object embedded in
// the remote page payload.
func (s *Session) buildProvenance(doc *vault.Document, hash string, linkRefs []foundry.LinkReference) *foundry.Provenance {
	prov := &foundry.Provenance{
		DocumentID:   doc.Front.UID,
		DocumentPath: doc.Path(),
		ContentHash:  hash,
		UploadedAt:   time.Now().UTC(),
		Links:        linkRefs,
	}
	prov.UnresolvedLinks = prov.CountUnresolved()

	if info, err := docTimes(doc); err == nil {
		prov.CreatedAt = info.created
		prov.ModifiedAt = info.modified
	}
	return prov
}

type fileTimes struct {
	created  time.Time
	modified time.Time
}

// docTimes reads document timestamps from the filesystem. Creation time is
// not portably available, so the modification time stands in for both.
func docTimes(doc *vault.Document) (fileTimes, error) {
	info, err := os.Stat(doc.AbsPath)
	if err != nil {
		return fileTimes{}, err
	}
	mod := info.ModTime().UTC()
	return fileTimes{created: mod, modified: mod}, nil
}

// destination maps a document's vault location to its remote placement: the
// directory chain becomes the folder path except for the last segment, which
// names the journal; root-level documents go into the configured default
// journal.
func (s *Session) destination(doc *vault.Document) (folderPath, journalName string) {
	dir := doc.Dir()
	if dir == "" {
		return s.cfg.RootFolder, s.cfg.JournalName
	}

	segments := strings.Split(dir, "/")
	journalName = segments[len(segments)-1]
	parts := segments[:len(segments)-1]
	if s.cfg.RootFolder != "" {
		parts = append([]string{s.cfg.RootFolder}, parts...)
	}
	return strings.Join(parts, "/"), journalName
}
