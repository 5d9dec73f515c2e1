package sync

import (
	"context"
	"testing"

	"github.com/CePeU/foundrysync/internal/foundry"
	"github.com/CePeU/foundrysync/internal/vault"
)

// remoteWithPage returns a snapshot holding folder "Area", journal
// "Area/Notes" and page "Area/Notes.Doc".
func remoteWithPage() *fakeRemote {
	return &fakeRemote{
		folders: []foundry.Folder{{ID: "fa", Name: "Area"}},
		journals: []foundry.JournalEntry{
			{ID: "ja", Name: "Notes", FolderID: "fa", Pages: []foundry.JournalPage{
				{ID: "pa", Name: "Doc", Flags: foundry.PageFlags{Foundrysync: &foundry.Provenance{
					DocumentID:   "u1",
					DocumentPath: "Area/Notes/Doc",
					ContentHash:  "oldhash",
				}}},
			}},
		},
	}
}

func docIn(dir, title, uid, pageID string) *vault.Document {
	rel := title + ".md"
	if dir != "" {
		rel = dir + "/" + rel
	}
	return &vault.Document{
		RelPath: rel,
		Front:   vault.Frontmatter{UID: uid, FoundryID: pageID},
	}
}

func TestUpsert_ByStoredIdentity(t *testing.T) {
	t.Parallel()

	remote := remoteWithPage()
	s := newTestSession(t, remote)

	doc := docIn("Area/Notes", "Doc", "u1", "pa")
	d := s.UpsertDocument(context.Background(), doc, "<p>x</p>", "h1", nil)

	if !d.UpdatePage || d.CreatePage {
		t.Errorf("decision = %+v, want update without create", d)
	}
	if !d.PageFound {
		t.Errorf("page bound by stored identity must be found: %+v", d)
	}
	if remote.createFolderCalls != 0 || remote.createJournalCalls != 0 || remote.createPageCalls != 0 {
		t.Errorf("creation calls issued: %+v", remote)
	}
	if remote.updatePageCalls != 1 {
		t.Errorf("update calls = %d, want 1", remote.updatePageCalls)
	}
}

func TestUpsert_ByPath(t *testing.T) {
	t.Parallel()

	remote := remoteWithPage()
	s := newTestSession(t, remote)

	// No stored identity, but folder, journal and page all resolve by path.
	doc := docIn("Area/Notes", "Doc", "u1", "")
	d := s.UpsertDocument(context.Background(), doc, "<p>x</p>", "h1", nil)

	if !d.PageFound || !d.UpdatePage || d.CreatePage || d.CreateFolder || d.CreateJournal {
		t.Errorf("decision = %+v", d)
	}
	if remote.updatePageCalls != 1 || remote.createPageCalls != 0 {
		t.Errorf("unexpected calls: %+v", remote)
	}
}

func TestUpsert_NewPageInExistingJournal(t *testing.T) {
	t.Parallel()

	remote := remoteWithPage()
	s := newTestSession(t, remote)

	doc := docIn("Area/Notes", "Fresh", "u2", "")
	d := s.UpsertDocument(context.Background(), doc, "<p>x</p>", "h2", nil)

	if !d.CreatePage || d.PageFound || d.CreateFolder || d.CreateJournal {
		t.Errorf("decision = %+v", d)
	}
	if remote.createPageCalls != 1 {
		t.Errorf("create page calls = %d, want 1", remote.createPageCalls)
	}

	// The recovered id must make the page addressable within the session.
	if _, ok := s.index.PagesByPath["Area/Notes.Fresh"]; !ok {
		t.Error("created page not registered in index")
	}
}

func TestUpsert_NewFolderForcesCreationChain(t *testing.T) {
	t.Parallel()

	remote := remoteWithPage()
	s := newTestSession(t, remote)

	doc := docIn("Other/Journal", "Doc", "u3", "")
	d := s.UpsertDocument(context.Background(), doc, "<p>x</p>", "h3", nil)

	if !d.CreateFolder || !d.CreateJournal || !d.CreatePage {
		t.Errorf("decision = %+v", d)
	}
	if remote.createFolderCalls != 1 {
		t.Errorf("folder calls = %d, want 1", remote.createFolderCalls)
	}
	if remote.createJournalCalls != 1 {
		t.Errorf("journal calls = %d, want 1", remote.createJournalCalls)
	}
}

func TestUpsert_AmbiguousCreateResponse(t *testing.T) {
	t.Parallel()

	remote := remoteWithPage()
	// Two sibling pages share the requested name: id recovery is ambiguous.
	remote.pagesResponse = []foundry.JournalPage{
		{ID: "x1", Name: "Twin"},
		{ID: "x2", Name: "Twin"},
	}
	s := newTestSession(t, remote)

	doc := docIn("Area/Notes", "Twin", "u4", "")
	s.UpsertDocument(context.Background(), doc, "<p>x</p>", "h4", nil)

	if _, ok := s.index.PagesByPath["Area/Notes.Twin"]; ok {
		t.Error("page with unrecovered id must stay unresolvable until the next rebuild")
	}
}

func TestUpsert_WriteBackOnCreate(t *testing.T) {
	t.Parallel()

	remote := remoteWithPage()
	cfg := testConfig(t)
	cfg.WriteBack = true
	s, err := NewSession(context.Background(), remote, nullRenderer{}, cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	doc := docIn("Area/Notes", "Fresh", "u5", "")
	doc.AbsPath = cfg.VaultDir + "/Fresh.md"
	s.UpsertDocument(context.Background(), doc, "<p>x</p>", "h5", nil)

	if doc.Front.FoundryID == "" {
		t.Error("created page identity not written back")
	}
	if doc.Front.FoundryPath != "Area/Notes.Fresh" {
		t.Errorf("foundry_path = %q", doc.Front.FoundryPath)
	}
}

func TestDestination(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.RootFolder = "Vault"
	s, err := NewSession(context.Background(), &fakeRemote{}, nullRenderer{}, cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	tests := []struct {
		rel        string
		folderPath string
		journal    string
	}{
		{"Top.md", "Vault", "Notes"},
		{"Area/Doc.md", "Vault", "Area"},
		{"Area/Sub/Doc.md", "Vault/Area", "Sub"},
	}
	for _, tt := range tests {
		doc := &vault.Document{RelPath: tt.rel}
		folderPath, journal := s.destination(doc)
		if folderPath != tt.folderPath || journal != tt.journal {
			t.Errorf("%s: got (%q, %q), want (%q, %q)",
				tt.rel, folderPath, journal, tt.folderPath, tt.journal)
		}
	}
}
