package links

import (
	"strings"
	"testing"

	"github.com/CePeU/foundrysync/internal/foundry"
)

// corpus builds a two-journal remote snapshot: a source page holding the given
// links and two candidate target pages, one registered by identity and one by
// path.
func corpus(content string, links []foundry.LinkReference) []foundry.JournalEntry {
	prov := &foundry.Provenance{
		DocumentID:   "src-id",
		DocumentPath: "Area/Source",
		Links:        links,
	}
	prov.UnresolvedLinks = prov.CountUnresolved()

	return []foundry.JournalEntry{
		{ID: "j1", Pages: []foundry.JournalPage{
			{ID: "p1", Name: "Source", Text: foundry.PageText{Content: content},
				Flags: foundry.PageFlags{Foundrysync: prov}},
		}},
		{ID: "j2", Pages: []foundry.JournalPage{
			{ID: "p2", Name: "ByIdentity", Flags: foundry.PageFlags{Foundrysync: &foundry.Provenance{
				DocumentID:   "target-id",
				DocumentPath: "Area/IdentityDoc",
			}}},
			{ID: "p3", Name: "ByPath", Flags: foundry.PageFlags{Foundrysync: &foundry.Provenance{
				DocumentID:   "other-id",
				DocumentPath: "Area/PathDoc",
			}}},
		}},
	}
}

func TestResolvePage_IdentityWinsOverPath(t *testing.T) {
	t.Parallel()

	// Both lookups would succeed but point at different pages; identity-based
	// resolution must win.
	link := foundry.LinkReference{
		SourceDocumentID: "src-id",
		TargetPath:       "Area/PathDoc.md",
		TargetDocumentID: "target-id",
		DisplayText:      "Target",
	}
	content := `<p><a href="Area/PathDoc.md">Target</a></p>`
	journals := corpus(content, []foundry.LinkReference{link})

	r := NewResolver(nil)
	pending := r.BuildMaps(journals)
	if len(pending) != 1 {
		t.Fatalf("got %d pending pages, want 1", len(pending))
	}

	if !r.ResolvePage(pending[0]) {
		t.Fatal("page should have changed")
	}

	got := pending[0].Page.Text.Content
	if !strings.Contains(got, "@UUID[JournalEntry.j2.JournalEntryPage.p2]{Target}") {
		t.Errorf("identity target not selected: %q", got)
	}
}

func TestResolvePage_PathFallback(t *testing.T) {
	t.Parallel()

	link := foundry.LinkReference{
		SourceDocumentID: "src-id",
		TargetPath:       "Area/PathDoc.md",
		DisplayText:      "Target",
	}
	content := `<p><a href="Area/PathDoc.md">Target</a></p>`
	journals := corpus(content, []foundry.LinkReference{link})

	r := NewResolver(nil)
	pending := r.BuildMaps(journals)

	if !r.ResolvePage(pending[0]) {
		t.Fatal("page should have changed")
	}
	got := pending[0].Page.Text.Content
	if !strings.Contains(got, "@UUID[JournalEntry.j2.JournalEntryPage.p3]{Target}") {
		t.Errorf("path target not selected: %q", got)
	}
}

func TestResolvePage_SelfAnchorLink(t *testing.T) {
	t.Parallel()

	link := foundry.LinkReference{
		SourceDocumentID: "src-id",
		IsAnchor:         true,
		Anchor:           "#Notes",
		DisplayText:      "see notes",
	}
	content := `<p><a href="#Notes">see notes</a></p>`
	journals := corpus(content, []foundry.LinkReference{link})

	r := NewResolver(nil)
	pending := r.BuildMaps(journals)

	if !r.ResolvePage(pending[0]) {
		t.Fatal("page should have changed")
	}
	got := pending[0].Page.Text.Content
	want := "@UUID[JournalEntry.j1.JournalEntryPage.p1#notes]{see notes}"
	if !strings.Contains(got, want) {
		t.Errorf("self link not resolved to own address: %q", got)
	}
}

func TestResolvePage_PathPlusAnchor(t *testing.T) {
	t.Parallel()

	link := foundry.LinkReference{
		SourceDocumentID: "src-id",
		TargetPath:       "Area/IdentityDoc.md",
		IsAnchor:         true,
		Anchor:           "#Section: One!",
		DisplayText:      "section",
	}
	content := `<p><a href="Area/IdentityDoc.md#Section: One!">section</a></p>`
	journals := corpus(content, []foundry.LinkReference{link})

	r := NewResolver(nil)
	pending := r.BuildMaps(journals)

	if !r.ResolvePage(pending[0]) {
		t.Fatal("page should have changed")
	}
	got := pending[0].Page.Text.Content
	want := "@UUID[JournalEntry.j2.JournalEntryPage.p2#section-one]{section}"
	if !strings.Contains(got, want) {
		t.Errorf("path+anchor link not rewritten: %q", got)
	}
}

func TestResolvePage_EncodedAnchor(t *testing.T) {
	t.Parallel()

	// Rendered markup percent-encodes the fragment; the slug is derived from
	// the decoded form while the needle keeps the verbatim form.
	link := foundry.LinkReference{
		SourceDocumentID: "src-id",
		TargetPath:       "Area/IdentityDoc.md",
		IsAnchor:         true,
		Anchor:           "#Section%20One",
		DisplayText:      "section",
	}
	content := `<p><a href="Area/IdentityDoc.md#Section%20One">section</a></p>`
	journals := corpus(content, []foundry.LinkReference{link})

	r := NewResolver(nil)
	pending := r.BuildMaps(journals)

	if !r.ResolvePage(pending[0]) {
		t.Fatal("page should have changed")
	}
	got := pending[0].Page.Text.Content
	want := "@UUID[JournalEntry.j2.JournalEntryPage.p2#section-one]{section}"
	if !strings.Contains(got, want) {
		t.Errorf("encoded anchor not slugified: %q", got)
	}
}

func TestResolvePage_MarkupMismatchLeavesUnresolved(t *testing.T) {
	t.Parallel()

	link := foundry.LinkReference{
		SourceDocumentID: "src-id",
		TargetPath:       "Area/PathDoc.md",
		DisplayText:      "Target",
	}
	// Content does not contain the expected anchor tag.
	content := `<p>no link here</p>`
	journals := corpus(content, []foundry.LinkReference{link})

	r := NewResolver(nil)
	pending := r.BuildMaps(journals)

	changed := r.ResolvePage(pending[0])
	prov := pending[0].Page.Flags.Foundrysync
	if prov.Links[0].Resolved {
		t.Error("link should stay unresolved on markup mismatch")
	}
	if prov.UnresolvedLinks != 1 {
		t.Errorf("unresolved count = %d, want 1", prov.UnresolvedLinks)
	}
	if changed {
		t.Error("nothing changed, page must not be persisted")
	}
}

func TestResolvePage_UnresolvableTargetSkipped(t *testing.T) {
	t.Parallel()

	link := foundry.LinkReference{
		SourceDocumentID: "src-id",
		TargetPath:       "Nowhere/Missing.md",
		DisplayText:      "gone",
	}
	content := `<p><a href="Nowhere/Missing.md">gone</a></p>`
	journals := corpus(content, []foundry.LinkReference{link})

	r := NewResolver(nil)
	pending := r.BuildMaps(journals)

	if r.ResolvePage(pending[0]) {
		t.Error("unresolvable link must not change the page")
	}
	if pending[0].Page.Text.Content != content {
		t.Error("content must be untouched")
	}
}

func TestResolvePage_ResolvedLinksSkipped(t *testing.T) {
	t.Parallel()

	resolved := foundry.LinkReference{
		SourceDocumentID: "src-id",
		TargetPath:       "Area/PathDoc.md",
		DisplayText:      "Target",
		Resolved:         true,
	}
	content := `<p><a href="Area/PathDoc.md">Target</a></p>`
	journals := corpus(content, []foundry.LinkReference{resolved})

	r := NewResolver(nil)
	pending := r.BuildMaps(journals)
	if len(pending) != 0 {
		// A page with only resolved links carries UnresolvedLinks == 0 and is
		// not even queued.
		t.Fatalf("got %d pending pages, want 0", len(pending))
	}
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Area/Doc.md", "Area/Doc"},
		{"Area/My%20Doc.md", "Area/My Doc"},
		{"Area/Doc", "Area/Doc"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
