package sync

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/CePeU/foundrysync/internal/foundry"
	"github.com/CePeU/foundrysync/internal/hierarchy"
	"github.com/CePeU/foundrysync/internal/identity"
	"github.com/CePeU/foundrysync/internal/links"
	"github.com/CePeU/foundrysync/internal/render"
	"github.com/CePeU/foundrysync/internal/vault"
)

// remoteAPI is the slice of the client the session depends on.
type remoteAPI interface {
	ListFolders(ctx context.Context) ([]foundry.Folder, error)
	ListJournals(ctx context.Context) ([]foundry.JournalEntry, error)
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	CreateJournal(ctx context.Context, name, folderID string) (string, error)
	CreatePage(ctx context.Context, journalID string, page foundry.JournalPage) ([]foundry.JournalPage, error)
	UpdatePage(ctx context.Context, journalID string, page foundry.JournalPage) error
	ListFiles(ctx context.Context, dir string) ([]foundry.FileEntry, error)
	UploadFile(ctx context.Context, dir, name string, data []byte) error
}

// Session is one run of the reconciliation pipeline. It owns every
// session-scoped registry: the hierarchy index, the remote asset catalog, the
// pending image queue and the identity generator. Sessions are independent of
// each other; concurrent use of one session is not supported.
type Session struct {
	client   remoteAPI
	renderer render.Renderer
	cfg      Config
	logger   *slog.Logger

	index     *hierarchy.Index
	catalog   map[string]bool // percent-decoded remote asset paths
	pending   []*ImageAsset
	idgen     *identity.Generator
	uidByPath map[string]string // document path -> document identity
}

// SessionOption configures the session.
type SessionOption func(*Session)

// WithSessionLogger sets a custom logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession validates the configuration, fetches the full remote snapshot and
// builds the session registries. Configuration errors are fatal; transport
// errors degrade to an empty snapshot and are logged.
func NewSession(ctx context.Context, client remoteAPI, renderer render.Renderer, cfg Config, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}

	s := &Session{
		client:    client,
		renderer:  renderer,
		cfg:       cfg.withDefaults(),
		logger:    slog.Default(),
		catalog:   make(map[string]bool),
		idgen:     identity.NewGenerator(),
		uidByPath: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	folders, err := client.ListFolders(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "could not fetch folders, starting with empty index", "error", err)
		folders = nil
	}
	journals, err := client.ListJournals(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "could not fetch journals, starting with empty index", "error", err)
		journals = nil
	}
	s.index = hierarchy.BuildIndex(folders, journals)

	files, err := client.ListFiles(ctx, s.cfg.UploadDir)
	if err != nil {
		s.logger.WarnContext(ctx, "could not fetch asset catalog", "error", err)
		files = nil
	}
	for _, f := range files {
		s.catalog[decodePath(f.Path)] = true
	}

	// Identities already assigned remotely must never be handed out again.
	for _, page := range s.index.PagesByID {
		if page.Provenance != nil {
			s.idgen.Reserve(page.Provenance.DocumentID)
		}
	}

	s.logger.InfoContext(ctx, "session started",
		"folders", len(s.index.FoldersByID),
		"journals", len(s.index.JournalsByID),
		"pages", len(s.index.PagesByID),
		"assets", len(s.catalog))

	return s, nil
}

// Run synchronizes the given documents, uploads their images and finishes
// with a link-resolution pass. Per-document failures are logged and do not
// interrupt the remaining documents.
func (s *Session) Run(ctx context.Context, docs []*vault.Document) error {
	if s.cfg.Snapshot {
		if err := vault.Snapshot(s.cfg.VaultDir, "foundrysync: pre-sync snapshot"); err != nil {
			s.logger.WarnContext(ctx, "vault snapshot failed", "error", err)
		}
	}

	// Assign identities up front so link targets can be resolved to documents
	// synchronized later in the same batch.
	for _, doc := range docs {
		s.idgen.Reserve(doc.Front.UID)
	}
	for _, doc := range docs {
		if doc.Front.UID == "" {
			doc.Front.UID = s.idgen.Next()
		}
		s.uidByPath[doc.Path()] = doc.Front.UID
	}

	synced := 0
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if s.syncDocument(ctx, doc) {
			synced++
		}
	}

	s.ProcessImages(ctx)

	if err := s.ResolveLinks(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "sync finished", "documents", len(docs), "synced", synced)
	return nil
}

// syncDocument renders, scans and upserts one document. Returns false when
// the document was skipped.
func (s *Session) syncDocument(ctx context.Context, doc *vault.Document) bool {
	hash := HashBytes(doc.Body)
	if !s.cfg.Force && s.remoteHashMatches(doc, hash) {
		s.logger.DebugContext(ctx, "document unchanged, skipping", "path", doc.RelPath)
		return false
	}

	fragment, err := s.renderer.Render(ctx, doc.Body, doc.Dir())
	if err != nil {
		s.logger.WarnContext(ctx, "render failed, skipping document", "path", doc.RelPath, "error", err)
		return false
	}

	refs, err := vault.ExtractRefs(fragment, doc.Front.UID, s.cfg.VaultDir)
	if err != nil {
		s.logger.WarnContext(ctx, "reference extraction failed", "path", doc.RelPath, "error", err)
		refs = &vault.Refs{}
	}

	// Fill in target identities for links pointing at documents of this batch.
	for i := range refs.Links {
		link := &refs.Links[i]
		if link.TargetPath != "" {
			link.TargetDocumentID = s.uidByPath[links.NormalizePath(link.TargetPath)]
		}
	}

	decision := s.UpsertDocument(ctx, doc, fragment, hash, refs.Links)
	s.logger.DebugContext(ctx, "document upserted",
		"path", doc.RelPath,
		"page_found", decision.PageFound,
		"create_page", decision.CreatePage,
		"update_page", decision.UpdatePage)

	s.QueueImages(ctx, refs.Images)
	return true
}

// remoteHashMatches reports whether the page bound to the document by stored
// identity already carries the same content hash.
func (s *Session) remoteHashMatches(doc *vault.Document, hash string) bool {
	if doc.Front.FoundryID == "" {
		return false
	}
	page, ok := s.index.PagesByID[doc.Front.FoundryID]
	if !ok || page.Provenance == nil {
		return false
	}
	return page.Provenance.ContentHash == hash
}

// ResolveLinks runs the two-phase link resolution over the full remote corpus
// and persists every page whose content or provenance changed.
func (s *Session) ResolveLinks(ctx context.Context) error {
	journals, err := s.client.ListJournals(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "could not fetch journals for link resolution", "error", err)
		return nil
	}

	resolver := links.NewResolver(s.logger)
	pending := resolver.BuildMaps(journals)

	resolved := 0
	for _, p := range pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !resolver.ResolvePage(p) {
			continue
		}
		if err := s.client.UpdatePage(ctx, p.JournalID, *p.Page); err != nil {
			s.logger.WarnContext(ctx, "could not persist resolved page",
				"page", p.Page.ID, "error", err)
			continue
		}
		resolved++
	}

	s.logger.InfoContext(ctx, "link resolution finished",
		"pages_queued", len(pending),
		"pages_updated", resolved)
	return nil
}

// decodePath percent-decodes a remote asset path; the catalog may return
// paths partially percent-encoded.
func decodePath(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		return decoded
	}
	return p
}
