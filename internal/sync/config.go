// Package sync implements the reconciliation pipeline between a local
// markdown vault and the remote journal store.
package sync

import (
	"github.com/CePeU/foundrysync/internal/apperrors"
)

const (
	// defaultJournalName is where documents at the vault root end up.
	defaultJournalName = "Notes"
	// defaultUploadDir is the remote directory for embedded binary assets.
	defaultUploadDir = "uploads/foundrysync"
)

// Config holds one session's settings. Connection parameters are required and
// validated once at session start; everything else has a default.
type Config struct {
	// BaseURL is the remote store API base URL (FOUNDRY_URL).
	BaseURL string
	// APIKey authenticates against the remote store (FOUNDRY_API_KEY).
	APIKey string
	// VaultDir is the local vault root.
	VaultDir string
	// RootFolder is the remote folder path prefix all synchronized content
	// lives under. Empty means the top of the remote tree.
	RootFolder string
	// JournalName is the journal for documents at the vault root.
	JournalName string
	// UploadDir is the remote directory for image uploads.
	UploadDir string
	// WriteBack enables writing assigned identities back into document
	// frontmatter after page creation.
	WriteBack bool
	// Snapshot commits the vault worktree before frontmatter back-writes.
	Snapshot bool
	// Force uploads documents even when their content hash matches the
	// remote page's recorded hash.
	Force bool
}

// Validate checks the required connection parameters. A failure here is fatal
// to the session.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return apperrors.ErrBaseURLRequired
	}
	if c.APIKey == "" {
		return apperrors.ErrAPIKeyRequired
	}
	if c.VaultDir == "" {
		return apperrors.ErrVaultDirRequired
	}
	return nil
}

// withDefaults fills unset optional fields.
func (c Config) withDefaults() Config {
	if c.JournalName == "" {
		c.JournalName = defaultJournalName
	}
	if c.UploadDir == "" {
		c.UploadDir = defaultUploadDir
	}
	return c
}
