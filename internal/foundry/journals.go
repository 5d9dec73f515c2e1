package foundry

import (
	"context"
	"fmt"
	"time"
)

// ListJournals retrieves all journal entries including their pages and flags.
// This is the full remote snapshot used to build the session index.
func (c *Client) ListJournals(ctx context.Context) ([]JournalEntry, error) {
	c.logger.DebugContext(ctx, "Fetching journals")

	before := time.Now()

	var journals []JournalEntry
	if err := c.do(ctx, "GET", "/api/journals", nil, &journals); err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	c.logger.DebugContext(ctx, "Journals fetched",
		"count", len(journals),
		"time_spent_ms", time.Since(before).Milliseconds())
	return journals, nil
}

// CreateJournal creates an empty journal entry in the given folder and returns
// its new id. An empty folderID places the journal at the top of the tree.
func (c *Client) CreateJournal(ctx context.Context, name, folderID string) (string, error) {
	c.logger.DebugContext(ctx, "Creating journal", "name", name, "folder", folderID)

	body := JournalEntry{Name: name, FolderID: folderID}

	var created JournalEntry
	if err := c.do(ctx, "POST", "/api/journals", body, &created); err != nil {
		return "", fmt.Errorf("create journal %s: %w", name, err)
	}
	return created.ID, nil
}

// CreatePage appends a page to a journal entry. The page id is assigned by the
// remote store; the response is the journal's resulting page list, from which
// the caller recovers the new id.
func (c *Client) CreatePage(ctx context.Context, journalID string, page JournalPage) ([]JournalPage, error) {
	c.logger.DebugContext(ctx, "Creating page", "journal", journalID, "name", page.Name)

	var result []JournalPage
	path := "/api/journals/" + journalID + "/pages"
	if err := c.do(ctx, "POST", path, page, &result); err != nil {
		return nil, fmt.Errorf("create page %s: %w", page.Name, err)
	}
	return result, nil
}

// UpdatePage replaces the content and flags of an existing page.
func (c *Client) UpdatePage(ctx context.Context, journalID string, page JournalPage) error {
	c.logger.DebugContext(ctx, "Updating page", "journal", journalID, "page", page.ID)

	path := "/api/journals/" + journalID + "/pages/" + page.ID
	if err := c.do(ctx, "PUT", path, page, nil); err != nil {
		return fmt.Errorf("update page %s: %w", page.ID, err)
	}
	return nil
}
