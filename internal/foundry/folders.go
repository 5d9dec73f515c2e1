package foundry

import (
	"context"
	"fmt"
	"time"
)

// ListFolders retrieves the full flat list of folders from the remote store.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	c.logger.DebugContext(ctx, "Fetching folders")

	before := time.Now()

	var folders []Folder
	if err := c.do(ctx, "GET", "/api/folders", nil, &folders); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	c.logger.DebugContext(ctx, "Folders fetched",
		"count", len(folders),
		"time_spent_ms", time.Since(before).Milliseconds())
	return folders, nil
}

// CreateFolder creates a folder under the given parent and returns its new id.
// An empty parentID places the folder at the top of the tree.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	c.logger.DebugContext(ctx, "Creating folder", "name", name, "parent", parentID)

	body := Folder{Name: name, ParentID: parentID}

	var created Folder
	if err := c.do(ctx, "POST", "/api/folders", body, &created); err != nil {
		return "", fmt.Errorf("create folder %s: %w", name, err)
	}
	return created.ID, nil
}
