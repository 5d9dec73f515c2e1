package foundry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/CePeU/foundrysync/internal/apperrors"
)

// ListFiles retrieves the remote asset catalog for the given upload directory.
// Paths in the listing may come back partially percent-encoded.
func (c *Client) ListFiles(ctx context.Context, dir string) ([]FileEntry, error) {
	c.logger.DebugContext(ctx, "Fetching file catalog", "dir", dir)

	before := time.Now()

	var files []FileEntry
	path := "/api/files?dir=" + url.QueryEscape(dir)
	if err := c.do(ctx, "GET", path, nil, &files); err != nil {
		return nil, fmt.Errorf("list files %s: %w", dir, err)
	}
	c.logger.DebugContext(ctx, "File catalog fetched",
		"count", len(files),
		"time_spent_ms", time.Since(before).Milliseconds())
	return files, nil
}

// UploadFile uploads a binary asset into the given remote directory.
// Uploads bypass the JSON round trip and use a multipart form instead.
func (c *Client) UploadFile(ctx context.Context, dir, name string, data []byte) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("dir", dir); err != nil {
		return fmt.Errorf("write dir field: %w", err)
	}
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/files", &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.DebugContext(ctx, "Uploading file", "dir", dir, "name", name, "size", len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WarnContext(ctx, "failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode >= httpStatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload %s: %w", name, apperrors.NewHTTPError(resp.StatusCode, string(respBody)))
	}

	return nil
}
