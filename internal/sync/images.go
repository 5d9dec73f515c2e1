package sync

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/CePeU/foundrysync/internal/vault"
)

// ImageAsset is one embedded binary asset pending upload. The remote filename
// is derived from the content hash, so two documents embedding the same bytes
// under the same name map to the same remote path.
type ImageAsset struct {
	SourcePath string // absolute local path
	RemoteName string // basename_hash.extension
	RemotePath string // uploadDir/remoteName
	Data       []byte
}

// HashBytes computes the 64-bit content hash of a byte sequence, rendered as
// a fixed-width lowercase hex string.
func HashBytes(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// QueueImages reads the referenced assets and appends them to the session's
// pending queue. Unreadable assets are logged and skipped.
func (s *Session) QueueImages(ctx context.Context, images []vault.ImageRef) {
	for _, img := range images {
		data, err := os.ReadFile(img.AbsPath)
		if err != nil {
			s.logger.WarnContext(ctx, "could not read image", "path", img.Src, "error", err)
			continue
		}

		// Src carries the rendered (percent-encoded) form; the remote name is
		// derived from the decoded filename.
		name := remoteImageName(decodePath(img.Src), HashBytes(data))
		s.pending = append(s.pending, &ImageAsset{
			SourcePath: img.AbsPath,
			RemoteName: name,
			RemotePath: s.cfg.UploadDir + "/" + name,
			Data:       data,
		})
	}
}

// ProcessImages drains the pending queue: the first pending asset is uploaded
// unless the catalog already holds its derived path, then every queued entry
// sharing the same derived path is consumed. Multiple documents may embed the
// same physical asset, so this is a dedup-by-key drain, not a single-item
// dequeue.
func (s *Session) ProcessImages(ctx context.Context) {
	uploaded := 0
	skipped := 0

	for len(s.pending) > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}

		asset := s.pending[0]

		if s.catalog[decodePath(asset.RemotePath)] {
			s.logger.DebugContext(ctx, "asset already uploaded, skipping",
				"path", asset.RemotePath)
			skipped++
		} else if err := s.client.UploadFile(ctx, s.cfg.UploadDir, asset.RemoteName, asset.Data); err != nil {
			s.logger.WarnContext(ctx, "upload failed", "path", asset.RemotePath, "error", err)
		} else {
			s.catalog[decodePath(asset.RemotePath)] = true
			uploaded++
		}

		s.dropPending(asset.RemotePath)
	}

	s.logger.InfoContext(ctx, "image processing finished",
		"uploaded", uploaded,
		"skipped", skipped)
}

// dropPending removes every queued asset sharing the given derived path.
func (s *Session) dropPending(remotePath string) {
	kept := s.pending[:0]
	for _, a := range s.pending {
		if a.RemotePath != remotePath {
			kept = append(kept, a)
		}
	}
	s.pending = kept
}

// remoteImageName derives the content-addressed remote filename
// {basename}_{hash}.{extension} from a source path and content hash.
func remoteImageName(src, hash string) string {
	base := path.Base(src)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext != "" {
		return stem + "_" + hash + ext
	}
	return stem + "_" + hash
}
