// Package render defines the markup rendering contract consumed by the sync
// pipeline and provides a goldmark-based default implementation.
package render

import "context"

// Renderer turns source markup into an HTML fragment. Implementations must
// resolve same-vault relative link targets against basePath (the directory of
// the source document, vault-relative) before handing the fragment over.
type Renderer interface {
	Render(ctx context.Context, source []byte, basePath string) (string, error)
}
