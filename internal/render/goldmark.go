package render

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// basePathKey carries the per-document resolution base through the parser
// context into the link transformer.
var basePathKey = parser.NewContextKey()

// GoldmarkRenderer renders markdown to HTML fragments with GFM extensions and
// vault-relative link resolution.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates the default renderer.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&relativeLinkResolver{}, 100),
			),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &GoldmarkRenderer{md: md}
}

// Render implements Renderer.
func (r *GoldmarkRenderer) Render(_ context.Context, source []byte, basePath string) (string, error) {
	var buf bytes.Buffer

	pc := parser.NewContext()
	pc.Set(basePathKey, basePath)

	if err := r.md.Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// relativeLinkResolver rewrites relative link and image destinations to
// vault-absolute paths so that downstream reference extraction sees one
// canonical form per target.
type relativeLinkResolver struct{}

// Transform implements parser.ASTTransformer.
func (t *relativeLinkResolver) Transform(node *ast.Document, _ text.Reader, pc parser.Context) {
	base, _ := pc.Get(basePathKey).(string)

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			v.Destination = resolveDestination(v.Destination, base)
		case *ast.Image:
			v.Destination = resolveDestination(v.Destination, base)
		}
		return ast.WalkContinue, nil
	})
}

// resolveDestination joins a relative destination with the base directory.
// External URLs, absolute paths and pure anchor fragments pass through as-is.
func resolveDestination(dest []byte, base string) []byte {
	d := string(dest)
	if d == "" || base == "" {
		return dest
	}
	if strings.HasPrefix(d, "#") || strings.HasPrefix(d, "/") || strings.Contains(d, "://") {
		return dest
	}

	fragment := ""
	if idx := strings.Index(d, "#"); idx >= 0 {
		fragment = d[idx:]
		d = d[:idx]
	}
	if d == "" {
		return dest
	}
	return []byte(path.Join(base, d) + fragment)
}
