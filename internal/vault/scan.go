package vault

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/CePeU/foundrysync/internal/foundry"
)

// ImageRef is a local binary asset referenced by a rendered document.
type ImageRef struct {
	Src     string // vault-relative source path, slash-separated
	AbsPath string // absolute filesystem path
}

// Refs are the outbound references extracted from one rendered fragment.
type Refs struct {
	Links  []foundry.LinkReference
	Images []ImageRef
}

// ExtractRefs parses a rendered HTML fragment and collects cross-document
// links and embedded local images. External URLs are ignored. The document's
// identity is recorded as the source of every link.
func ExtractRefs(fragment, sourceDocumentID, vaultRoot string) (*Refs, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	refs := &Refs{}
	collectRefs(root, sourceDocumentID, vaultRoot, refs)
	return refs, nil
}

func collectRefs(n *html.Node, sourceID, vaultRoot string, refs *Refs) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "a":
			if link, ok := linkFromAnchor(n, sourceID); ok {
				refs.Links = append(refs.Links, link)
			}
		case "img":
			if src := attrValue(n, "src"); src != "" && !isExternal(src) {
				// Rendered fragments carry percent-encoded destinations; the
				// filesystem path needs the decoded form.
				refs.Images = append(refs.Images, ImageRef{
					Src:     src,
					AbsPath: filepath.Join(vaultRoot, filepath.FromSlash(decodeRef(src))),
				})
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectRefs(c, sourceID, vaultRoot, refs)
	}
}

// linkFromAnchor classifies an anchor element into one of the three reference
// shapes: anchor-only self reference, plain path reference, or path-plus-anchor
// reference. External URLs yield no reference.
func linkFromAnchor(n *html.Node, sourceID string) (foundry.LinkReference, bool) {
	href := attrValue(n, "href")
	if href == "" || isExternal(href) {
		return foundry.LinkReference{}, false
	}

	link := foundry.LinkReference{
		SourceDocumentID: sourceID,
		DisplayText:      textContent(n),
	}

	switch {
	case strings.HasPrefix(href, "#"):
		link.IsAnchor = true
		link.Anchor = href
	case strings.Contains(href, "#"):
		idx := strings.Index(href, "#")
		link.TargetPath = href[:idx]
		link.IsAnchor = true
		link.Anchor = href[idx:]
	default:
		link.TargetPath = href
	}

	return link, true
}

// decodeRef percent-decodes a rendered destination. Undecodable input is
// returned as-is.
func decodeRef(ref string) string {
	if decoded, err := url.PathUnescape(ref); err == nil {
		return decoded
	}
	return ref
}

func isExternal(ref string) bool {
	return strings.Contains(ref, "://") || strings.HasPrefix(ref, "mailto:")
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
