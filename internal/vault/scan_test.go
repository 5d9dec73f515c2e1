package vault

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/CePeU/foundrysync/internal/render"
)

func TestExtractRefs_Classification(t *testing.T) {
	t.Parallel()

	fragment := `<p>` +
		`<a href="Area/Other.md">Other</a> ` +
		`<a href="#Notes">self</a> ` +
		`<a href="Area/Deep.md#Section">deep</a> ` +
		`<a href="https://example.com/page">external</a>` +
		`<img src="img/pic.png" alt="">` +
		`</p>`

	refs, err := ExtractRefs(fragment, "src-uid", "/vault")
	if err != nil {
		t.Fatalf("ExtractRefs: %v", err)
	}

	if len(refs.Links) != 3 {
		t.Fatalf("got %d links, want 3 (external excluded)", len(refs.Links))
	}

	plain := refs.Links[0]
	if plain.TargetPath != "Area/Other.md" || plain.IsAnchor || plain.DisplayText != "Other" {
		t.Errorf("plain link misclassified: %+v", plain)
	}
	if plain.SourceDocumentID != "src-uid" {
		t.Errorf("source identity not recorded: %+v", plain)
	}

	self := refs.Links[1]
	if !self.IsAnchor || self.Anchor != "#Notes" || self.TargetPath != "" {
		t.Errorf("anchor-only link misclassified: %+v", self)
	}

	deep := refs.Links[2]
	if !deep.IsAnchor || deep.Anchor != "#Section" || deep.TargetPath != "Area/Deep.md" {
		t.Errorf("path+anchor link misclassified: %+v", deep)
	}

	if len(refs.Images) != 1 {
		t.Fatalf("got %d images, want 1", len(refs.Images))
	}
	img := refs.Images[0]
	if img.Src != "img/pic.png" {
		t.Errorf("image src = %q", img.Src)
	}
	if img.AbsPath != filepath.Join("/vault", "img", "pic.png") {
		t.Errorf("image abs path = %q", img.AbsPath)
	}
}

func TestExtractRefs_RenderedImagePathDecoded(t *testing.T) {
	t.Parallel()

	// The renderer percent-encodes destinations, so a filename with a space
	// arrives as %20. The recorded source keeps the rendered form while the
	// filesystem path must be decoded.
	r := render.NewGoldmarkRenderer()
	fragment, err := r.Render(context.Background(), []byte("![x](my pic.png)"), "Area")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	refs, err := ExtractRefs(fragment, "u", "/vault")
	if err != nil {
		t.Fatalf("ExtractRefs: %v", err)
	}
	if len(refs.Images) != 1 {
		t.Fatalf("got %d images, want 1: %q", len(refs.Images), fragment)
	}

	img := refs.Images[0]
	if img.Src != "Area/my%20pic.png" {
		t.Errorf("src = %q, want the rendered form", img.Src)
	}
	if img.AbsPath != filepath.Join("/vault", "Area", "my pic.png") {
		t.Errorf("abs path = %q, want the decoded filesystem path", img.AbsPath)
	}
}

func TestExtractRefs_ExternalImagesIgnored(t *testing.T) {
	t.Parallel()

	refs, err := ExtractRefs(`<img src="https://cdn.example.com/x.png">`, "u", "/vault")
	if err != nil {
		t.Fatalf("ExtractRefs: %v", err)
	}
	if len(refs.Images) != 0 {
		t.Errorf("external image should be ignored: %+v", refs.Images)
	}
}
