package vault

import (
	"bytes"
	"errors"
	"testing"

	"github.com/CePeU/foundrysync/internal/apperrors"
)

func TestParseFrontmatter(t *testing.T) {
	t.Parallel()

	doc := []byte("---\ntitle: Hello\nuid: u1\ntags:\n  - a\n---\n# Body\n")

	front, body, err := ParseFrontmatter(doc)
	if err != nil {
		t.Fatalf("ParseFrontmatter: %v", err)
	}
	if front.Title != "Hello" || front.UID != "u1" {
		t.Errorf("unexpected frontmatter: %+v", front)
	}
	if _, ok := front.Rest["tags"]; !ok {
		t.Error("unknown keys must be preserved")
	}
	if string(body) != "# Body\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseFrontmatter_Missing(t *testing.T) {
	t.Parallel()

	_, _, err := ParseFrontmatter([]byte("# Just a body\n"))
	if !errors.Is(err, apperrors.ErrNoFrontmatter) {
		t.Errorf("err = %v, want ErrNoFrontmatter", err)
	}
}

func TestParseFrontmatter_NotClosed(t *testing.T) {
	t.Parallel()

	_, _, err := ParseFrontmatter([]byte("---\ntitle: x\n# Body\n"))
	if !errors.Is(err, apperrors.ErrFrontmatterNotClosed) {
		t.Errorf("err = %v, want ErrFrontmatterNotClosed", err)
	}
}

func TestParseFrontmatter_DashesInValue(t *testing.T) {
	t.Parallel()

	// A value line ending in "---" must not be mistaken for the closing
	// fence; only a fence at the start of a line terminates the block.
	doc := []byte("---\ntitle: x\nnote: foo ---\n---\nbody\n")

	front, body, err := ParseFrontmatter(doc)
	if err != nil {
		t.Fatalf("ParseFrontmatter: %v", err)
	}
	if got, ok := front.Rest["note"]; !ok || got != "foo ---" {
		t.Errorf("note = %v, want the full value", got)
	}
	if string(body) != "body\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseFrontmatter_EmptyBlock(t *testing.T) {
	t.Parallel()

	front, body, err := ParseFrontmatter([]byte("---\n---\nbody\n"))
	if err != nil {
		t.Fatalf("ParseFrontmatter: %v", err)
	}
	if front.Title != "" {
		t.Errorf("frontmatter = %+v, want empty", front)
	}
	if string(body) != "body\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSerializeFrontmatter_RoundTrip(t *testing.T) {
	t.Parallel()

	front := Frontmatter{
		Title:     "Hello",
		UID:       "u1",
		FoundryID: "p9",
		Rest:      map[string]any{"tags": []any{"a"}},
	}
	body := []byte("# Body\n")

	data, err := SerializeFrontmatter(front, body)
	if err != nil {
		t.Fatalf("SerializeFrontmatter: %v", err)
	}

	got, gotBody, err := ParseFrontmatter(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got.Title != front.Title || got.UID != front.UID || got.FoundryID != front.FoundryID {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if !bytes.Equal(gotBody, body) {
		t.Errorf("body = %q", gotBody)
	}
}
