package vault

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/CePeU/foundrysync/internal/apperrors"
)

var frontmatterFence = []byte("---\n")

// Frontmatter holds the structured fields at the head of a document. The
// foundry_* keys are the synchronized provenance written back after a page is
// created remotely; unknown keys are preserved across a rewrite.
type Frontmatter struct {
	Title          string         `yaml:"title,omitempty"`
	UID            string         `yaml:"uid,omitempty"`
	FoundryID      string         `yaml:"foundry_id,omitempty"`
	FoundryJournal string         `yaml:"foundry_journal,omitempty"`
	FoundryFolder  string         `yaml:"foundry_folder,omitempty"`
	FoundryPath    string         `yaml:"foundry_path,omitempty"`
	FoundryTitle   string         `yaml:"foundry_title,omitempty"`
	Rest           map[string]any `yaml:",inline"`
}

// ParseFrontmatter splits a document into its frontmatter block and body.
// Returns apperrors.ErrNoFrontmatter when the document does not start with a
// fence and apperrors.ErrFrontmatterNotClosed when the closing fence is
// missing.
func ParseFrontmatter(data []byte) (Frontmatter, []byte, error) {
	var front Frontmatter

	if !bytes.HasPrefix(data, frontmatterFence) {
		return front, nil, apperrors.ErrNoFrontmatter
	}

	rest := data[len(frontmatterFence):]
	end := closingFence(rest)
	if end < 0 {
		return front, nil, apperrors.ErrFrontmatterNotClosed
	}

	block := rest[:end]
	body := rest[min(end+len(frontmatterFence), len(rest)):]

	if err := yaml.Unmarshal(block, &front); err != nil {
		return Frontmatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return front, body, nil
}

// closingFence returns the offset of the closing fence in rest, or -1 if
// there is none. The fence must sit at the start of a line, so a value line
// merely ending in "---" does not terminate the block.
func closingFence(rest []byte) int {
	if bytes.HasPrefix(rest, frontmatterFence) {
		return 0
	}
	if i := bytes.Index(rest, []byte("\n---\n")); i >= 0 {
		return i + 1
	}
	// Allow a closing fence at EOF without trailing newline.
	if bytes.HasSuffix(rest, []byte("\n---")) {
		return len(rest) - len("---")
	}
	return -1
}

// SerializeFrontmatter reassembles a document from frontmatter and body.
func SerializeFrontmatter(front Frontmatter, body []byte) ([]byte, error) {
	block, err := yaml.Marshal(front)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(frontmatterFence)
	buf.Write(block)
	buf.Write(frontmatterFence)
	buf.Write(body)
	return buf.Bytes(), nil
}
