package render

import (
	"context"
	"strings"
	"testing"
)

func TestRender_RelativeLinksResolved(t *testing.T) {
	t.Parallel()

	r := NewGoldmarkRenderer()

	tests := []struct {
		name   string
		source string
		base   string
		want   string
	}{
		{
			name:   "relative link",
			source: "[x](Other.md)",
			base:   "Area/Sub",
			want:   `<a href="Area/Sub/Other.md">x</a>`,
		},
		{
			name:   "parent traversal",
			source: "[x](../Top.md)",
			base:   "Area/Sub",
			want:   `<a href="Area/Top.md">x</a>`,
		},
		{
			name:   "anchor preserved",
			source: "[x](Other.md#Section)",
			base:   "Area",
			want:   `<a href="Area/Other.md#Section">x</a>`,
		},
		{
			name:   "pure anchor untouched",
			source: "[x](#Section)",
			base:   "Area",
			want:   `<a href="#Section">x</a>`,
		},
		{
			name:   "external untouched",
			source: "[x](https://example.com/a)",
			base:   "Area",
			want:   `<a href="https://example.com/a">x</a>`,
		},
		{
			name:   "image resolved",
			source: "![alt](pic.png)",
			base:   "Area",
			want:   `<img src="Area/pic.png" alt="alt">`,
		},
		{
			name:   "vault root",
			source: "[x](Other.md)",
			base:   "",
			want:   `<a href="Other.md">x</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Render(context.Background(), []byte(tt.source), tt.base)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q does not contain %q", got, tt.want)
			}
		})
	}
}
