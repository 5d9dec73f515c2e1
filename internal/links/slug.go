package links

import (
	"net/url"
	"strings"
)

// Slugify normalizes an anchor fragment into its in-page navigation target
// form: the substring after the last '#' is percent-decoded and lowercased,
// punctuation is dropped, spaces become hyphens and leading/trailing hyphens
// are trimmed. An input with nothing left after trimming yields an empty slug.
func Slugify(anchor string) string {
	if idx := strings.LastIndex(anchor, "#"); idx >= 0 {
		anchor = anchor[idx+1:]
	}
	// Anchors recorded from rendered markup are percent-encoded.
	if decoded, err := url.PathUnescape(anchor); err == nil {
		anchor = decoded
	}
	anchor = strings.ToLower(anchor)

	var b strings.Builder
	lastHyphen := false
	for _, r := range anchor {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			lastHyphen = true
		default:
			// Punctuation contributes nothing.
		}
	}

	return strings.TrimRight(b.String(), "-")
}
