package notes

import (
	"regexp"
	"strings"
)

const (
	maxTags   = 10
	maxTagLen = 50
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractHashtags pulls hashtag tokens out of note text, raw, in order,
// capped at maxTags. The text itself is stored unchanged: hashtags stay in
// the body and the Tags property carries normalised copies.
func ExtractHashtags(text string) []string {
	tags := hashtagPattern.FindAllString(text, -1)
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// NormalizeTags lower-cases, strips leading hashes, deduplicates and caps the
// tag set for the store's multi-select property.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.Trim(t, "# "))
		if t == "" {
			continue
		}
		if len(t) > maxTagLen {
			t = t[:maxTagLen]
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) >= maxTags {
			break
		}
	}
	return out
}
