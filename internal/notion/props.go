package notion

import (
	"time"
	"unicode/utf8"
)

// Property builders for the write side. Size caps match the store's limits
// on title (200) and rich text (1800) as the notes schema uses them.

const (
	maxTitleLen    = 200
	maxRichTextLen = 1800
	maxTagLen      = 50
)

type Properties map[string]PropertyValue

func TitleProp(content string) PropertyValue {
	return PropertyValue{Title: []RichText{textRun(truncate(content, maxTitleLen))}}
}

func RichTextProp(content string) PropertyValue {
	if content == "" {
		return PropertyValue{RichText: []RichText{}}
	}
	return PropertyValue{RichText: []RichText{textRun(truncate(content, maxRichTextLen))}}
}

func SelectProp(name string) PropertyValue {
	return PropertyValue{Select: &SelectOption{Name: name}}
}

func MultiSelectProp(names []string) PropertyValue {
	opts := make([]SelectOption, 0, len(names))
	for _, n := range names {
		opts = append(opts, SelectOption{Name: truncate(n, maxTagLen)})
	}
	return PropertyValue{MultiSelect: opts}
}

func RelationProp(pageIDs ...string) PropertyValue {
	refs := make([]RelationRef, 0, len(pageIDs))
	for _, id := range pageIDs {
		refs = append(refs, RelationRef{ID: id})
	}
	return PropertyValue{Relation: refs}
}

func DateProp(t time.Time) PropertyValue {
	return PropertyValue{Date: &DateValue{Start: t.Format(time.RFC3339)}}
}

// DateOnlyProp drops the time component, for day-granularity properties.
func DateOnlyProp(t time.Time) PropertyValue {
	return PropertyValue{Date: &DateValue{Start: t.Format("2006-01-02")}}
}

func NumberProp(n float64) PropertyValue {
	return PropertyValue{Number: &n}
}

func URLProp(u string) PropertyValue {
	return PropertyValue{URL: u}
}

func FilesProp(files []ExternalFile) PropertyValue {
	out := make([]FileValue, 0, len(files))
	for _, f := range files {
		out = append(out, FileValue{
			Name:     f.Name,
			Type:     "external",
			External: &ExternalLink{URL: f.URL},
		})
	}
	return PropertyValue{Files: out}
}

func textRun(content string) RichText {
	return RichText{Type: "text", Text: &TextContent{Content: content}}
}

// truncate cuts at rune boundaries; the store counts characters, not bytes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
