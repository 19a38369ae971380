package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"catalog-assistant/internal/ai"
	"catalog-assistant/internal/capture"
	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/pkg/logger"
)

// Notes database schema.
const (
	propName    = "Name"
	propText    = "Text"
	propTags    = "Tags"
	propFiles   = "Files"
	propCreated = "Created"
	propSource  = "Source"
)

const (
	fallbackTitle  = "Note"
	maxTitleLen    = 200
	maxBodyLen     = 1800
	searchPageSize = 5
	snippetLen     = 120
)

var levelProps = map[entity.Level]string{
	entity.LevelCategory:    "Category",
	entity.LevelSubcategory: "Subcategory",
	entity.LevelTopic:       "Topic",
	entity.LevelSubtopic:    "Subtopic",
}

type Service struct {
	gw         notion.Gateway
	databaseID string
	tagger     ai.TagProvider
	log        logger.ILogger
}

func NewService(gw notion.Gateway, databaseID string, tagger ai.TagProvider, log logger.ILogger) *Service {
	if tagger == nil {
		tagger = ai.NoopProvider{}
	}
	return &Service{gw: gw, databaseID: databaseID, tagger: tagger, log: log}
}

// CreateFromCapture assembles one note from a commit-ready capture buffer
// and submits it. Title is the first buffered line (AI summary, then a
// literal fallback, when there is no text); tags are the hashtag tokens plus
// any AI suggestions; the body keeps hashtags in place.
//
// Submission is atomic from the caller's view but degrades on remote schema
// mismatch: when the create carrying the Files property is rejected, it is
// retried once without Files and without inline children, and the content
// blocks are appended to the created page in a follow-up call. A failure of
// the retry is surfaced as-is.
func (s *Service) CreateFromCapture(ctx context.Context, buf *capture.Buffer) (string, error) {
	text := truncateRunes(buf.Text(), maxBodyLen)
	tags := ExtractHashtags(text)

	suggestion, err := s.tagger.Suggest(ctx, text)
	if err != nil {
		s.log.Warn("notes", "tag suggestion failed", map[string]interface{}{"error": err.Error()})
		suggestion = &ai.Suggestion{}
	}
	tags = append(tags, suggestion.Tags...)

	title := buf.FirstLine()
	if title == "" {
		title = suggestion.Summary
	}
	if title == "" {
		title = fallbackTitle
	}
	body := text
	if body == "" {
		body = suggestion.Summary
	}

	files := make([]notion.ExternalFile, 0, len(buf.Files()))
	for _, f := range buf.Files() {
		files = append(files, notion.ExternalFile{Name: f.Name, URL: f.URL})
	}

	props := notion.Properties{
		propName:    notion.TitleProp(truncateRunes(title, maxTitleLen)),
		propText:    notion.RichTextProp(body),
		propTags:    notion.MultiSelectProp(NormalizeTags(tags)),
		propCreated: notion.DateProp(time.Now()),
	}
	for level, prop := range levelProps {
		if id := buf.PathAt(level); id != "" {
			props[prop] = notion.RelationProp(id)
		}
	}

	children := notion.ContentBlocks(body, files)

	// First attempt: Files property plus inline children.
	attempt := clone(props)
	if len(files) > 0 {
		attempt[propFiles] = notion.FilesProp(files)
	}
	page, err := s.gw.CreatePage(ctx, s.databaseID, attempt, children)
	if err == nil {
		return page.ID, nil
	}

	var remote *notion.RemoteError
	if !errors.As(err, &remote) {
		return "", err
	}
	s.log.Warn("notes", "retrying note create without Files property", map[string]interface{}{
		"status": remote.Status, "schema_mismatch": remote.SchemaMismatch(),
	})

	// Degraded attempt: bare properties, content appended afterwards.
	page, err = s.gw.CreatePage(ctx, s.databaseID, props, nil)
	if err != nil {
		return "", err
	}
	if len(children) > 0 {
		if err := s.gw.AppendChildren(ctx, page.ID, children); err != nil {
			return "", err
		}
	}
	return page.ID, nil
}

// SearchResult is one hit rendered for the chat.
type SearchResult struct {
	Title   string
	Snippet string
}

// Search matches the query against note titles, bodies and tags.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	tag := strings.ToLower(strings.Trim(query, "# "))
	filter := notion.Or(
		notion.TitleContains(propName, query),
		notion.RichTextContains(propText, query),
		notion.MultiSelectContains(propTags, tag),
	)
	pages, err := s.gw.Query(ctx, s.databaseID, filter, searchPageSize)
	if err != nil {
		return nil, err
	}

	out := make([]SearchResult, 0, len(pages))
	for _, p := range pages {
		title := p.TitleOf(propName)
		if title == "" {
			title = "Untitled"
		}
		out = append(out, SearchResult{
			Title:   title,
			Snippet: truncateRunes(p.RichTextOf(propText), snippetLen),
		})
	}
	return out, nil
}

func clone(props notion.Properties) notion.Properties {
	out := make(notion.Properties, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
