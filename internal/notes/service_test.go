package notes

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-assistant/internal/capture"
	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/notion/notiontest"
	"catalog-assistant/internal/pkg/logger"
)

const notesDB = "notes-db"

func newTestService(store *notiontest.FakeStore) *Service {
	return NewService(store, notesDB, nil, logger.NopLogger{})
}

func TestCreateFromCapture(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)

	buf := capture.NewBuffer()
	buf.SetPath(entity.LevelCategory, "cat-1")
	buf.SetPath(entity.LevelTopic, "top-1")
	buf.AppendText("Meeting recap #work")
	buf.AppendText("discussed the roadmap")

	id, err := svc.CreateFromCapture(context.Background(), buf)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	pages := store.PagesIn(notesDB)
	require.Len(t, pages, 1)
	p := pages[0]

	assert.Equal(t, "Meeting recap #work", p.TitleOf("Name"), "title is the first buffered line")
	assert.Equal(t, "Meeting recap #work\ndiscussed the roadmap", p.RichTextOf("Text"),
		"hashtags stay in the body")
	assert.Equal(t, "cat-1", p.FirstRelationOf("Category"))
	assert.Equal(t, "top-1", p.FirstRelationOf("Topic"))
	assert.Equal(t, "", p.FirstRelationOf("Subcategory"))

	tags := p.Properties["Tags"].MultiSelect
	require.Len(t, tags, 1)
	assert.Equal(t, "work", tags[0].Name)
}

func TestCreateFromCaptureEmptyText(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)

	buf := capture.NewBuffer()
	buf.AppendFile("pic.png", "https://cdn/pic.png")

	_, err := svc.CreateFromCapture(context.Background(), buf)
	require.NoError(t, err)

	pages := store.PagesIn(notesDB)
	require.Len(t, pages, 1)
	assert.Equal(t, "Note", pages[0].TitleOf("Name"), "fallback title when nothing was typed")
}

func TestCreateFromCaptureFilesInlined(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)

	buf := capture.NewBuffer()
	buf.AppendText("see attachment")
	buf.AppendFile("doc.pdf", "https://cdn/doc.pdf")

	id, err := svc.CreateFromCapture(context.Background(), buf)
	require.NoError(t, err)

	pages := store.PagesIn(notesDB)
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Properties["Files"].Files, 1)

	children := store.CreatedChildren[id]
	require.Len(t, children, 2)
	assert.Equal(t, "paragraph", children[0].Type)
	assert.Equal(t, "file", children[1].Type)
	assert.Empty(t, store.Appended, "no fallback append on the happy path")
}

func TestCreateFromCaptureDegradesWithoutFilesProperty(t *testing.T) {
	store := notiontest.NewFakeStore()
	store.FailCreate = func(_ string, props notion.Properties, _ []notion.Block) error {
		if _, has := props["Files"]; has {
			return &notion.RemoteError{Status: 400, Body: "Files is not a property that exists"}
		}
		return nil
	}
	svc := newTestService(store)

	buf := capture.NewBuffer()
	buf.AppendText("body")
	buf.AppendFile("pic.png", "https://cdn/pic.png")

	id, err := svc.CreateFromCapture(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 2, store.CreateCalls, "one rejected attempt, one bare retry")

	pages := store.PagesIn(notesDB)
	require.Len(t, pages, 1)
	_, hasFiles := pages[0].Properties["Files"]
	assert.False(t, hasFiles, "retry drops the Files property")

	// Content lands via the follow-up append instead of inline children.
	batches := store.Appended[id]
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	assert.Equal(t, "paragraph", batches[0][0].Type)
	assert.Equal(t, "image", batches[0][1].Type)
}

func TestCreateFromCaptureBodyCap(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)

	buf := capture.NewBuffer()
	buf.AppendText(strings.Repeat("я", 2500))

	_, err := svc.CreateFromCapture(context.Background(), buf)
	require.NoError(t, err)

	pages := store.PagesIn(notesDB)
	body := pages[0].RichTextOf("Text")
	assert.Len(t, []rune(body), 1800, "cap counts characters, not bytes")
}

func TestSearch(t *testing.T) {
	store := notiontest.NewFakeStore()
	store.Seed(notesDB, notion.Properties{
		"Name": notion.TitleProp("Roadmap meeting"),
		"Text": notion.RichTextProp("we planned the quarter"),
		"Tags": notion.MultiSelectProp([]string{"work"}),
	})
	store.Seed(notesDB, notion.Properties{
		"Name": notion.TitleProp("Groceries"),
		"Text": notion.RichTextProp("milk and bread"),
	})
	svc := newTestService(store)

	byTitle, err := svc.Search(context.Background(), "Roadmap")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Roadmap meeting", byTitle[0].Title)

	byBody, err := svc.Search(context.Background(), "bread")
	require.NoError(t, err)
	require.Len(t, byBody, 1)
	assert.Equal(t, "Groceries", byBody[0].Title)

	byTag, err := svc.Search(context.Background(), "#WORK")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Roadmap meeting", byTag[0].Title)

	none, err := svc.Search(context.Background(), "nothing like this")
	require.NoError(t, err)
	assert.Empty(t, none)
}
