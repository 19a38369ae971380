package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog-assistant/internal/entity"
)

func TestBufferAccumulatesInOrder(t *testing.T) {
	b := NewBuffer()
	b.AppendText("first line")
	b.AppendText("  second  ")
	b.AppendText("")
	b.AppendText("   ")

	assert.Equal(t, "first line\nsecond", b.Text(), "fragments join with newlines, blanks dropped")
	assert.Equal(t, "first line", b.FirstLine())
	assert.False(t, b.Empty())
}

func TestBufferFirstLineOfMultilineFragment(t *testing.T) {
	b := NewBuffer()
	b.AppendText("title\nrest of the note")
	assert.Equal(t, "title", b.FirstLine())
}

func TestBufferFiles(t *testing.T) {
	b := NewBuffer()
	b.AppendFile("", "https://cdn/x.pdf")
	b.AppendFile("pic.png", "https://cdn/pic.png")
	b.AppendFile("ignored", "")

	files := b.Files()
	assert.Len(t, files, 2)
	assert.Equal(t, "file.bin", files[0].Name, "missing names fall back")
	assert.Equal(t, "pic.png", files[1].Name)
}

func TestBufferPath(t *testing.T) {
	b := NewBuffer()
	b.SetPath(entity.LevelCategory, "cat-1")
	b.SetPath(entity.LevelTopic, "")

	assert.Equal(t, "cat-1", b.PathAt(entity.LevelCategory))
	assert.Equal(t, "", b.PathAt(entity.LevelTopic))
	assert.Equal(t, "", b.PathAt(entity.LevelSubcategory))
}

func TestBufferEmpty(t *testing.T) {
	b := NewBuffer()
	assert.True(t, b.Empty())
	b.AppendFile("a", "https://cdn/a")
	assert.False(t, b.Empty())
}
