// Package capture holds the per-chat accumulator for the guided note
// workflow: the chosen tree path plus every text and file fragment received
// until the user commits. Nothing here touches the remote store; the buffer
// lives only in session memory.
package capture

import (
	"strings"

	"catalog-assistant/internal/entity"

	"github.com/google/uuid"
)

type Buffer struct {
	ID    string
	path  map[entity.Level]string
	texts []string
	files []entity.FileRef
}

func NewBuffer() *Buffer {
	return &Buffer{
		ID:   uuid.NewString(),
		path: make(map[entity.Level]string),
	}
}

// SetPath records the chosen node for one tree level.
func (b *Buffer) SetPath(level entity.Level, nodeID string) {
	if nodeID == "" {
		return
	}
	b.path[level] = nodeID
}

func (b *Buffer) PathAt(level entity.Level) string {
	return b.path[level]
}

// AppendText buffers one text fragment verbatim, in arrival order.
func (b *Buffer) AppendText(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	b.texts = append(b.texts, s)
}

// AppendFile buffers a resolved attachment reference, preserving order.
func (b *Buffer) AppendFile(name, url string) {
	if url == "" {
		return
	}
	if name == "" {
		name = "file.bin"
	}
	b.files = append(b.files, entity.FileRef{Name: name, URL: url})
}

// Text joins the buffered fragments with newlines. Callers apply the store's
// size cap.
func (b *Buffer) Text() string {
	return strings.Join(b.texts, "\n")
}

// FirstLine is the title source: the first line of the first fragment.
func (b *Buffer) FirstLine() string {
	text := b.Text()
	if text == "" {
		return ""
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

func (b *Buffer) Files() []entity.FileRef {
	out := make([]entity.FileRef, len(b.files))
	copy(out, b.files)
	return out
}

func (b *Buffer) Empty() bool {
	return len(b.texts) == 0 && len(b.files) == 0
}
