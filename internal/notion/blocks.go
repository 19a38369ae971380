package notion

import "strings"

// Block is a child content block: paragraph text or an externally hosted
// image/file.
type Block struct {
	Object    string         `json:"object"`
	Type      string         `json:"type"`
	Paragraph *RichTextBlock `json:"paragraph,omitempty"`
	Image     *MediaBlock    `json:"image,omitempty"`
	File      *MediaBlock    `json:"file,omitempty"`
}

type RichTextBlock struct {
	RichText []RichText `json:"rich_text"`
}

type MediaBlock struct {
	Type     string        `json:"type"`
	External *ExternalLink `json:"external,omitempty"`
}

func ParagraphBlock(text string) Block {
	return Block{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &RichTextBlock{RichText: []RichText{textRun(truncate(text, maxRichTextLen))}},
	}
}

func ExternalImageBlock(url string) Block {
	return Block{
		Object: "block",
		Type:   "image",
		Image:  &MediaBlock{Type: "external", External: &ExternalLink{URL: url}},
	}
}

func ExternalFileBlock(url string) Block {
	return Block{
		Object: "block",
		Type:   "file",
		File:   &MediaBlock{Type: "external", External: &ExternalLink{URL: url}},
	}
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}

func isImageURL(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ContentBlocks renders a note body plus its attachments as page children:
// one paragraph (when text is non-empty) followed by one image or file block
// per attachment, in arrival order.
func ContentBlocks(text string, files []ExternalFile) []Block {
	var blocks []Block
	if text != "" {
		blocks = append(blocks, ParagraphBlock(text))
	}
	for _, f := range files {
		if f.URL == "" {
			continue
		}
		if isImageURL(f.URL) {
			blocks = append(blocks, ExternalImageBlock(f.URL))
		} else {
			blocks = append(blocks, ExternalFileBlock(f.URL))
		}
	}
	return blocks
}
