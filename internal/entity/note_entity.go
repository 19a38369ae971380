package entity

// FileRef points at an externally hosted attachment (the chat transport
// serves files from its own CDN; the store only keeps the URL).
type FileRef struct {
	Name string
	URL  string
}
