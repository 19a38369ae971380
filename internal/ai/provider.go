package ai

import "context"

// Suggestion is what a tag provider adds to a committed capture: extra tags
// and a short summary usable as a title/body fallback when the capture has
// no text of its own.
type Suggestion struct {
	Tags    []string
	Summary string
}

// TagProvider suggests tags for note text. Implementations are best-effort:
// callers log failures and continue without suggestions.
type TagProvider interface {
	Suggest(ctx context.Context, text string) (*Suggestion, error)
}

// NoopProvider is used when no AI key is configured.
type NoopProvider struct{}

func (NoopProvider) Suggest(context.Context, string) (*Suggestion, error) {
	return &Suggestion{}, nil
}
