package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	maxSuggestedTags = 7
	maxSummaryLen    = 200
)

type OpenAIProvider struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1/chat/completions",
		model:   "gpt-4o-mini",
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the endpoint, for tests.
func (p *OpenAIProvider) WithBaseURL(base string) *OpenAIProvider {
	p.baseURL = base
	return p
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

var (
	tagsLine    = regexp.MustCompile(`(?i)tags\s*=\s*([^\n;]+)`)
	summaryLine = regexp.MustCompile(`(?i)summary\s*=\s*(.+)`)
	tagSplitter = regexp.MustCompile(`[,\s]+`)
)

func (p *OpenAIProvider) Suggest(ctx context.Context, text string) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &Suggestion{}, nil
	}
	if len(text) > 1000 {
		text = text[:1000]
	}

	prompt := fmt.Sprintf(
		"Text: %s\nProduce 5 short tags (no #, latin letters) and a one-line description. Format: tags=a,b,c; summary=...",
		text,
	)
	payload, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai api error (status %d): %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("openai api returned error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return &Suggestion{}, nil
	}

	return parseSuggestion(out.Choices[0].Message.Content), nil
}

func parseSuggestion(content string) *Suggestion {
	s := &Suggestion{}
	if m := tagsLine.FindStringSubmatch(content); m != nil {
		for _, t := range tagSplitter.Split(m[1], -1) {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			s.Tags = append(s.Tags, t)
			if len(s.Tags) >= maxSuggestedTags {
				break
			}
		}
	}
	if m := summaryLine.FindStringSubmatch(content); m != nil {
		s.Summary = strings.TrimSpace(m[1])
		if len(s.Summary) > maxSummaryLen {
			s.Summary = s.Summary[:maxSummaryLen]
		}
	}
	return s
}
