package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	apiBase    = "https://api.notion.com/v1"
	apiVersion = "2022-06-28"
)

// RemoteError is any non-2xx answer from the store. Schema mismatches are
// only distinguishable by message content; the store has no structured code
// for them.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store error (status %d): %s", e.Status, e.Body)
}

// SchemaMismatch reports whether the body points at a property that does not
// exist on the target database.
func (e *RemoteError) SchemaMismatch() bool {
	return strings.Contains(e.Body, "is not a property that exists") ||
		(strings.Contains(e.Body, "validation_error") && strings.Contains(e.Body, "property"))
}

// Gateway is the transport contract the resolver, navigator and services
// depend on. No business logic, no caching; a retried create produces a
// duplicate record, so callers must not assume idempotent retry safety.
type Gateway interface {
	Query(ctx context.Context, databaseID string, filter Filter, pageSize int) ([]Page, error)
	CreatePage(ctx context.Context, databaseID string, props Properties, children []Block) (*Page, error)
	PatchPage(ctx context.Context, pageID string, props Properties) (*Page, error)
	AppendChildren(ctx context.Context, blockID string, children []Block) error
}

type Client struct {
	token   string
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: apiBase,
		http:    &http.Client{Timeout: 40 * time.Second},
		tracer:  otel.Tracer("notion"),
	}
}

// WithBaseURL overrides the API base, for tests against a local server.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

type queryRequest struct {
	Filter   Filter `json:"filter,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results []Page `json:"results"`
}

func (c *Client) Query(ctx context.Context, databaseID string, filter Filter, pageSize int) ([]Page, error) {
	ctx, span := c.tracer.Start(ctx, "notion.query",
		trace.WithAttributes(attribute.String("notion.database_id", databaseID)))
	defer span.End()

	var out queryResponse
	err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query",
		queryRequest{Filter: filter, PageSize: pageSize}, &out)
	if err != nil {
		return nil, err
	}
	return out.Results, nil
}

type createPageRequest struct {
	Parent     map[string]string `json:"parent"`
	Properties Properties        `json:"properties"`
	Children   []Block           `json:"children,omitempty"`
}

func (c *Client) CreatePage(ctx context.Context, databaseID string, props Properties, children []Block) (*Page, error) {
	ctx, span := c.tracer.Start(ctx, "notion.create_page",
		trace.WithAttributes(attribute.String("notion.database_id", databaseID)))
	defer span.End()

	var out Page
	err := c.do(ctx, http.MethodPost, "/pages", createPageRequest{
		Parent:     map[string]string{"database_id": databaseID},
		Properties: props,
		Children:   children,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type patchPageRequest struct {
	Properties Properties `json:"properties"`
}

func (c *Client) PatchPage(ctx context.Context, pageID string, props Properties) (*Page, error) {
	ctx, span := c.tracer.Start(ctx, "notion.patch_page",
		trace.WithAttributes(attribute.String("notion.page_id", pageID)))
	defer span.End()

	var out Page
	err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, patchPageRequest{Properties: props}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type appendChildrenRequest struct {
	Children []Block `json:"children"`
}

func (c *Client) AppendChildren(ctx context.Context, blockID string, children []Block) error {
	ctx, span := c.tracer.Start(ctx, "notion.append_children",
		trace.WithAttributes(attribute.String("notion.block_id", blockID)))
	defer span.End()

	return c.do(ctx, http.MethodPatch, "/blocks/"+blockID+"/children",
		appendChildrenRequest{Children: children}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// A transport timeout surfaces like any other remote failure.
		return &RemoteError{Status: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
