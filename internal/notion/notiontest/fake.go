// Package notiontest provides an in-memory Gateway double that evaluates
// the same filter trees the real client sends, so services can be tested
// against query-by-filter semantics without a network.
package notiontest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"catalog-assistant/internal/notion"

	"github.com/google/uuid"
)

type FakeStore struct {
	mu    sync.Mutex
	pages map[string][]notion.Page // databaseID -> pages in insertion order

	// CreateCalls counts CreatePage invocations across all databases.
	CreateCalls int

	// FailCreate, when set, is consulted before every create. Returning a
	// non-nil error rejects the create without storing anything.
	FailCreate func(databaseID string, props notion.Properties, children []notion.Block) error

	// CreatedChildren records the children passed inline on create, by page id.
	CreatedChildren map[string][]notion.Block

	// Appended records AppendChildren batches by block id.
	Appended map[string][][]notion.Block
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		pages:           make(map[string][]notion.Page),
		CreatedChildren: make(map[string][]notion.Block),
		Appended:        make(map[string][][]notion.Block),
	}
}

// Seed inserts a page directly, bypassing FailCreate and counters.
func (s *FakeStore) Seed(databaseID string, props notion.Properties) notion.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := notion.Page{ID: uuid.NewString(), Properties: toValueMap(props)}
	s.pages[databaseID] = append(s.pages[databaseID], page)
	return page
}

// PagesIn returns a copy of the stored pages of one database.
func (s *FakeStore) PagesIn(databaseID string) []notion.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notion.Page, len(s.pages[databaseID]))
	copy(out, s.pages[databaseID])
	return out
}

func (s *FakeStore) Query(_ context.Context, databaseID string, filter notion.Filter, pageSize int) ([]notion.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notion.Page
	for _, p := range s.pages[databaseID] {
		if matches(p, filter) {
			out = append(out, p)
			if pageSize > 0 && len(out) >= pageSize {
				break
			}
		}
	}
	return out, nil
}

func (s *FakeStore) CreatePage(_ context.Context, databaseID string, props notion.Properties, children []notion.Block) (*notion.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	if s.FailCreate != nil {
		if err := s.FailCreate(databaseID, props, children); err != nil {
			return nil, err
		}
	}
	page := notion.Page{ID: uuid.NewString(), Properties: toValueMap(props)}
	s.pages[databaseID] = append(s.pages[databaseID], page)
	if len(children) > 0 {
		s.CreatedChildren[page.ID] = children
	}
	return &page, nil
}

func (s *FakeStore) PatchPage(_ context.Context, pageID string, props notion.Properties) (*notion.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for db, pages := range s.pages {
		for i, p := range pages {
			if p.ID == pageID {
				for k, v := range props {
					p.Properties[k] = v
				}
				s.pages[db][i] = p
				return &p, nil
			}
		}
	}
	return nil, &notion.RemoteError{Status: 404, Body: fmt.Sprintf("page %s not found", pageID)}
}

func (s *FakeStore) AppendChildren(_ context.Context, blockID string, children []notion.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Appended[blockID] = append(s.Appended[blockID], children)
	return nil
}

func toValueMap(props notion.Properties) map[string]notion.PropertyValue {
	out := make(map[string]notion.PropertyValue, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

// --- filter evaluation ---

func matches(p notion.Page, f notion.Filter) bool {
	if f == nil {
		return true
	}
	if sub, ok := f["and"]; ok {
		for _, inner := range asFilters(sub) {
			if !matches(p, inner) {
				return false
			}
		}
		return true
	}
	if sub, ok := f["or"]; ok {
		for _, inner := range asFilters(sub) {
			if matches(p, inner) {
				return true
			}
		}
		return false
	}

	prop, _ := f["property"].(string)
	for kind, raw := range f {
		if kind == "property" {
			continue
		}
		cond, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		return matchesLeaf(p, prop, kind, cond)
	}
	return false
}

func asFilters(v interface{}) []notion.Filter {
	switch t := v.(type) {
	case []notion.Filter:
		return t
	case []interface{}:
		out := make([]notion.Filter, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]interface{}); ok {
				out = append(out, notion.Filter(m))
			}
		}
		return out
	}
	return nil
}

func matchesLeaf(p notion.Page, prop, kind string, cond map[string]interface{}) bool {
	switch kind {
	case "title":
		if v, ok := cond["equals"].(string); ok {
			return p.TitleOf(prop) == v
		}
		if v, ok := cond["contains"].(string); ok {
			return strings.Contains(p.TitleOf(prop), v)
		}
	case "rich_text":
		if v, ok := cond["contains"].(string); ok {
			return strings.Contains(p.RichTextOf(prop), v)
		}
	case "select":
		if v, ok := cond["equals"].(string); ok {
			return p.SelectOf(prop) == v
		}
		if v, ok := cond["does_not_equal"].(string); ok {
			return p.SelectOf(prop) != v
		}
	case "multi_select":
		if v, ok := cond["contains"].(string); ok {
			pv := p.Properties[prop]
			for _, opt := range pv.MultiSelect {
				if opt.Name == v {
					return true
				}
			}
			return false
		}
	case "relation":
		if v, ok := cond["contains"].(string); ok {
			pv := p.Properties[prop]
			for _, rel := range pv.Relation {
				if rel.ID == v {
					return true
				}
			}
			return false
		}
	case "date":
		pv := p.Properties[prop]
		if pv.Date == nil {
			return false
		}
		have, err := parseFlexibleTime(pv.Date.Start)
		if err != nil {
			return false
		}
		if v, ok := cond["on_or_before"].(string); ok {
			want, err := parseFlexibleTime(v)
			return err == nil && !have.After(want)
		}
		if v, ok := cond["on_or_after"].(string); ok {
			want, err := parseFlexibleTime(v)
			return err == nil && !have.Before(want)
		}
	}
	return false
}

func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
