// Package projects resolves project names against the projects database.
// Both the task and the time-log workflows relate records to projects by id.
package projects

import (
	"context"

	"catalog-assistant/internal/notion"
)

const propName = "Name"

const listPageSize = 100

type Resolver struct {
	gw         notion.Gateway
	databaseID string
}

func NewResolver(gw notion.Gateway, databaseID string) *Resolver {
	return &Resolver{gw: gw, databaseID: databaseID}
}

func (r *Resolver) Configured() bool { return r.databaseID != "" }

// EnsureProject finds a project by exact name or creates it. Same weak
// idempotency contract as catalog nodes.
func (r *Resolver) EnsureProject(ctx context.Context, name string) (string, error) {
	pages, err := r.gw.Query(ctx, r.databaseID, notion.TitleEquals(propName, name), 1)
	if err != nil {
		return "", err
	}
	if len(pages) > 0 {
		return pages[0].ID, nil
	}
	page, err := r.gw.CreatePage(ctx, r.databaseID, notion.Properties{
		propName: notion.TitleProp(name),
	}, nil)
	if err != nil {
		return "", err
	}
	return page.ID, nil
}

// Names returns an id -> name index of all projects, used to label stats.
func (r *Resolver) Names(ctx context.Context) (map[string]string, error) {
	pages, err := r.gw.Query(ctx, r.databaseID, nil, listPageSize)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(pages))
	for _, p := range pages {
		out[p.ID] = p.TitleOf(propName)
	}
	return out, nil
}
