package catalog

import (
	"context"

	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/pkg/logger"
)

// InboxName is the fallback category that receives quick notes when the user
// skips tree selection entirely.
const InboxName = "Inbox"

// Resolver finds or creates catalog nodes. Sequential calls with the same
// (name, level, parent) return the same node and create at most one record;
// concurrent calls from two sessions may still create duplicates because the
// store has no atomic find-or-create, which is an accepted limitation for
// single-user operation.
type Resolver struct {
	gw         notion.Gateway
	databaseID string
	log        logger.ILogger
}

func NewResolver(gw notion.Gateway, databaseID string, log logger.ILogger) *Resolver {
	return &Resolver{gw: gw, databaseID: databaseID, log: log}
}

// EnsureNode returns the first node matching (name, level, parent), creating
// it when no match exists. Ties between duplicate names resolve to whichever
// page the store returns first.
func (r *Resolver) EnsureNode(ctx context.Context, name string, level entity.Level, parentID string) (*entity.CatalogNode, error) {
	filter := notion.And(
		notion.SelectEquals(propLevel, level.String()),
		notion.TitleEquals(propName, name),
	)
	if parentID != "" {
		filter = notion.And(
			notion.SelectEquals(propLevel, level.String()),
			notion.TitleEquals(propName, name),
			notion.RelationContains(propParent, parentID),
		)
	}

	pages, err := r.gw.Query(ctx, r.databaseID, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(pages) > 0 {
		return pageToNode(pages[0]), nil
	}

	props := notion.Properties{
		propName:  notion.TitleProp(name),
		propLevel: notion.SelectProp(level.String()),
	}
	if parentID != "" {
		props[propParent] = notion.RelationProp(parentID)
	}
	page, err := r.gw.CreatePage(ctx, r.databaseID, props, nil)
	if err != nil {
		return nil, err
	}
	r.log.Info("catalog", "created node", map[string]interface{}{
		"name": name, "level": level.String(), "parent": parentID,
	})
	return &entity.CatalogNode{Id: page.ID, Name: name, Level: level, ParentId: parentID}, nil
}

// EnsureInbox resolves the root Inbox category used by quick capture.
func (r *Resolver) EnsureInbox(ctx context.Context) (*entity.CatalogNode, error) {
	return r.EnsureNode(ctx, InboxName, entity.LevelCategory, "")
}
