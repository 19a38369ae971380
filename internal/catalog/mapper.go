package catalog

import (
	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/notion"
)

// Catalog database schema.
const (
	propName   = "Name"
	propLevel  = "Level"
	propParent = "Parent"
)

func pageToNode(p notion.Page) *entity.CatalogNode {
	name := p.TitleOf(propName)
	if name == "" {
		name = "Untitled"
	}
	return &entity.CatalogNode{
		Id:       p.ID,
		Name:     name,
		Level:    entity.Level(p.SelectOf(propLevel)),
		ParentId: p.FirstRelationOf(propParent),
	}
}
