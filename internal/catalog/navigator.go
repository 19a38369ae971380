package catalog

import (
	"context"
	"sort"
	"strings"

	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/pkg/apperror"
)

// SkipLabel is the sentinel choice that bypasses a tree level. It is offered
// at every descent step, including empty levels, so progress is never
// blocked.
const SkipLabel = "— Skip —"

const childPageSize = 100

// Navigator lists tree levels and drives level-by-level descent.
type Navigator struct {
	gw         notion.Gateway
	databaseID string
}

func NewNavigator(gw notion.Gateway, databaseID string) *Navigator {
	return &Navigator{gw: gw, databaseID: databaseID}
}

// ListChildren returns the nodes at level under parentID (all roots when
// parentID is empty), sorted case-insensitively by name ascending. The
// ordering is a contract: the conversation machine renders and matches
// choices in exactly this order.
func (n *Navigator) ListChildren(ctx context.Context, level entity.Level, parentID string) ([]*entity.CatalogNode, error) {
	filter := notion.SelectEquals(propLevel, level.String())
	if parentID != "" {
		filter = notion.And(filter, notion.RelationContains(propParent, parentID))
	}
	pages, err := n.gw.Query(ctx, n.databaseID, filter, childPageSize)
	if err != nil {
		return nil, err
	}
	nodes := make([]*entity.CatalogNode, 0, len(pages))
	for _, p := range pages {
		nodes = append(nodes, pageToNode(p))
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	return nodes, nil
}

// Descent walks the tree one level at a time. Each round offers the current
// level's children plus the skip sentinel; choosing a node makes it the
// parent for the next level, skipping leaves the parent unchanged. The walk
// ends past Subtopic or when the caller stops asking.
type Descent struct {
	nav      *Navigator
	level    entity.Level
	parentID string
	offered  []*entity.CatalogNode
	done     bool
}

func (n *Navigator) StartDescent(level entity.Level, parentID string) *Descent {
	return &Descent{nav: n, level: level, parentID: parentID}
}

// Level is the level the next Choose applies to.
func (d *Descent) Level() entity.Level { return d.level }

// ParentID is the id of the deepest node chosen so far.
func (d *Descent) ParentID() string { return d.parentID }

// Done reports whether the walk has passed the deepest level.
func (d *Descent) Done() bool { return d.done }

// Options fetches the current level's children and returns the labels to
// offer, skip sentinel first. An empty level still yields the sentinel.
func (d *Descent) Options(ctx context.Context) ([]string, error) {
	children, err := d.nav.ListChildren(ctx, d.level, d.parentID)
	if err != nil {
		return nil, err
	}
	d.offered = children
	labels := make([]string, 0, len(children)+1)
	labels = append(labels, SkipLabel)
	for _, c := range children {
		labels = append(labels, c.Name)
	}
	return labels, nil
}

// Choose consumes the user's reply for the current level. It returns the
// chosen node (nil for skip) and advances to the next level. A reply that
// matches neither the sentinel nor an offered name is a ValidationError and
// leaves the descent where it was.
func (d *Descent) Choose(label string) (*entity.CatalogNode, error) {
	if d.done {
		return nil, apperror.NewValidation("nothing left to choose")
	}
	if label == SkipLabel {
		d.advance()
		return nil, nil
	}
	for _, c := range d.offered {
		if c.Name == label {
			d.parentID = c.Id
			d.advance()
			return c, nil
		}
	}
	return nil, apperror.NewValidation("pick one of the offered options")
}

func (d *Descent) advance() {
	next, ok := d.level.Next()
	if !ok {
		d.done = true
		return
	}
	d.level = next
}
