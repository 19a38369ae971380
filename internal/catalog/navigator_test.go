package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/notion/notiontest"
	"catalog-assistant/internal/pkg/apperror"
)

func seedNode(store *notiontest.FakeStore, name string, level entity.Level, parentID string) notion.Page {
	props := notion.Properties{
		propName:  notion.TitleProp(name),
		propLevel: notion.SelectProp(level.String()),
	}
	if parentID != "" {
		props[propParent] = notion.RelationProp(parentID)
	}
	return store.Seed(testDB, props)
}

func TestListChildrenOrdering(t *testing.T) {
	store := notiontest.NewFakeStore()
	seedNode(store, "zeta", entity.LevelCategory, "")
	seedNode(store, "Alpha", entity.LevelCategory, "")
	seedNode(store, "beta", entity.LevelCategory, "")

	nav := NewNavigator(store, testDB)
	nodes, err := nav.ListChildren(context.Background(), entity.LevelCategory, "")
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	// Case-insensitive ascending, always.
	assert.Equal(t, "Alpha", nodes[0].Name)
	assert.Equal(t, "beta", nodes[1].Name)
	assert.Equal(t, "zeta", nodes[2].Name)
}

func TestListChildrenScopedToParent(t *testing.T) {
	store := notiontest.NewFakeStore()
	work := seedNode(store, "Work", entity.LevelCategory, "")
	home := seedNode(store, "Home", entity.LevelCategory, "")
	seedNode(store, "Projects", entity.LevelSubcategory, work.ID)
	seedNode(store, "Chores", entity.LevelSubcategory, home.ID)

	nav := NewNavigator(store, testDB)
	nodes, err := nav.ListChildren(context.Background(), entity.LevelSubcategory, work.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Projects", nodes[0].Name)
}

func TestDescentSkipOfferedOnEmptyLevel(t *testing.T) {
	store := notiontest.NewFakeStore()
	work := seedNode(store, "Work", entity.LevelCategory, "")

	nav := NewNavigator(store, testDB)
	d := nav.StartDescent(entity.LevelSubcategory, work.ID)

	labels, err := d.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{SkipLabel}, labels, "empty level still offers the skip sentinel")
}

func TestDescentSkipKeepsParent(t *testing.T) {
	store := notiontest.NewFakeStore()
	work := seedNode(store, "Work", entity.LevelCategory, "")
	seedNode(store, "Projects", entity.LevelSubcategory, work.ID)

	nav := NewNavigator(store, testDB)
	d := nav.StartDescent(entity.LevelSubcategory, work.ID)

	_, err := d.Options(context.Background())
	require.NoError(t, err)

	node, err := d.Choose(SkipLabel)
	require.NoError(t, err)
	assert.Nil(t, node)
	assert.Equal(t, work.ID, d.ParentID(), "skip must not move the parent")
	assert.Equal(t, entity.LevelTopic, d.Level(), "skip still advances the level")
}

func TestDescentChooseAdvancesParent(t *testing.T) {
	store := notiontest.NewFakeStore()
	work := seedNode(store, "Work", entity.LevelCategory, "")
	projects := seedNode(store, "Projects", entity.LevelSubcategory, work.ID)

	nav := NewNavigator(store, testDB)
	d := nav.StartDescent(entity.LevelSubcategory, work.ID)

	_, err := d.Options(context.Background())
	require.NoError(t, err)

	node, err := d.Choose("Projects")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, projects.ID, d.ParentID())
}

func TestDescentRejectsUnknownLabel(t *testing.T) {
	store := notiontest.NewFakeStore()
	work := seedNode(store, "Work", entity.LevelCategory, "")

	nav := NewNavigator(store, testDB)
	d := nav.StartDescent(entity.LevelSubcategory, work.ID)

	_, err := d.Options(context.Background())
	require.NoError(t, err)

	_, err = d.Choose("never offered")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, entity.LevelSubcategory, d.Level(), "a bad reply must not advance")
}

func TestDescentEndsPastSubtopic(t *testing.T) {
	store := notiontest.NewFakeStore()
	work := seedNode(store, "Work", entity.LevelCategory, "")

	nav := NewNavigator(store, testDB)
	d := nav.StartDescent(entity.LevelSubcategory, work.ID)

	for _, level := range []entity.Level{entity.LevelSubcategory, entity.LevelTopic, entity.LevelSubtopic} {
		assert.Equal(t, level, d.Level())
		_, err := d.Options(context.Background())
		require.NoError(t, err)
		_, err = d.Choose(SkipLabel)
		require.NoError(t, err)
	}
	assert.True(t, d.Done())

	_, err := d.Choose(SkipLabel)
	assert.True(t, apperror.IsValidation(err))
}
