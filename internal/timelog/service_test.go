package timelog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/notion/notiontest"
	"catalog-assistant/internal/projects"
)

const (
	timelogDB  = "timelog-db"
	projectsDB = "projects-db"
)

func newTestService(store *notiontest.FakeStore) *Service {
	return NewService(store, timelogDB, projects.NewResolver(store, projectsDB))
}

func TestAddCreatesProjectAndEntry(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	id, err := svc.Add(ctx, "Acme", 90, "code review")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entries := store.PagesIn(timelogDB)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(90), entries[0].NumberOf("Minutes"))
	assert.Equal(t, "code review", entries[0].RichTextOf("Note"))

	projectPages := store.PagesIn(projectsDB)
	require.Len(t, projectPages, 1)
	assert.Equal(t, projectPages[0].ID, entries[0].FirstRelationOf("Project"))

	// Day granularity, no time component.
	date := entries[0].Properties["Date"].Date
	require.NotNil(t, date)
	assert.Len(t, date.Start, 10)
}

func TestStatsSumsPerProject(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, "Acme", 60, "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "Acme", 30, "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "Side", 15, "")
	require.NoError(t, err)

	// An entry with no project relation groups under the fallback label.
	store.Seed(timelogDB, notion.Properties{
		"Date":    notion.DateOnlyProp(time.Now()),
		"Minutes": notion.NumberProp(5),
	})

	totals, err := svc.Stats(ctx, PeriodToday)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"Acme":       90,
		"Side":       15,
		"No project": 5,
	}, totals)
}

func TestStatsExcludesOlderEntries(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	projectID, err := projects.NewResolver(store, projectsDB).EnsureProject(ctx, "Acme")
	require.NoError(t, err)

	store.Seed(timelogDB, notion.Properties{
		"Date":    notion.DateOnlyProp(time.Now().AddDate(0, -2, 0)),
		"Project": notion.RelationProp(projectID),
		"Minutes": notion.NumberProp(600),
	})
	store.Seed(timelogDB, notion.Properties{
		"Date":    notion.DateOnlyProp(time.Now()),
		"Project": notion.RelationProp(projectID),
		"Minutes": notion.NumberProp(45),
	})

	totals, err := svc.Stats(ctx, PeriodMonth)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Acme": 45}, totals)
}

func TestPeriodStart(t *testing.T) {
	// A Wednesday.
	now := time.Date(2025, 8, 20, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), periodStart(now, PeriodToday))
	assert.Equal(t, time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC), periodStart(now, PeriodWeek))
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), periodStart(now, PeriodMonth))

	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2025, 8, 24, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC), periodStart(sunday, PeriodWeek))
}
