package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/notion/notiontest"
	"catalog-assistant/internal/pkg/apperror"
	"catalog-assistant/internal/projects"
)

const (
	tasksDB    = "tasks-db"
	projectsDB = "projects-db"
)

func newTestService(store *notiontest.FakeStore) *Service {
	return NewService(store, tasksDB, projects.NewResolver(store, projectsDB))
}

func TestParseDue(t *testing.T) {
	tests := []struct {
		input   string
		want    string // RFC3339, "" for nil
		wantErr bool
	}{
		{"", "", false},
		{"2025-08-15", "2025-08-15T00:00:00Z", false},
		{"2025-08-15 14:30", "2025-08-15T14:30:00Z", false},
		{"15.08.2025", "", true},
		{"2025-08-15 25:00", "", true},
		{"soon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDue(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsValidation(err))
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.UTC().Format(time.RFC3339))
		})
	}
}

func TestCreateResolvesProject(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	due := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	id, err := svc.Create(ctx, "Write report", &due, "Acme")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	tasks := store.PagesIn(tasksDB)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].TitleOf("Name"))
	assert.Equal(t, entity.TaskStatusTodo, tasks[0].SelectOf("Status"))

	projectPages := store.PagesIn(projectsDB)
	require.Len(t, projectPages, 1, "unknown project is created on demand")
	assert.Equal(t, tasks[0].FirstRelationOf("Project"), projectPages[0].ID)

	// Same project name reuses the page.
	_, err = svc.Create(ctx, "Second task", nil, "Acme")
	require.NoError(t, err)
	assert.Len(t, store.PagesIn(projectsDB), 1)
}

func TestCreateWithoutProjectOrDue(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), "Loose end", nil, "")
	require.NoError(t, err)

	tasks := store.PagesIn(tasksDB)
	require.Len(t, tasks, 1)
	assert.Equal(t, "", tasks[0].FirstRelationOf("Project"))
	_, hasDue := tasks[0].Properties["Due"]
	assert.False(t, hasDue)
	assert.Empty(t, store.PagesIn(projectsDB))
}

func TestListDue(t *testing.T) {
	store := notiontest.NewFakeStore()
	svc := newTestService(store)
	now := time.Now().UTC()

	store.Seed(tasksDB, notion.Properties{
		"Name":   notion.TitleProp("Overdue"),
		"Status": notion.SelectProp(entity.TaskStatusTodo),
		"Due":    notion.DateProp(now.Add(-24 * time.Hour)),
	})
	store.Seed(tasksDB, notion.Properties{
		"Name":   notion.TitleProp("Finished"),
		"Status": notion.SelectProp(entity.TaskStatusDone),
		"Due":    notion.DateProp(now.Add(-24 * time.Hour)),
	})
	store.Seed(tasksDB, notion.Properties{
		"Name":   notion.TitleProp("Future"),
		"Status": notion.SelectProp(entity.TaskStatusTodo),
		"Due":    notion.DateProp(now.Add(48 * time.Hour)),
	})
	store.Seed(tasksDB, notion.Properties{
		"Name":   notion.TitleProp("No deadline"),
		"Status": notion.SelectProp(entity.TaskStatusTodo),
	})

	due, err := svc.ListDue(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Overdue", due[0].Title)
	assert.NotEmpty(t, due[0].Due)
}
