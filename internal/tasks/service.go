package tasks

import (
	"context"
	"time"

	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/pkg/apperror"
	"catalog-assistant/internal/projects"
)

// Tasks database schema.
const (
	propName    = "Name"
	propStatus  = "Status"
	propDue     = "Due"
	propProject = "Project"
	propCreated = "Created"
)

const dueListLimit = 10

type Service struct {
	gw         notion.Gateway
	databaseID string
	projects   *projects.Resolver
}

func NewService(gw notion.Gateway, databaseID string, projects *projects.Resolver) *Service {
	return &Service{gw: gw, databaseID: databaseID, projects: projects}
}

func (s *Service) Configured() bool { return s.databaseID != "" }

// ParseDue accepts "YYYY-MM-DD" or "YYYY-MM-DD HH:MM"; an empty string means
// no deadline.
func ParseDue(input string) (*time.Time, error) {
	if input == "" {
		return nil, nil
	}
	if len(input) <= 10 {
		t, err := time.Parse("2006-01-02", input)
		if err != nil {
			return nil, apperror.NewValidation("bad date, expected e.g. 2025-08-15 or 2025-08-15 14:30")
		}
		return &t, nil
	}
	t, err := time.Parse("2006-01-02 15:04", input)
	if err != nil {
		return nil, apperror.NewValidation("bad date, expected e.g. 2025-08-15 or 2025-08-15 14:30")
	}
	return &t, nil
}

// Create stores a new Todo task, resolving the optional project by name.
func (s *Service) Create(ctx context.Context, title string, due *time.Time, projectName string) (string, error) {
	props := notion.Properties{
		propName:    notion.TitleProp(title),
		propStatus:  notion.SelectProp(entity.TaskStatusTodo),
		propCreated: notion.DateProp(time.Now()),
	}
	if due != nil {
		props[propDue] = notion.DateProp(*due)
	}
	if projectName != "" && s.projects.Configured() {
		projectID, err := s.projects.EnsureProject(ctx, projectName)
		if err != nil {
			return "", err
		}
		props[propProject] = notion.RelationProp(projectID)
	}
	page, err := s.gw.CreatePage(ctx, s.databaseID, props, nil)
	if err != nil {
		return "", err
	}
	return page.ID, nil
}

// DueTask is a task that is not Done and due on or before now.
type DueTask struct {
	Title string
	Due   string
}

func (s *Service) ListDue(ctx context.Context) ([]DueTask, error) {
	filter := notion.And(
		notion.SelectNotEquals(propStatus, entity.TaskStatusDone),
		notion.DateOnOrBefore(propDue, time.Now().UTC().Format(time.RFC3339)),
	)
	pages, err := s.gw.Query(ctx, s.databaseID, filter, dueListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]DueTask, 0, len(pages))
	for _, p := range pages {
		task := DueTask{Title: p.TitleOf(propName)}
		if pv, ok := p.Properties[propDue]; ok && pv.Date != nil {
			task.Due = pv.Date.Start
		}
		out = append(out, task)
	}
	return out, nil
}
