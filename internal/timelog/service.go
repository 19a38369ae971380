package timelog

import (
	"context"
	"time"

	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/projects"
)

// TimeLog database schema.
const (
	propDate    = "Date"
	propProject = "Project"
	propMinutes = "Minutes"
	propNote    = "Note"
)

const statsPageSize = 100

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// unlabeled groups entries whose project relation is missing.
const unlabeled = "No project"

type Service struct {
	gw         notion.Gateway
	databaseID string
	projects   *projects.Resolver
}

func NewService(gw notion.Gateway, databaseID string, projects *projects.Resolver) *Service {
	return &Service{gw: gw, databaseID: databaseID, projects: projects}
}

func (s *Service) Configured() bool {
	return s.databaseID != "" && s.projects.Configured()
}

// Add records minutes against a project (created on demand) for today.
func (s *Service) Add(ctx context.Context, projectName string, minutes int, note string) (string, error) {
	projectID, err := s.projects.EnsureProject(ctx, projectName)
	if err != nil {
		return "", err
	}
	props := notion.Properties{
		propDate:    notion.DateOnlyProp(time.Now()),
		propProject: notion.RelationProp(projectID),
		propMinutes: notion.NumberProp(float64(minutes)),
	}
	if note != "" {
		props[propNote] = notion.RichTextProp(note)
	}
	page, err := s.gw.CreatePage(ctx, s.databaseID, props, nil)
	if err != nil {
		return "", err
	}
	return page.ID, nil
}

// Stats sums logged minutes per project name since the period start
// (today / Monday / first of month).
func (s *Service) Stats(ctx context.Context, period Period) (map[string]int, error) {
	start := periodStart(time.Now(), period)
	pages, err := s.gw.Query(ctx, s.databaseID,
		notion.DateOnOrAfter(propDate, start.Format("2006-01-02")), statsPageSize)
	if err != nil {
		return nil, err
	}

	names, err := s.projects.Names(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for _, p := range pages {
		minutes := int(p.NumberOf(propMinutes))
		label := unlabeled
		if id := p.FirstRelationOf(propProject); id != "" {
			if name, ok := names[id]; ok && name != "" {
				label = name
			} else {
				label = id
			}
		}
		totals[label] += minutes
	}
	return totals, nil
}

func periodStart(now time.Time, period Period) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodToday:
		return midnight
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default: // week, Monday start
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return midnight.AddDate(0, 0, -(weekday - 1))
	}
}
