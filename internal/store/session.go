// Package store defines the in-memory conversation session. One Session
// exists per chat; it is created on /start, mutated by every inbound
// message, and reset wholesale on cancel. Loss on restart is an accepted
// failure mode, so nothing here is persisted.
package store

import (
	"time"

	"catalog-assistant/internal/capture"
	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/entity"
)

// State names every node of the conversation machine. States are explicit
// values, never derived arithmetically.
type State string

const (
	StateMenu State = "MENU"

	// Tree building
	StateAddCategory         State = "ADD_CATEGORY"
	StateAddSubPickParent    State = "ADD_SUB_PICK_PARENT"
	StateAddSubName          State = "ADD_SUB_NAME"
	StateAddTopicPickCat     State = "ADD_TOPIC_PICK_CAT"
	StateAddTopicPickSub     State = "ADD_TOPIC_PICK_SUB"
	StateAddTopicName        State = "ADD_TOPIC_NAME"
	StateAddSubtopicPickCat  State = "ADD_SUBTOPIC_PICK_CAT"
	StateAddSubtopicPickSub  State = "ADD_SUBTOPIC_PICK_SUB"
	StateAddSubtopicPickTop  State = "ADD_SUBTOPIC_PICK_TOPIC"
	StateAddSubtopicName     State = "ADD_SUBTOPIC_NAME"

	// Note capture
	StateNotePickCategory State = "NOTE_PICK_CATEGORY"
	StateNoteDescend      State = "NOTE_DESCEND"
	StateNoteCollect      State = "NOTE_COLLECT"

	// Tasks
	StateTaskTitle   State = "TASK_TITLE"
	StateTaskDue     State = "TASK_DUE"
	StateTaskProject State = "TASK_PROJECT"

	// Time tracking
	StateTimeProject  State = "TIME_PROJECT"
	StateTimeDuration State = "TIME_DURATION"
	StateTimeNote     State = "TIME_NOTE"

	// Search
	StateSearchQuery State = "SEARCH_QUERY"
)

// TaskDraft buffers the task workflow's intermediate answers.
type TaskDraft struct {
	Title string
	Due   *time.Time
}

// TimeDraft buffers the time workflow's intermediate answers.
type TimeDraft struct {
	Project string
	Minutes int
}

// Session is the per-chat conversation state.
type Session struct {
	ChatID int64
	State  State

	// Offered holds the list presented by the last pick step; replies are
	// matched against it. Labels is the rendered keyboard for re-prompts.
	Offered []*entity.CatalogNode
	Labels  []string

	// Descent drives skip-aware movement through the middle tree levels.
	Descent *catalog.Descent

	// ParentFinal is the resolved parent a Build flow will attach the new
	// node to.
	ParentFinal *entity.CatalogNode

	Capture *capture.Buffer
	Task    TaskDraft
	Time    TimeDraft
}

func NewSession(chatID int64) *Session {
	return &Session{ChatID: chatID, State: StateMenu}
}

// Reset returns to the menu and discards every in-progress buffer. Cancel is
// a full reset, not a partial rollback.
func (s *Session) Reset() {
	s.State = StateMenu
	s.Offered = nil
	s.Labels = nil
	s.Descent = nil
	s.ParentFinal = nil
	s.Capture = nil
	s.Task = TaskDraft{}
	s.Time = TimeDraft{}
}

// FindOffered matches a reply against the last offered list.
func (s *Session) FindOffered(name string) *entity.CatalogNode {
	for _, n := range s.Offered {
		if n.Name == name {
			return n
		}
	}
	return nil
}
