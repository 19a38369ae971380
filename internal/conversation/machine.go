package conversation

import (
	"context"
	"strings"

	"catalog-assistant/internal/capture"
	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/notes"
	"catalog-assistant/internal/pkg/logger"
	"catalog-assistant/internal/store"
	"catalog-assistant/internal/tasks"
	"catalog-assistant/internal/timelog"
)

// Incoming is one inbound chat event, already normalised by the transport:
// attachments are resolved to durable URLs before the machine sees them.
type Incoming struct {
	ChatID  int64
	Command string // "start", "due"; empty for plain messages
	Text    string
	Caption string
	Files   []entity.FileRef
	// Unsupported marks fragment kinds the bot acknowledges but does not
	// buffer (e.g. voice without a transcription collaborator).
	Unsupported bool
}

// Reply is one outbound message. A nil Keyboard keeps whatever keyboard the
// chat currently shows.
type Reply struct {
	Text     string
	Keyboard [][]string
	Markdown bool
}

// Machine sequences the resolver, navigator and services into the
// menu-driven workflows. It is driven strictly sequentially per session: the
// transport finishes one Handle call before feeding the next event of the
// same chat.
type Machine struct {
	resolver  *catalog.Resolver
	navigator *catalog.Navigator
	notes     *notes.Service
	tasks     *tasks.Service
	timelog   *timelog.Service
	log       logger.ILogger
}

func NewMachine(
	resolver *catalog.Resolver,
	navigator *catalog.Navigator,
	noteSvc *notes.Service,
	taskSvc *tasks.Service,
	timeSvc *timelog.Service,
	log logger.ILogger,
) *Machine {
	return &Machine{
		resolver:  resolver,
		navigator: navigator,
		notes:     noteSvc,
		tasks:     taskSvc,
		timelog:   timeSvc,
		log:       log,
	}
}

// Handle processes one inbound event against the session and returns the
// replies to send. It mutates the session in place.
func (m *Machine) Handle(ctx context.Context, sess *store.Session, in Incoming) []Reply {
	switch in.Command {
	case "start":
		sess.Reset()
		return []Reply{menuReply("Ready. Pick an action from the menu 👇")}
	case "due":
		return m.handleDueCommand(ctx)
	}

	text := strings.TrimSpace(in.Text)

	// Universal cancel: from any state, back to the menu with a full reset.
	if text == BtnBack {
		sess.Reset()
		return []Reply{menuReply("Back to the menu.")}
	}

	switch sess.State {
	case store.StateMenu:
		return m.handleMenu(ctx, sess, text)

	case store.StateAddCategory:
		return m.handleAddCategory(ctx, sess, text)
	case store.StateAddSubPickParent:
		return m.handleAddSubPickParent(sess, text)
	case store.StateAddSubName:
		return m.handleAddSubName(ctx, sess, text)
	case store.StateAddTopicPickCat:
		return m.handleAddTopicPickCat(ctx, sess, text)
	case store.StateAddTopicPickSub:
		return m.handleAddTopicPickSub(sess, text)
	case store.StateAddTopicName:
		return m.handleAddTopicName(ctx, sess, text)
	case store.StateAddSubtopicPickCat:
		return m.handleAddSubtopicPickCat(ctx, sess, text)
	case store.StateAddSubtopicPickSub:
		return m.handleAddSubtopicPickSub(ctx, sess, text)
	case store.StateAddSubtopicPickTop:
		return m.handleAddSubtopicPickTop(sess, text)
	case store.StateAddSubtopicName:
		return m.handleAddSubtopicName(ctx, sess, text)

	case store.StateNotePickCategory:
		return m.handleNotePickCategory(ctx, sess, text)
	case store.StateNoteDescend:
		return m.handleNoteDescend(ctx, sess, text)
	case store.StateNoteCollect:
		return m.handleNoteCollect(ctx, sess, in, text)

	case store.StateTaskTitle:
		return m.handleTaskTitle(sess, text)
	case store.StateTaskDue:
		return m.handleTaskDue(sess, text)
	case store.StateTaskProject:
		return m.handleTaskProject(ctx, sess, text)

	case store.StateTimeProject:
		return m.handleTimeProject(sess, text)
	case store.StateTimeDuration:
		return m.handleTimeDuration(sess, text)
	case store.StateTimeNote:
		return m.handleTimeNote(ctx, sess, text)

	case store.StateSearchQuery:
		return m.handleSearch(ctx, sess, text)
	}

	sess.Reset()
	return []Reply{menuReply("Pick an action from the menu 👇")}
}

func (m *Machine) handleMenu(ctx context.Context, sess *store.Session, text string) []Reply {
	switch text {
	case BtnCategory:
		sess.State = store.StateAddCategory
		return []Reply{{Text: "Name of the new category:", Keyboard: BackKeyboard()}}

	case BtnSubcategory:
		return m.offerCategories(ctx, sess, store.StateAddSubPickParent)
	case BtnTopic:
		return m.offerCategories(ctx, sess, store.StateAddTopicPickCat)
	case BtnSubtopic:
		return m.offerCategories(ctx, sess, store.StateAddSubtopicPickCat)

	case BtnNote:
		return m.startNote(ctx, sess)
	case BtnQuickNote:
		return m.startQuickNote(ctx, sess)

	case BtnTask:
		if !m.tasks.Configured() {
			return []Reply{menuReply("The Tasks database is not connected. Set TASKS_DB_ID.")}
		}
		sess.State = store.StateTaskTitle
		return []Reply{{Text: "Task title:", Keyboard: BackKeyboard()}}

	case BtnTime:
		if !m.timelog.Configured() {
			return []Reply{menuReply("The TimeLog/Projects databases are not connected. Set TIMELOG_DB_ID and PROJECTS_DB_ID.")}
		}
		sess.State = store.StateTimeProject
		return []Reply{{Text: "Which project is the time for?", Keyboard: BackKeyboard()}}

	case BtnStats:
		return m.handleStats(ctx, sess)

	case BtnSearch:
		sess.State = store.StateSearchQuery
		return []Reply{{Text: "Enter a phrase or a #tag:", Keyboard: BackKeyboard()}}

	case BtnHelp:
		return []Reply{menuReply(helpText)}

	case BtnCancel:
		sess.Reset()
		return []Reply{menuReply("Cancelled.")}
	}

	return []Reply{menuReply("Pick an action from the menu 👇")}
}

// offerCategories loads the root level and moves to a pick-parent state.
func (m *Machine) offerCategories(ctx context.Context, sess *store.Session, next store.State) []Reply {
	cats, err := m.navigator.ListChildren(ctx, entity.LevelCategory, "")
	if err != nil {
		return m.remoteFailure(sess, "listing categories", err)
	}
	if len(cats) == 0 {
		return []Reply{menuReply("No categories yet. Create a «Category» first.")}
	}
	sess.Offered = cats
	sess.Labels = nodeNames(cats)
	sess.State = next
	return []Reply{{Text: pickPrompt(entity.LevelCategory), Keyboard: ListKeyboard(sess.Labels)}}
}

func (m *Machine) handleStats(ctx context.Context, sess *store.Session) []Reply {
	if !m.timelog.Configured() {
		return []Reply{menuReply("The TimeLog/Projects databases are not connected. Set TIMELOG_DB_ID and PROJECTS_DB_ID.")}
	}
	totals, err := m.timelog.Stats(ctx, timelog.PeriodWeek)
	if err != nil {
		return m.remoteFailure(sess, "loading stats", err)
	}
	return []Reply{{
		Text:     "This week:\n" + timelog.BarChart(totals),
		Keyboard: MainKeyboard(),
		Markdown: true,
	}}
}

func (m *Machine) handleDueCommand(ctx context.Context) []Reply {
	if !m.tasks.Configured() {
		return []Reply{menuReply("The Tasks database is not connected. Set TASKS_DB_ID.")}
	}
	due, err := m.tasks.ListDue(ctx)
	if err != nil {
		m.log.Error("conversation", "listing due tasks failed", map[string]interface{}{"error": err.Error()})
		return []Reply{menuReply("❌ Could not load due tasks.")}
	}
	if len(due) == 0 {
		return []Reply{menuReply("Nothing is due. 🎉")}
	}
	var b strings.Builder
	b.WriteString("Due tasks:\n")
	for _, t := range due {
		b.WriteString("• " + t.Title)
		if t.Due != "" {
			b.WriteString(" (" + t.Due + ")")
		}
		b.WriteString("\n")
	}
	return []Reply{menuReply(strings.TrimRight(b.String(), "\n"))}
}

// remoteFailure aborts the current step: the user gets a failure message and
// lands back in the menu. No partial workflow survives in session state; a
// node already created by an earlier sub-step stays in the store (there are
// no transactions to roll it back).
func (m *Machine) remoteFailure(sess *store.Session, action string, err error) []Reply {
	m.log.Error("conversation", "remote store call failed", map[string]interface{}{
		"action": action, "error": err.Error(),
	})
	sess.Reset()
	return []Reply{menuReply("❌ The knowledge store is unreachable right now. Try again in a moment.")}
}

func menuReply(text string) Reply {
	return Reply{Text: text, Keyboard: MainKeyboard()}
}

// startNote begins the guided capture: offer the category list, or fall
// back to Inbox when the tree is still empty.
func (m *Machine) startNote(ctx context.Context, sess *store.Session) []Reply {
	cats, err := m.navigator.ListChildren(ctx, entity.LevelCategory, "")
	if err != nil {
		return m.remoteFailure(sess, "listing categories", err)
	}
	if len(cats) == 0 {
		inbox, err := m.resolver.EnsureInbox(ctx)
		if err != nil {
			return m.remoteFailure(sess, "resolving inbox", err)
		}
		m.beginCollect(sess, inbox.Id)
		return []Reply{
			{Text: "No categories yet — capturing straight to Inbox."},
			collectPrompt(),
		}
	}
	sess.Offered = cats
	sess.Labels = nodeNames(cats)
	sess.State = store.StateNotePickCategory
	return []Reply{{Text: pickPrompt(entity.LevelCategory), Keyboard: ListKeyboard(sess.Labels)}}
}

func (m *Machine) startQuickNote(ctx context.Context, sess *store.Session) []Reply {
	inbox, err := m.resolver.EnsureInbox(ctx)
	if err != nil {
		return m.remoteFailure(sess, "resolving inbox", err)
	}
	m.beginCollect(sess, inbox.Id)
	return []Reply{collectPrompt()}
}

func (m *Machine) beginCollect(sess *store.Session, inboxID string) {
	sess.Capture = capture.NewBuffer()
	sess.Capture.SetPath(entity.LevelCategory, inboxID)
	sess.State = store.StateNoteCollect
}

func collectPrompt() Reply {
	return Reply{
		Text:     "Send any number of texts, photos or files, then press «" + BtnDone + "».",
		Keyboard: CollectKeyboard(),
	}
}
