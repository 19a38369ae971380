package conversation

import (
	"context"
	"fmt"
	"strings"

	"catalog-assistant/internal/capture"
	"catalog-assistant/internal/entity"
	"catalog-assistant/internal/pkg/apperror"
	"catalog-assistant/internal/store"
	"catalog-assistant/internal/tasks"
	"catalog-assistant/internal/timelog"
)

// skipEntry is the conventional "leave empty" reply for optional free-text
// steps (a chat message cannot be empty).
const skipEntry = "-"

// --- tree building ---

func (m *Machine) handleAddCategory(ctx context.Context, sess *store.Session, text string) []Reply {
	node, err := m.resolver.EnsureNode(ctx, text, entity.LevelCategory, "")
	if err != nil {
		return m.remoteFailure(sess, "creating category", err)
	}
	sess.Reset()
	return []Reply{confirmReply("✅ Category: *%s*", node.Name)}
}

func (m *Machine) handleAddSubPickParent(sess *store.Session, text string) []Reply {
	parent := sess.FindOffered(text)
	if parent == nil {
		return m.repromptList(sess, "Pick one of the offered options.")
	}
	sess.ParentFinal = parent
	sess.State = store.StateAddSubName
	return []Reply{{
		Text:     fmt.Sprintf("Name of the subcategory for «%s»:", parent.Name),
		Keyboard: BackKeyboard(),
	}}
}

func (m *Machine) handleAddSubName(ctx context.Context, sess *store.Session, text string) []Reply {
	node, err := m.resolver.EnsureNode(ctx, text, entity.LevelSubcategory, sess.ParentFinal.Id)
	if err != nil {
		return m.remoteFailure(sess, "creating subcategory", err)
	}
	sess.Reset()
	return []Reply{confirmReply("✅ Subcategory: *%s*", node.Name)}
}

func (m *Machine) handleAddTopicPickCat(ctx context.Context, sess *store.Session, text string) []Reply {
	cat := sess.FindOffered(text)
	if cat == nil {
		return m.repromptList(sess, "Pick one of the offered options.")
	}
	sess.ParentFinal = cat
	sess.Descent = m.navigator.StartDescent(entity.LevelSubcategory, cat.Id)
	return m.offerDescent(ctx, sess, store.StateAddTopicPickSub)
}

func (m *Machine) handleAddTopicPickSub(sess *store.Session, text string) []Reply {
	node, err := sess.Descent.Choose(text)
	if err != nil {
		return m.repromptList(sess, "Pick one of the offered options.")
	}
	if node != nil {
		sess.ParentFinal = node
	}
	sess.State = store.StateAddTopicName
	return []Reply{{
		Text:     fmt.Sprintf("Name of the *Topic* for «%s»:", sess.ParentFinal.Name),
		Keyboard: BackKeyboard(),
		Markdown: true,
	}}
}

func (m *Machine) handleAddTopicName(ctx context.Context, sess *store.Session, text string) []Reply {
	node, err := m.resolver.EnsureNode(ctx, text, entity.LevelTopic, sess.ParentFinal.Id)
	if err != nil {
		return m.remoteFailure(sess, "creating topic", err)
	}
	sess.Reset()
	return []Reply{confirmReply("✅ Topic: *%s*", node.Name)}
}

func (m *Machine) handleAddSubtopicPickCat(ctx context.Context, sess *store.Session, text string) []Reply {
	cat := sess.FindOffered(text)
	if cat == nil {
		return m.repromptList(sess, "Pick one of the offered options.")
	}
	sess.ParentFinal = cat
	sess.Descent = m.navigator.StartDescent(entity.LevelSubcategory, cat.Id)
	return m.offerDescent(ctx, sess, store.StateAddSubtopicPickSub)
}

func (m *Machine) handleAddSubtopicPickSub(ctx context.Context, sess *store.Session, text string) []Reply {
	node, err := sess.Descent.Choose(text)
	if err != nil {
		return m.repromptList(sess, "Pick one of the offered options.")
	}
	if node != nil {
		sess.ParentFinal = node
	}
	return m.offerDescent(ctx, sess, store.StateAddSubtopicPickTop)
}

func (m *Machine) handleAddSubtopicPickTop(sess *store.Session, text string) []Reply {
	node, err := sess.Descent.Choose(text)
	if err != nil {
		return m.repromptList(sess, "Pick one of the offered options.")
	}
	if node != nil {
		sess.ParentFinal = node
	}
	sess.State = store.StateAddSubtopicName
	return []Reply{{
		Text:     fmt.Sprintf("Name of the *Subtopic* for «%s»:", sess.ParentFinal.Name),
		Keyboard: BackKeyboard(),
		Markdown: true,
	}}
}

func (m *Machine) handleAddSubtopicName(ctx context.Context, sess *store.Session, text string) []Reply {
	node, err := m.resolver.EnsureNode(ctx, text, entity.LevelSubtopic, sess.ParentFinal.Id)
	if err != nil {
		return m.remoteFailure(sess, "creating subtopic", err)
	}
	sess.Reset()
	return []Reply{confirmReply("✅ Subtopic: *%s*", node.Name)}
}

// offerDescent fetches the next level's options and prompts for them.
func (m *Machine) offerDescent(ctx context.Context, sess *store.Session, next store.State) []Reply {
	labels, err := sess.Descent.Options(ctx)
	if err != nil {
		return m.remoteFailure(sess, "listing tree level", err)
	}
	sess.Labels = labels
	sess.State = next
	return []Reply{{Text: pickPrompt(sess.Descent.Level()), Keyboard: ListKeyboard(labels)}}
}

// repromptList repeats the current step's options after an invalid reply.
// No state transition happens.
func (m *Machine) repromptList(sess *store.Session, text string) []Reply {
	return []Reply{{Text: text, Keyboard: ListKeyboard(sess.Labels)}}
}

func confirmReply(format string, args ...interface{}) Reply {
	return Reply{Text: fmt.Sprintf(format, args...), Keyboard: MainKeyboard(), Markdown: true}
}

// --- note capture ---

func (m *Machine) handleNotePickCategory(ctx context.Context, sess *store.Session, text string) []Reply {
	cat := sess.FindOffered(text)
	if cat == nil {
		return m.repromptList(sess, "Pick one of the offered options.")
	}
	sess.Capture = capture.NewBuffer()
	sess.Capture.SetPath(entity.LevelCategory, cat.Id)
	sess.Descent = m.navigator.StartDescent(entity.LevelSubcategory, cat.Id)
	return m.offerDescent(ctx, sess, store.StateNoteDescend)
}

func (m *Machine) handleNoteDescend(ctx context.Context, sess *store.Session, text string) []Reply {
	node, err := sess.Descent.Choose(text)
	if err != nil {
		return m.repromptList(sess, "Pick one of the offered options.")
	}
	if node != nil {
		sess.Capture.SetPath(node.Level, node.Id)
	}
	if sess.Descent.Done() {
		sess.State = store.StateNoteCollect
		return []Reply{collectPrompt()}
	}
	return m.offerDescent(ctx, sess, store.StateNoteDescend)
}

func (m *Machine) handleNoteCollect(ctx context.Context, sess *store.Session, in Incoming, text string) []Reply {
	if text == BtnDone {
		return m.commitCapture(ctx, sess)
	}

	if len(in.Files) > 0 {
		for _, f := range in.Files {
			sess.Capture.AppendFile(f.Name, f.URL)
		}
		if in.Caption != "" {
			sess.Capture.AppendText(in.Caption)
		}
		return nil
	}

	if in.Unsupported {
		return []Reply{{Text: "Got it. Add more or press «" + BtnDone + "»."}}
	}

	if text != "" {
		sess.Capture.AppendText(text)
	}
	return nil
}

// commitCapture submits the buffered note. Buffers are discarded whether or
// not the submission succeeds: a failed commit is terminal for this capture.
func (m *Machine) commitCapture(ctx context.Context, sess *store.Session) []Reply {
	buf := sess.Capture
	sess.Reset()
	if buf == nil {
		return []Reply{menuReply("Nothing to save.")}
	}
	if _, err := m.notes.CreateFromCapture(ctx, buf); err != nil {
		m.log.Error("conversation", "note commit failed", map[string]interface{}{"error": err.Error()})
		return []Reply{menuReply("❌ Could not save the note.")}
	}
	return []Reply{menuReply("✅ Note saved.")}
}

// --- tasks ---

func (m *Machine) handleTaskTitle(sess *store.Session, text string) []Reply {
	sess.Task.Title = text
	sess.State = store.StateTaskDue
	return []Reply{{
		Text:     "Due date (YYYY-MM-DD or YYYY-MM-DD HH:MM), or «" + skipEntry + "» for none:",
		Keyboard: BackKeyboard(),
	}}
}

func (m *Machine) handleTaskDue(sess *store.Session, text string) []Reply {
	input := text
	if input == skipEntry {
		input = ""
	}
	due, err := tasks.ParseDue(input)
	if err != nil {
		if apperror.IsValidation(err) {
			return []Reply{{Text: "Bad format. Example: 2025-08-15 14:30 or 2025-08-15."}}
		}
		return m.remoteFailure(sess, "parsing due date", err)
	}
	sess.Task.Due = due
	sess.State = store.StateTaskProject
	return []Reply{{
		Text:     "Project (optional), or «" + skipEntry + "»:",
		Keyboard: BackKeyboard(),
	}}
}

func (m *Machine) handleTaskProject(ctx context.Context, sess *store.Session, text string) []Reply {
	project := text
	if project == skipEntry {
		project = ""
	}
	title, due := sess.Task.Title, sess.Task.Due
	sess.Reset()
	if _, err := m.tasks.Create(ctx, title, due, project); err != nil {
		m.log.Error("conversation", "task create failed", map[string]interface{}{"error": err.Error()})
		return []Reply{menuReply("❌ Could not create the task.")}
	}
	return []Reply{menuReply("✅ Task created.")}
}

// --- time tracking ---

func (m *Machine) handleTimeProject(sess *store.Session, text string) []Reply {
	sess.Time.Project = text
	sess.State = store.StateTimeDuration
	return []Reply{{
		Text:     "Duration (e.g. 4h, 30m, 1:20):",
		Keyboard: BackKeyboard(),
	}}
}

func (m *Machine) handleTimeDuration(sess *store.Session, text string) []Reply {
	minutes, err := timelog.ParseDuration(text)
	if err != nil {
		return []Reply{{Text: "Bad format. Examples: 4h, 30m, 1:20, 90."}}
	}
	sess.Time.Minutes = minutes
	sess.State = store.StateTimeNote
	return []Reply{{
		Text:     "Note (optional), or «" + skipEntry + "»:",
		Keyboard: BackKeyboard(),
	}}
}

func (m *Machine) handleTimeNote(ctx context.Context, sess *store.Session, text string) []Reply {
	note := text
	if note == skipEntry {
		note = ""
	}
	project, minutes := sess.Time.Project, sess.Time.Minutes
	sess.Reset()
	if _, err := m.timelog.Add(ctx, project, minutes, note); err != nil {
		m.log.Error("conversation", "time log failed", map[string]interface{}{"error": err.Error()})
		return []Reply{menuReply("❌ Could not record the time.")}
	}
	return []Reply{menuReply("✅ Time recorded.")}
}

// --- search ---

func (m *Machine) handleSearch(ctx context.Context, sess *store.Session, text string) []Reply {
	results, err := m.notes.Search(ctx, text)
	if err != nil {
		return m.remoteFailure(sess, "searching notes", err)
	}
	sess.Reset()
	if len(results) == 0 {
		return []Reply{menuReply("Nothing found.")}
	}
	lines := make([]string, 0, len(results))
	for _, r := range results {
		line := "• *" + r.Title + "*"
		if r.Snippet != "" {
			line += "\n`" + r.Snippet + "`"
		}
		lines = append(lines, line)
	}
	return []Reply{{
		Text:     strings.Join(lines, "\n\n"),
		Keyboard: MainKeyboard(),
		Markdown: true,
	}}
}
