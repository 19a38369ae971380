package conversation

import (
	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/entity"
)

// Menu and control labels. The machine matches user replies against these
// exact strings, so they are the single source of truth for the keyboards.
const (
	BtnCategory    = "Category"
	BtnSubcategory = "Subcategory"
	BtnTopic       = "Topic"
	BtnSubtopic    = "Subtopic"
	BtnNote        = "Note"
	BtnQuickNote   = "Quick note"
	BtnTask        = "Task"
	BtnTime        = "Time"
	BtnStats       = "Stats"
	BtnSearch      = "Search"
	BtnHelp        = "Help"
	BtnCancel      = "Cancel"

	BtnDone = "Done"
	BtnBack = "⬅️ Back to menu"
)

func MainKeyboard() [][]string {
	return [][]string{
		{BtnCategory, BtnSubcategory},
		{BtnTopic, BtnSubtopic},
		{BtnNote, BtnQuickNote},
		{BtnTask, BtnTime, BtnStats},
		{BtnSearch, BtnHelp, BtnCancel},
	}
}

func BackKeyboard() [][]string {
	return [][]string{{BtnBack}}
}

// ListKeyboard renders one option per row, back row last.
func ListKeyboard(labels []string) [][]string {
	rows := make([][]string, 0, len(labels)+1)
	for _, l := range labels {
		rows = append(rows, []string{l})
	}
	rows = append(rows, []string{BtnBack})
	return rows
}

func CollectKeyboard() [][]string {
	return [][]string{{BtnDone}, {BtnBack}}
}

func pickPrompt(level entity.Level) string {
	switch level {
	case entity.LevelSubcategory:
		return "Pick a subcategory (or skip):"
	case entity.LevelTopic:
		return "Pick a topic (or skip):"
	case entity.LevelSubtopic:
		return "Pick a subtopic (or skip):"
	default:
		return "Pick a category:"
	}
}

// nodeNames extracts keyboard labels in list order.
func nodeNames(nodes []*entity.CatalogNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

const helpText = `• Tree: Category → Subcategory → Topic → Subtopic.
• Note: pick the levels → send any number of texts/photos/files → «Done».
• Quick note: everything goes straight to Inbox.
• Task: title → due date (YYYY-MM-DD HH:MM, or «-») → project (or «-»).
• Time: project → duration (4h, 30m, 1:20) → note (or «-»).
• Search: a phrase or a #tag. Skip label inside lists: ` + catalog.SkipLabel + `.`
