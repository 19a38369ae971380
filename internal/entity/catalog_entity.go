package entity

// Level is the depth of a node in the knowledge tree. The remote store keeps
// it as a select property, so the values double as the select option names.
type Level string

const (
	LevelCategory    Level = "Category"
	LevelSubcategory Level = "Subcategory"
	LevelTopic       Level = "Topic"
	LevelSubtopic    Level = "Subtopic"
)

// Levels is ordered root-first. A node's parent chain is exactly as long as
// its index here.
var Levels = [...]Level{LevelCategory, LevelSubcategory, LevelTopic, LevelSubtopic}

func (l Level) Index() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}

// Next returns the level one step deeper, or false at Subtopic.
func (l Level) Next() (Level, bool) {
	i := l.Index()
	if i < 0 || i+1 >= len(Levels) {
		return "", false
	}
	return Levels[i+1], true
}

func (l Level) String() string { return string(l) }

// CatalogNode is one node of the knowledge tree. Ids are opaque page ids
// assigned by the remote store. Names are labels, not keys: the store does
// not enforce uniqueness.
type CatalogNode struct {
	Id       string
	Name     string
	Level    Level
	ParentId string // empty for Category
}
