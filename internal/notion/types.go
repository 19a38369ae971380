package notion

// Wire types shared by the read and write sides of the store API. The same
// structs marshal into create/patch payloads and unmarshal query results;
// omitempty keeps the payloads minimal.

type Page struct {
	ID         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

type PropertyValue struct {
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Relation    []RelationRef  `json:"relation,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	URL         string         `json:"url,omitempty"`
	Files       []FileValue    `json:"files,omitempty"`
}

type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type RelationRef struct {
	ID string `json:"id"`
}

type DateValue struct {
	Start string `json:"start"`
}

type FileValue struct {
	Name     string        `json:"name,omitempty"`
	Type     string        `json:"type,omitempty"`
	External *ExternalLink `json:"external,omitempty"`
	File     *HostedLink   `json:"file,omitempty"`
}

type ExternalLink struct {
	URL string `json:"url"`
}

type HostedLink struct {
	URL string `json:"url"`
}

// ExternalFile is the gateway-level handle for an attachment hosted outside
// the store.
type ExternalFile struct {
	Name string
	URL  string
}

// --- read helpers ---

// TitleOf returns the plain text of a title property, or "" when unset.
func (p Page) TitleOf(prop string) string {
	pv, ok := p.Properties[prop]
	if !ok || len(pv.Title) == 0 {
		return ""
	}
	return richTextPlain(pv.Title[0])
}

// RichTextOf returns the plain text of the first rich text run.
func (p Page) RichTextOf(prop string) string {
	pv, ok := p.Properties[prop]
	if !ok || len(pv.RichText) == 0 {
		return ""
	}
	return richTextPlain(pv.RichText[0])
}

// SelectOf returns the selected option name, or "".
func (p Page) SelectOf(prop string) string {
	pv, ok := p.Properties[prop]
	if !ok || pv.Select == nil {
		return ""
	}
	return pv.Select.Name
}

// FirstRelationOf returns the id of the first related page, or "".
func (p Page) FirstRelationOf(prop string) string {
	pv, ok := p.Properties[prop]
	if !ok || len(pv.Relation) == 0 {
		return ""
	}
	return pv.Relation[0].ID
}

// NumberOf returns a number property, or 0 when unset.
func (p Page) NumberOf(prop string) float64 {
	pv, ok := p.Properties[prop]
	if !ok || pv.Number == nil {
		return 0
	}
	return *pv.Number
}

func richTextPlain(rt RichText) string {
	if rt.PlainText != "" {
		return rt.PlainText
	}
	if rt.Text != nil {
		return rt.Text.Content
	}
	return ""
}
