package notion

import (
	"encoding/json"
)

// PropertyType is the discriminant of a page property value.
type PropertyType string

// Property types understood by the content pipeline. Any other type is
// carried through untouched and ignored by the extractors.
const (
	PropertyTitle       PropertyType = "title"
	PropertyRichText    PropertyType = "rich_text"
	PropertyCheckbox    PropertyType = "checkbox"
	PropertyDate        PropertyType = "date"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertySelect      PropertyType = "select"
)

// Page is a database row as returned by the pages and query endpoints.
type Page struct {
	Object         string              `json:"object"`
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	URL            string              `json:"url"`
	Archived       bool                `json:"archived"`
	Properties     map[string]Property `json:"properties"`
	Cover          *Cover              `json:"cover"`
}

// Property is a tagged union keyed by Type. Only the payload matching Type
// is expected to be set; the others stay nil.
type Property struct {
	ID          string         `json:"id"`
	Type        PropertyType   `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
}

// RichText is one run of formatted text.
type RichText struct {
	Type        string      `json:"type"`
	PlainText   string      `json:"plain_text"`
	Href        *string     `json:"href,omitempty"`
	Annotations Annotations `json:"annotations"`
}

// Annotations are the inline styles applied to a rich text run.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color,omitempty"`
}

// DateValue is the payload of a date property.
type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// SelectOption is a single select or multi-select option.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Cover is a page cover. Type is "file" for Notion-hosted uploads and
// "external" for linked images.
type Cover struct {
	Type     string    `json:"type"`
	File     *FileRef  `json:"file,omitempty"`
	External *External `json:"external,omitempty"`
}

// FileRef is a Notion-hosted file. The URL is signed and expires.
type FileRef struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

// External is a file hosted outside Notion.
type External struct {
	URL string `json:"url"`
}

// Database is the subset of database metadata used for diagnostics.
type Database struct {
	Object     string                    `json:"object"`
	ID         string                    `json:"id"`
	URL        string                    `json:"url"`
	Title      []RichText                `json:"title"`
	Properties map[string]SchemaProperty `json:"properties"`
}

// SchemaProperty describes one column of a database.
type SchemaProperty struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type PropertyType `json:"type"`
}

// QueryRequest is the body of a database query.
type QueryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	Sorts       []Sort  `json:"sorts,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// Filter is a single-property filter. Only checkbox conditions are used.
type Filter struct {
	Property string          `json:"property"`
	Checkbox *CheckboxFilter `json:"checkbox,omitempty"`
}

// CheckboxFilter matches a checkbox property.
type CheckboxFilter struct {
	Equals bool `json:"equals"`
}

// SortDescending orders newest first
const SortDescending = "descending"

// Sort orders query results by a property.
type Sort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

// QueryResponse is one page of database query results.
type QueryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// BlockList is one page of block children.
type BlockList struct {
	Object     string  `json:"object"`
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Block is a unit of page content. The type-specific payload, stored by the
// API under a key equal to Type, is decoded into Content.
type Block struct {
	Object      string       `json:"object"`
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	HasChildren bool         `json:"has_children"`
	Content     BlockContent `json:"-"`

	// Children is filled by the converter, never by the API.
	Children []Block `json:"-"`
}

// BlockContent is the union of the payload fields used when rendering.
type BlockContent struct {
	RichText   []RichText `json:"rich_text,omitempty"`
	Caption    []RichText `json:"caption,omitempty"`
	Checked    bool       `json:"checked,omitempty"`
	Language   string     `json:"language,omitempty"`
	Expression string     `json:"expression,omitempty"`
	Title      string     `json:"title,omitempty"`
	URL        string     `json:"url,omitempty"`
	Type       string     `json:"type,omitempty"`
	File       *FileRef   `json:"file,omitempty"`
	External   *External  `json:"external,omitempty"`
	Icon       *Icon      `json:"icon,omitempty"`
}

// Icon is a callout or page icon.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// UnmarshalJSON decodes the common block fields and the payload keyed by type.
func (b *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	var base plain
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Block(base)
	if payload, ok := raw[b.Type]; ok && len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &b.Content); err != nil {
			return err
		}
	}
	return nil
}
