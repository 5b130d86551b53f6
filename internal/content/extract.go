// Package content holds the total functions that turn loosely typed Notion
// properties into post fields. None of them fail: a missing property, a
// renamed column or a changed property type yields the field's default.
package content

import (
	"time"

	"github.com/notion-content-api/internal/notion"
)

// ISOTimeFormat matches the timestamps Notion itself emits.
const ISOTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Lookup returns the first property present under one of names.
func Lookup(props map[string]notion.Property, names ...string) *notion.Property {
	for _, name := range names {
		if p, ok := props[name]; ok {
			return &p
		}
	}
	return nil
}

// PlainText joins the plain text of every run in order.
func PlainText(runs []notion.RichText) string {
	return notion.PlainText(runs)
}

// TitleText returns the text of a title or rich text property.
func TitleText(p *notion.Property) string {
	if p == nil {
		return ""
	}
	switch p.Type {
	case notion.PropertyTitle:
		return PlainText(p.Title)
	case notion.PropertyRichText:
		return PlainText(p.RichText)
	}
	return ""
}

// Tags returns multi-select option names in source order.
func Tags(p *notion.Property) []string {
	if p == nil || p.Type != notion.PropertyMultiSelect {
		return []string{}
	}
	tags := make([]string, 0, len(p.MultiSelect))
	for _, opt := range p.MultiSelect {
		tags = append(tags, opt.Name)
	}
	return tags
}

// Checkbox returns the value of a checkbox property, false otherwise.
func Checkbox(p *notion.Property) bool {
	if p == nil || p.Type != notion.PropertyCheckbox || p.Checkbox == nil {
		return false
	}
	return *p.Checkbox
}

// DateStart returns the start of a date property. When the property is
// missing or empty, the current UTC time from now is formatted with
// ISOTimeFormat instead.
func DateStart(p *notion.Property, now func() time.Time) string {
	if p == nil || p.Type != notion.PropertyDate || p.Date == nil || p.Date.Start == "" {
		if now == nil {
			now = time.Now
		}
		return now().UTC().Format(ISOTimeFormat)
	}
	return p.Date.Start
}

// SelectName returns the selected option of a select property.
func SelectName(p *notion.Property) string {
	if p == nil || p.Type != notion.PropertySelect || p.Select == nil {
		return ""
	}
	return p.Select.Name
}

// CoverURL returns the image URL of a page cover.
func CoverURL(cover *notion.Cover) (string, bool) {
	if cover == nil {
		return "", false
	}
	switch cover.Type {
	case "file":
		if cover.File != nil && cover.File.URL != "" {
			return cover.File.URL, true
		}
	case "external":
		if cover.External != nil && cover.External.URL != "" {
			return cover.External.URL, true
		}
	}
	return "", false
}
