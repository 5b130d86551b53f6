package service_test

import (
	"context"
	"sync"

	"github.com/notion-content-api/internal/notion"
)

type pageSpec struct {
	id        string
	title     string
	titleProp string
	published bool
	date      string
	tags      []string
	author    string
	cover     *notion.Cover
}

func buildPage(s pageSpec) notion.Page {
	published := s.published
	titleProp := s.titleProp
	if titleProp == "" {
		titleProp = "Title"
	}

	props := map[string]notion.Property{
		titleProp: {
			Type:  notion.PropertyTitle,
			Title: []notion.RichText{{Type: "text", PlainText: s.title}},
		},
		"Published": {Type: notion.PropertyCheckbox, Checkbox: &published},
	}
	if s.date != "" {
		props["Date"] = notion.Property{Type: notion.PropertyDate, Date: &notion.DateValue{Start: s.date}}
	}
	if s.tags != nil {
		opts := make([]notion.SelectOption, 0, len(s.tags))
		for _, tag := range s.tags {
			opts = append(opts, notion.SelectOption{Name: tag})
		}
		props["Tags"] = notion.Property{Type: notion.PropertyMultiSelect, MultiSelect: opts}
	}
	if s.author != "" {
		props["Author"] = notion.Property{Type: notion.PropertySelect, Select: &notion.SelectOption{Name: s.author}}
	}

	return notion.Page{
		Object:         "page",
		ID:             s.id,
		CreatedTime:    "2024-01-01T00:00:00.000Z",
		LastEditedTime: "2024-01-02T00:00:00.000Z",
		Properties:     props,
		Cover:          s.cover,
	}
}

// cancellingConverter cancels the caller's context on its first call, as a
// client disconnecting mid-request would, then serves body.
type cancellingConverter struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	body   string
	calls  int
}

func (c *cancellingConverter) ConvertBody(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	c.calls++
	first := c.calls == 1
	c.mu.Unlock()

	if first {
		c.cancel()
		return "", ctx.Err()
	}
	return c.body, nil
}
