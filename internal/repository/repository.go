package repository

import (
	"context"
	"errors"

	"github.com/notion-content-api/internal/config"
	"github.com/notion-content-api/internal/metrics"
	"github.com/notion-content-api/internal/notion"
	"github.com/rs/zerolog"
)

var (
	// ErrSourceUnavailable wraps any transport, authorization, rate limit or
	// server failure reported by the content source.
	ErrSourceUnavailable = errors.New("content source unavailable")

	// ErrRecordNotFound is returned when the requested page does not exist or
	// is not shared with the integration.
	ErrRecordNotFound = errors.New("record not found")
)

// PageRepository is the only boundary to the content source
type PageRepository interface {
	// ListPublished returns every published page, most recent first.
	ListPublished(ctx context.Context) ([]notion.Page, error)
	// GetByID retrieves a single page regardless of its published flag.
	GetByID(ctx context.Context, id string) (*notion.Page, error)
	// ConvertBody renders the page's content blocks as Markdown.
	ConvertBody(ctx context.Context, id string) (string, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Pages PageRepository
}

// New creates all repositories backed by the Notion API
func New(client *notion.Client, cfg *config.NotionConfig, m *metrics.Collector, log zerolog.Logger) *Repositories {
	return &Repositories{
		Pages: NewNotionPageRepository(client, notion.NewMarkdownConverter(client), cfg.DatabaseID, m, log),
	}
}
