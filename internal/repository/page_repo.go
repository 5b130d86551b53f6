package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notion-content-api/internal/metrics"
	"github.com/notion-content-api/internal/notion"
	"github.com/rs/zerolog"
)

// Database property names the query depends on
const (
	PublishedProperty = "Published"
	DateProperty      = "Date"
)

// Operation labels used for logging and metrics
const (
	opListPublished = "list_published"
	opGetByID       = "get_by_id"
	opConvertBody   = "convert_body"
)

type pageQuerier interface {
	QueryDatabase(ctx context.Context, databaseID string, req *notion.QueryRequest) (*notion.QueryResponse, error)
	RetrievePage(ctx context.Context, pageID string) (*notion.Page, error)
}

type markdownConverter interface {
	PageToMarkdown(ctx context.Context, pageID string) (string, error)
}

type notionPageRepository struct {
	client     pageQuerier
	converter  markdownConverter
	databaseID string
	metrics    *metrics.Collector
	log        zerolog.Logger
}

// NewNotionPageRepository creates a PageRepository over one Notion database
func NewNotionPageRepository(client pageQuerier, converter markdownConverter, databaseID string, m *metrics.Collector, log zerolog.Logger) PageRepository {
	return &notionPageRepository{
		client:     client,
		converter:  converter,
		databaseID: databaseID,
		metrics:    m,
		log:        log.With().Str("component", "page_repository").Logger(),
	}
}

// PublishedQuery is the query issued for the published listing: checkbox
// filter on Published, newest Date first.
func PublishedQuery(cursor string) *notion.QueryRequest {
	return &notion.QueryRequest{
		Filter: &notion.Filter{
			Property: PublishedProperty,
			Checkbox: &notion.CheckboxFilter{Equals: true},
		},
		Sorts: []notion.Sort{
			{Property: DateProperty, Direction: notion.SortDescending},
		},
		StartCursor: cursor,
	}
}

// ListPublished follows result cursors so the caller always gets the
// complete published set from one call.
func (r *notionPageRepository) ListPublished(ctx context.Context) ([]notion.Page, error) {
	start := time.Now()
	var pages []notion.Page
	cursor := ""

	for {
		resp, err := r.client.QueryDatabase(ctx, r.databaseID, PublishedQuery(cursor))
		if err != nil {
			return nil, r.fail(opListPublished, start, err)
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
	}

	r.succeed(opListPublished, start)
	r.log.Debug().Int("count", len(pages)).Msg("Fetched published pages")
	return pages, nil
}

// GetByID retrieves a page directly; the published filter does not apply.
func (r *notionPageRepository) GetByID(ctx context.Context, id string) (*notion.Page, error) {
	start := time.Now()
	page, err := r.client.RetrievePage(ctx, id)
	if err != nil {
		return nil, r.fail(opGetByID, start, err)
	}
	r.succeed(opGetByID, start)
	return page, nil
}

// ConvertBody renders a page body as Markdown.
func (r *notionPageRepository) ConvertBody(ctx context.Context, id string) (string, error) {
	start := time.Now()
	body, err := r.converter.PageToMarkdown(ctx, id)
	if err != nil {
		return "", r.fail(opConvertBody, start, err)
	}
	r.succeed(opConvertBody, start)
	return body, nil
}

func (r *notionPageRepository) succeed(op string, start time.Time) {
	r.metrics.ObserveSourceRequest(op, "ok", start)
}

// fail classifies a client error into ErrRecordNotFound or
// ErrSourceUnavailable, keeping the original error in the chain.
func (r *notionPageRepository) fail(op string, start time.Time, err error) error {
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		r.metrics.ObserveSourceRequest(op, "not_found", start)
		return fmt.Errorf("%s: %w: %w", op, ErrRecordNotFound, err)
	}

	r.metrics.ObserveSourceRequest(op, "error", start)
	r.log.Error().Err(err).Str("operation", op).Msg("Content source request failed")
	return fmt.Errorf("%s: %w: %w", op, ErrSourceUnavailable, err)
}
