package service

import (
	"context"
	"fmt"
	"time"

	"github.com/notion-content-api/internal/content"
	"github.com/notion-content-api/internal/metrics"
	"github.com/notion-content-api/internal/models"
	"github.com/notion-content-api/internal/notion"
	"github.com/rs/zerolog"
)

// Excerpt settings
const (
	ExcerptLength = 200
	ExcerptSuffix = "..."
)

// Property names read from each page. Title and date accept a fallback
// column so renamed databases keep working.
var (
	titleProperties = []string{"Title", "Name"}
	dateProperties  = []string{"Date", "Published"}
)

const (
	tagsProperty      = "Tags"
	authorProperty    = "Author"
	publishedProperty = "Published"
)

// BodyConverter renders a page body as Markdown
type BodyConverter interface {
	ConvertBody(ctx context.Context, id string) (string, error)
}

// Mapper converts raw pages into posts
type Mapper struct {
	body    BodyConverter
	now     func() time.Time
	metrics *metrics.Collector
	log     zerolog.Logger
}

// NewMapper creates a Mapper that fetches bodies through body
func NewMapper(body BodyConverter, m *metrics.Collector, log zerolog.Logger) *Mapper {
	return &Mapper{
		body:    body,
		now:     time.Now,
		metrics: m,
		log:     log.With().Str("component", "mapper").Logger(),
	}
}

// WithClock returns a copy of the mapper that uses now as the fallback
// publication time.
func (m *Mapper) WithClock(now func() time.Time) *Mapper {
	cp := *m
	cp.now = now
	return &cp
}

// Map builds a post from a page. When includeBody is set the body is fetched
// and converted; a conversion failure leaves the body and excerpt empty and
// is only logged. An error is returned only when ctx ends during conversion.
func (m *Mapper) Map(ctx context.Context, page notion.Page, includeBody bool) (models.Post, error) {
	props := page.Properties
	title := content.TitleText(content.Lookup(props, titleProperties...))

	body := ""
	if includeBody {
		converted, err := m.body.ConvertBody(ctx, page.ID)
		switch {
		case err == nil:
			body = converted
		case ctx.Err() != nil:
			// a cancelled caller is not a broken document
			return models.Post{}, fmt.Errorf("failed to convert page %s: %w", page.ID, ctx.Err())
		default:
			m.metrics.BodyConversionFailed()
			m.log.Error().Err(err).Str("page_id", page.ID).Msg("Error converting page to markdown")
		}
	}

	post := models.Post{
		ID:             page.ID,
		Title:          title,
		Slug:           content.Slugify(title),
		Content:        body,
		Excerpt:        Excerpt(body),
		PublishedDate:  content.DateStart(content.Lookup(props, dateProperties...), m.now),
		LastEditedDate: page.LastEditedTime,
		Tags:           content.Tags(content.Lookup(props, tagsProperty)),
		Author:         content.SelectName(content.Lookup(props, authorProperty)),
		Published:      content.Checkbox(content.Lookup(props, publishedProperty)),
	}
	if cover, ok := content.CoverURL(page.Cover); ok {
		post.CoverImage = cover
	}
	return post, nil
}

// Excerpt returns the first ExcerptLength characters of body followed by
// ExcerptSuffix, or an empty string for an empty body. The suffix is added
// even when body is shorter than the limit.
func Excerpt(body string) string {
	if body == "" {
		return ""
	}
	runes := []rune(body)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + ExcerptSuffix
}
