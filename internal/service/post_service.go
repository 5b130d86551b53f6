package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/notion-content-api/internal/metrics"
	"github.com/notion-content-api/internal/models"
	"github.com/notion-content-api/internal/notion"
	"github.com/notion-content-api/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Scope cache names
const (
	cachePages  = "pages"
	cacheList   = "list"
	cacheBySlug = "slug"
	cacheByID   = "id"
)

// postService is the concrete implementation of PostService
type postService struct {
	pages       repository.PageRepository
	mapper      *Mapper
	concurrency int
	metrics     *metrics.Collector
	log         zerolog.Logger
}

// newPostService creates a new PostService
func newPostService(pages repository.PageRepository, mapper *Mapper, concurrency int, m *metrics.Collector, log zerolog.Logger) *postService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &postService{
		pages:       pages,
		mapper:      mapper,
		concurrency: concurrency,
		metrics:     m,
		log:         log.With().Str("service", "post").Logger(),
	}
}

// ListAll returns the published pages, querying the source at most once per
// scope.
func (s *postService) ListAll(ctx context.Context, scope *Scope) ([]notion.Page, error) {
	pages, hit, err := scopeLoad(ctx, scope, cachePages, func() ([]notion.Page, error) {
		return s.pages.ListPublished(ctx)
	})
	s.metrics.ScopeLookup(cachePages, hit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published pages: %w", err)
	}
	return pages, nil
}

// GetList maps every published page without its body.
func (s *postService) GetList(ctx context.Context, scope *Scope) (*models.PostListResponse, error) {
	resp, hit, err := scopeLoad(ctx, scope, cacheList, func() (*models.PostListResponse, error) {
		pages, err := s.ListAll(ctx, scope)
		if err != nil {
			return nil, err
		}

		posts := make([]models.Post, len(pages))
		var g errgroup.Group
		g.SetLimit(s.concurrency)
		for i := range pages {
			g.Go(func() error {
				post, err := s.mapper.Map(ctx, pages[i], false)
				if err != nil {
					return err
				}
				posts[i] = post
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		s.log.Debug().Int("count", len(posts)).Msg("Mapped post list")
		return &models.PostListResponse{Posts: posts, HasMore: false}, nil
	})
	s.metrics.ScopeLookup(cacheList, hit)
	return resp, err
}

// GetBySlug scans the published pages in list order, converting each body,
// and returns the first post whose slug matches. Colliding slugs resolve to
// the most recently published page. A nil post means no match.
func (s *postService) GetBySlug(ctx context.Context, scope *Scope, slug string) (*models.Post, error) {
	post, hit, err := scopeLoad(ctx, scope, cacheBySlug+":"+slug, func() (*models.Post, error) {
		pages, err := s.ListAll(ctx, scope)
		if err != nil {
			return nil, err
		}

		for i, page := range pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			post, err := s.mapper.Map(ctx, page, true)
			if err != nil {
				return nil, err
			}
			if post.Slug == slug {
				s.log.Debug().Str("slug", slug).Int("scanned", i+1).Msg("Resolved post by slug")
				return &post, nil
			}
		}
		return nil, nil
	})
	s.metrics.ScopeLookup(cacheBySlug, hit)
	return post, err
}

// GetByID retrieves one page directly, bypassing the published listing.
// A page the source does not know yields a nil post.
func (s *postService) GetByID(ctx context.Context, scope *Scope, id string) (*models.Post, error) {
	post, hit, err := scopeLoad(ctx, scope, cacheByID+":"+id, func() (*models.Post, error) {
		page, err := s.pages.GetByID(ctx, id)
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve page %s: %w", id, err)
		}

		post, err := s.mapper.Map(ctx, *page, true)
		if err != nil {
			return nil, err
		}
		return &post, nil
	})
	s.metrics.ScopeLookup(cacheByID, hit)
	return post, err
}
