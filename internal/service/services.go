package service

import (
	"context"

	"github.com/notion-content-api/internal/config"
	"github.com/notion-content-api/internal/metrics"
	"github.com/notion-content-api/internal/models"
	"github.com/notion-content-api/internal/notion"
	"github.com/notion-content-api/internal/repository"
	"github.com/rs/zerolog"
)

// PostService defines the interface for post retrieval. Every operation is
// memoized in the Scope passed by the caller.
type PostService interface {
	ListAll(ctx context.Context, scope *Scope) ([]notion.Page, error)
	GetList(ctx context.Context, scope *Scope) (*models.PostListResponse, error)
	GetBySlug(ctx context.Context, scope *Scope, slug string) (*models.Post, error)
	GetByID(ctx context.Context, scope *Scope, id string) (*models.Post, error)
}

// Services holds all service interfaces
type Services struct {
	Posts PostService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, m *metrics.Collector, log zerolog.Logger) *Services {
	mapper := NewMapper(repos.Pages, m, log)

	return &Services{
		Posts: newPostService(repos.Pages, mapper, cfg.Content.MapConcurrency, m, log),
	}
}

// NewPostService creates a PostService with an explicit mapper, for callers
// that need a custom clock or body converter.
func NewPostService(pages repository.PageRepository, mapper *Mapper, concurrency int, log zerolog.Logger) PostService {
	return newPostService(pages, mapper, concurrency, nil, log)
}
