package mocks

import (
	"context"

	"github.com/notion-content-api/internal/models"
	"github.com/notion-content-api/internal/notion"
	"github.com/notion-content-api/internal/service"
)

// MockPostService is a mock implementation of PostService
type MockPostService struct {
	Pages  []notion.Page
	List   *models.PostListResponse
	BySlug map[string]*models.Post
	ByID   map[string]*models.Post
	Err    error

	// Scopes records the scope passed to every call
	Scopes []*service.Scope
}

// Verify interface compliance
var _ service.PostService = (*MockPostService)(nil)

func NewMockPostService() *MockPostService {
	return &MockPostService{
		List:   &models.PostListResponse{Posts: []models.Post{}},
		BySlug: make(map[string]*models.Post),
		ByID:   make(map[string]*models.Post),
	}
}

func (m *MockPostService) ListAll(ctx context.Context, scope *service.Scope) ([]notion.Page, error) {
	m.Scopes = append(m.Scopes, scope)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Pages, nil
}

func (m *MockPostService) GetList(ctx context.Context, scope *service.Scope) (*models.PostListResponse, error) {
	m.Scopes = append(m.Scopes, scope)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.List, nil
}

func (m *MockPostService) GetBySlug(ctx context.Context, scope *service.Scope, slug string) (*models.Post, error) {
	m.Scopes = append(m.Scopes, scope)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.BySlug[slug], nil
}

func (m *MockPostService) GetByID(ctx context.Context, scope *service.Scope, id string) (*models.Post, error) {
	m.Scopes = append(m.Scopes, scope)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ByID[id], nil
}
