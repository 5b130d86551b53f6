package mocks

import (
	"context"
	"sync"

	"github.com/notion-content-api/internal/notion"
	"github.com/notion-content-api/internal/repository"
)

// MockPageRepository is a mock implementation of PageRepository
type MockPageRepository struct {
	mu sync.Mutex

	Pages  []notion.Page
	ByID   map[string]*notion.Page
	Bodies map[string]string

	ListError    error
	GetError     error
	ConvertError map[string]error

	ListPublishedFunc func(ctx context.Context) ([]notion.Page, error)

	ListCalls    int
	GetCalls     int
	ConvertCalls []string
}

// Verify interface compliance
var _ repository.PageRepository = (*MockPageRepository)(nil)

func NewMockPageRepository(pages ...notion.Page) *MockPageRepository {
	m := &MockPageRepository{
		Pages:        pages,
		ByID:         make(map[string]*notion.Page),
		Bodies:       make(map[string]string),
		ConvertError: make(map[string]error),
	}
	for i := range pages {
		p := pages[i]
		m.ByID[p.ID] = &p
	}
	return m
}

func (m *MockPageRepository) ListPublished(ctx context.Context) ([]notion.Page, error) {
	m.mu.Lock()
	m.ListCalls++
	fn := m.ListPublishedFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Pages, nil
}

func (m *MockPageRepository) GetByID(ctx context.Context, id string) (*notion.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	page, ok := m.ByID[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return page, nil
}

func (m *MockPageRepository) ConvertBody(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConvertCalls = append(m.ConvertCalls, id)
	if err := m.ConvertError[id]; err != nil {
		return "", err
	}
	return m.Bodies[id], nil
}

// Calls returns the call counters under the mock's lock
func (m *MockPageRepository) Calls() (list, get, convert int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCalls, m.GetCalls, len(m.ConvertCalls)
}
