package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/notion-content-api/internal/mocks"
	"github.com/notion-content-api/internal/models"
	"github.com/notion-content-api/internal/notion"
	"github.com/notion-content-api/internal/repository"
	"github.com/notion-content-api/internal/service"
	"github.com/rs/zerolog"
)

func newTestService(repo *mocks.MockPageRepository) service.PostService {
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mapper := service.NewMapper(repo, nil, zerolog.Nop()).WithClock(func() time.Time { return fixed })
	return service.NewPostService(repo, mapper, 4, zerolog.Nop())
}

func TestPostService_GetList(t *testing.T) {
	repo := mocks.NewMockPageRepository(
		buildPage(pageSpec{id: "p1", title: "My First Post", published: true, date: "2024-01-01", tags: []string{"A", "B"}, author: "Jane"}),
		buildPage(pageSpec{id: "p2", title: "Second", published: true, date: "2023-12-01"}),
	)
	repo.Bodies["p1"] = "Body one"
	svc := newTestService(repo)

	resp, err := svc.GetList(context.Background(), service.NewScope())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.HasMore || resp.NextCursor != nil {
		t.Errorf("Expected a complete list, got hasMore=%v cursor=%v", resp.HasMore, resp.NextCursor)
	}
	if len(resp.Posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(resp.Posts))
	}

	first := resp.Posts[0]
	if first.Slug != "my-first-post" || first.Author != "Jane" || !first.Published {
		t.Errorf("Unexpected first post %+v", first)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "A" || first.Tags[1] != "B" {
		t.Errorf("Expected tags [A B], got %v", first.Tags)
	}
	if first.Content != "" || first.Excerpt != "" {
		t.Errorf("Expected list posts without body, got %q", first.Content)
	}
	if resp.Posts[1].ID != "p2" {
		t.Errorf("Expected source order to be kept, got %s", resp.Posts[1].ID)
	}
	if _, _, convert := repo.Calls(); convert != 0 {
		t.Errorf("Expected no body conversions for the list, got %d", convert)
	}
}

func TestPostService_GetList_Empty(t *testing.T) {
	svc := newTestService(mocks.NewMockPageRepository())

	resp, err := svc.GetList(context.Background(), service.NewScope())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Posts == nil || len(resp.Posts) != 0 {
		t.Errorf("Expected an empty, non-nil post list, got %#v", resp.Posts)
	}
}

func TestPostService_ListAllOncePerScope(t *testing.T) {
	repo := mocks.NewMockPageRepository(
		buildPage(pageSpec{id: "p1", title: "Hello World", published: true}),
	)
	repo.Bodies["p1"] = "Hi"
	svc := newTestService(repo)
	ctx := context.Background()
	scope := service.NewScope()

	if _, err := svc.ListAll(ctx, scope); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := svc.GetList(ctx, scope); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := svc.GetBySlug(ctx, scope, "hello-world"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := svc.GetBySlug(ctx, scope, "missing"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if list, _, _ := repo.Calls(); list != 1 {
		t.Errorf("Expected 1 source query within a scope, got %d", list)
	}

	if _, err := svc.ListAll(ctx, service.NewScope()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if list, _, _ := repo.Calls(); list != 2 {
		t.Errorf("Expected a fresh scope to query again, got %d calls", list)
	}
}

func TestPostService_ConcurrentCallersShareLoad(t *testing.T) {
	repo := mocks.NewMockPageRepository()
	release := make(chan struct{})
	page := buildPage(pageSpec{id: "p1", title: "Shared", published: true})
	repo.ListPublishedFunc = func(ctx context.Context) ([]notion.Page, error) {
		<-release
		return []notion.Page{page}, nil
	}
	svc := newTestService(repo)
	scope := service.NewScope()

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pages, err := svc.ListAll(context.Background(), scope)
			if err == nil && len(pages) != 1 {
				err = fmt.Errorf("expected 1 page, got %d", len(pages))
			}
			errs <- err
		}()
	}

	// let the callers pile up on the first load
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if list, _, _ := repo.Calls(); list != 1 {
		t.Errorf("Expected concurrent callers to share 1 source query, got %d", list)
	}
}

func TestPostService_FailedLoadNotMemoized(t *testing.T) {
	repo := mocks.NewMockPageRepository(
		buildPage(pageSpec{id: "p1", title: "Retry", published: true}),
	)
	repo.ListError = fmt.Errorf("query: %w", repository.ErrSourceUnavailable)
	svc := newTestService(repo)
	scope := service.NewScope()

	_, err := svc.GetList(context.Background(), scope)
	if !errors.Is(err, repository.ErrSourceUnavailable) {
		t.Fatalf("Expected ErrSourceUnavailable, got %v", err)
	}
	if scope.Len() != 0 {
		t.Errorf("Expected nothing memoized after a failure, got %d entries", scope.Len())
	}

	repo.ListError = nil
	resp, err := svc.GetList(context.Background(), scope)
	if err != nil {
		t.Fatalf("Unexpected error on retry: %v", err)
	}
	if len(resp.Posts) != 1 {
		t.Errorf("Expected 1 post on retry, got %d", len(resp.Posts))
	}
	if list, _, _ := repo.Calls(); list != 2 {
		t.Errorf("Expected 2 source queries, got %d", list)
	}
}

func TestPostService_GetBySlug(t *testing.T) {
	repo := mocks.NewMockPageRepository(
		buildPage(pageSpec{id: "p1", title: "Hello World", published: true, date: "2024-02-01"}),
		buildPage(pageSpec{id: "p2", title: "Other", published: true, date: "2024-01-01"}),
	)
	repo.Bodies["p1"] = "Hello body"
	repo.Bodies["p2"] = "Other body"
	svc := newTestService(repo)
	scope := service.NewScope()

	post, err := svc.GetBySlug(context.Background(), scope, "other")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if post == nil || post.ID != "p2" {
		t.Fatalf("Expected post p2, got %+v", post)
	}
	if post.Content != "Other body" || post.Excerpt != "Other body..." {
		t.Errorf("Expected body and excerpt, got %q / %q", post.Content, post.Excerpt)
	}

	again, err := svc.GetBySlug(context.Background(), scope, "other")
	if err != nil || again != post {
		t.Errorf("Expected memoized post, got %+v, %v", again, err)
	}
	if _, _, convert := repo.Calls(); convert != 2 {
		t.Errorf("Expected 2 body conversions for one scan, got %d", convert)
	}
}

func TestPostService_GetBySlug_Collision(t *testing.T) {
	repo := mocks.NewMockPageRepository(
		buildPage(pageSpec{id: "newer", title: "Hello, World!", published: true, date: "2024-03-01"}),
		buildPage(pageSpec{id: "older", title: "hello world", published: true, date: "2024-01-01"}),
	)
	svc := newTestService(repo)

	post, err := svc.GetBySlug(context.Background(), service.NewScope(), "hello-world")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if post == nil || post.ID != "newer" {
		t.Errorf("Expected the first page in list order, got %+v", post)
	}
}

func TestPostService_GetBySlug_NotFound(t *testing.T) {
	repo := mocks.NewMockPageRepository(
		buildPage(pageSpec{id: "p1", title: "Hello", published: true}),
	)
	svc := newTestService(repo)
	scope := service.NewScope()

	post, err := svc.GetBySlug(context.Background(), scope, "nope")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if post != nil {
		t.Errorf("Expected nil post, got %+v", post)
	}

	if _, err := svc.GetBySlug(context.Background(), scope, "nope"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, _, convert := repo.Calls(); convert != 1 {
		t.Errorf("Expected a memoized miss to skip the second scan, got %d conversions", convert)
	}
}

func TestPostService_GetBySlug_CanceledContext(t *testing.T) {
	repo := mocks.NewMockPageRepository(
		buildPage(pageSpec{id: "p1", title: "Hello", published: true}),
	)
	svc := newTestService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	scope := service.NewScope()
	if _, err := svc.ListAll(ctx, scope); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cancel()

	_, err := svc.GetBySlug(ctx, scope, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPostService_CancelledConversionNotMemoized(t *testing.T) {
	tests := []struct {
		name   string
		lookup func(svc service.PostService, ctx context.Context, scope *service.Scope) (*models.Post, error)
	}{
		{"by slug", func(svc service.PostService, ctx context.Context, scope *service.Scope) (*models.Post, error) {
			return svc.GetBySlug(ctx, scope, "hello")
		}},
		{"by id", func(svc service.PostService, ctx context.Context, scope *service.Scope) (*models.Post, error) {
			return svc.GetByID(ctx, scope, "p1")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockPageRepository(
				buildPage(pageSpec{id: "p1", title: "Hello", published: true}),
			)
			ctx, cancel := context.WithCancel(context.Background())
			converter := &cancellingConverter{cancel: cancel, body: "Hello body"}
			mapper := service.NewMapper(converter, nil, zerolog.Nop())
			svc := service.NewPostService(repo, mapper, 4, zerolog.Nop())
			scope := service.NewScope()

			if _, err := tt.lookup(svc, ctx, scope); !errors.Is(err, context.Canceled) {
				t.Fatalf("Expected context.Canceled, got %v", err)
			}

			post, err := tt.lookup(svc, context.Background(), scope)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if post == nil || post.Content != "Hello body" {
				t.Errorf("Expected the body on a later request in the same scope, got %+v", post)
			}
		})
	}
}

func TestPostService_GetByID(t *testing.T) {
	draft := buildPage(pageSpec{id: "d1", title: "Draft", published: false})
	repo := mocks.NewMockPageRepository()
	repo.ByID["d1"] = &draft
	repo.Bodies["d1"] = "Work in progress"
	svc := newTestService(repo)
	scope := service.NewScope()

	post, err := svc.GetByID(context.Background(), scope, "d1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if post == nil || post.Published {
		t.Fatalf("Expected unpublished post by id, got %+v", post)
	}
	if post.Content != "Work in progress" {
		t.Errorf("Expected body, got %q", post.Content)
	}

	if _, err := svc.GetByID(context.Background(), scope, "d1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	list, get, _ := repo.Calls()
	if list != 0 {
		t.Errorf("Expected no listing query, got %d", list)
	}
	if get != 1 {
		t.Errorf("Expected 1 retrieve call, got %d", get)
	}
}

func TestPostService_GetByID_NotFound(t *testing.T) {
	svc := newTestService(mocks.NewMockPageRepository())

	post, err := svc.GetByID(context.Background(), service.NewScope(), "missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if post != nil {
		t.Errorf("Expected nil post, got %+v", post)
	}
}

func TestPostService_GetByID_SourceError(t *testing.T) {
	repo := mocks.NewMockPageRepository()
	repo.GetError = fmt.Errorf("retrieve: %w", repository.ErrSourceUnavailable)
	svc := newTestService(repo)

	_, err := svc.GetByID(context.Background(), service.NewScope(), "p1")
	if !errors.Is(err, repository.ErrSourceUnavailable) {
		t.Errorf("Expected ErrSourceUnavailable, got %v", err)
	}
}
