package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notion-content-api/internal/config"
	"github.com/notion-content-api/internal/repository"
	"github.com/notion-content-api/internal/service"
	"github.com/notion-content-api/internal/validation"
	"github.com/rs/zerolog"
)

const sourceHint = "check Notion integration configuration"

// PostHandler handles blog post endpoints
type PostHandler struct {
	services *service.Services
	// processScope is shared by every request when the cache scope is the
	// process; nil means one scope per request.
	processScope *service.Scope
	log          zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, cacheScope string, log zerolog.Logger) *PostHandler {
	h := &PostHandler{
		services: services,
		log:      log.With().Str("handler", "post").Logger(),
	}
	if cacheScope == config.ScopeProcess {
		h.processScope = service.NewScope()
	}
	return h
}

func (h *PostHandler) scope() *service.Scope {
	if h.processScope != nil {
		return h.processScope
	}
	return service.NewScope()
}

// ListPosts handles GET /api/blog/posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	resp, err := h.services.Posts.GetList(c.Request.Context(), h.scope())
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching blog posts")
		h.fail(c, err, "Failed to fetch blog posts")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPost handles GET /api/blog/posts/:slug
func (h *PostHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	// Slugify never yields anything else, so skip the scan
	if !validation.IsValidSlug(slug) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
		return
	}

	post, err := h.services.Posts.GetBySlug(c.Request.Context(), h.scope(), slug)
	if err != nil {
		h.log.Error().Err(err).Str("slug", slug).Msg("Error fetching blog post by slug")
		h.fail(c, err, "Failed to fetch blog post")
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// GetPostByID handles GET /api/blog/pages/:id
func (h *PostHandler) GetPostByID(c *gin.Context) {
	id, err := validation.NormalizePageID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.services.Posts.GetByID(c.Request.Context(), h.scope(), id)
	if err != nil {
		h.log.Error().Err(err).Str("page_id", id).Msg("Error fetching blog post by ID")
		h.fail(c, err, "Failed to fetch blog post")
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) fail(c *gin.Context, err error, message string) {
	body := gin.H{"error": message}
	if errors.Is(err, repository.ErrSourceUnavailable) {
		body["hint"] = sourceHint
	}
	c.JSON(http.StatusInternalServerError, body)
}
