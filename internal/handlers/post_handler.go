package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes. Reads go on public,
// writes on protected.
func (h *PostHandler) RegisterPostRoutes(public, protected *echo.Group) {
	public.GET("/posts", h.GetPosts)
	public.GET("/posts/:id", h.GetPost)

	protected.POST("/posts", h.CreatePost)
	protected.PUT("/posts/:id", h.UpdatePost)
	protected.PATCH("/posts/:id", h.UpdatePost)
	protected.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost handles the creation of a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, post)
}

// GetPost handles retrieving a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, post)
}

// GetPosts lists posts, optionally filtered by ?search= and ?author=
func (h *PostHandler) GetPosts(c echo.Context) error {
	authorID, err := parseUintQuery(c, "author")
	if err != nil {
		return err
	}
	query := services.PostQuery{
		Search:   strings.TrimSpace(c.QueryParam("search")),
		AuthorID: authorID,
	}
	result, err := h.posts.List(c.Request().Context(), query, pageFromQuery(c, services.DefaultPostPageSize))
	if err != nil {
		return err
	}
	return respondPage(c, result)
}

// UpdatePost handles updating an existing post. Only its author may do so.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if !services.CanModify(userID, post) {
		return apperrors.ErrForbidden
	}

	updated, err := h.posts.Update(ctx, postID, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated)
}

// DeletePost handles deleting a post. Only its author may do so.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if !services.CanModify(userID, post) {
		return apperrors.ErrForbidden
	}

	if err := h.posts.Delete(ctx, postID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
