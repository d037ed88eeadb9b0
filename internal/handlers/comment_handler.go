package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes. Reads go on public,
// writes on protected.
func (h *CommentHandler) RegisterCommentRoutes(public, protected *echo.Group) {
	public.GET("/comments", h.GetComments)
	public.GET("/comments/:id", h.GetComment)
	public.GET("/posts/:id/comments", h.GetCommentsByPostID)

	protected.POST("/comments", h.CreateComment)
	protected.PUT("/comments/:id", h.UpdateComment)
	protected.PATCH("/comments/:id", h.UpdateComment)
	protected.DELETE("/comments/:id", h.DeleteComment)
	protected.POST("/posts/:id/comments", h.CreateComment)
}

// CreateComment handles creating a comment. The post comes from the route
// when present, otherwise from the body.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	postID := req.Post
	if c.Param("id") != "" {
		if postID, err = parseID(c, "id"); err != nil {
			return err
		}
	}
	if postID == 0 {
		return apperrors.Validation("post is required.")
	}

	comment, err := h.comments.Create(c.Request().Context(), userID, postID, req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, comment)
}

func (h *CommentHandler) GetComment(c echo.Context) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.comments.Get(c.Request().Context(), commentID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, comment)
}

// GetComments lists every comment, or those of ?post=
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := parseUintQuery(c, "post")
	if err != nil {
		return err
	}
	return h.listComments(c, postID)
}

// GetCommentsByPostID retrieves all comments for a specific post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	return h.listComments(c, postID)
}

func (h *CommentHandler) listComments(c echo.Context, postID uint) error {
	result, err := h.comments.List(c.Request().Context(), postID, pageFromQuery(c, services.DefaultCommentPageSize))
	if err != nil {
		return err
	}
	return respondPage(c, result)
}

// UpdateComment handles updating an existing comment. Only its author may do so.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	comment, err := h.comments.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if !services.CanModify(userID, comment) {
		return apperrors.ErrForbidden
	}

	updated, err := h.comments.Update(ctx, commentID, req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated)
}

// DeleteComment handles deleting a comment. Only its author may do so.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	comment, err := h.comments.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if !services.CanModify(userID, comment) {
		return apperrors.ErrForbidden
	}

	if err := h.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
