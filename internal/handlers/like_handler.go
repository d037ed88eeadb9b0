package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	interactions *services.InteractionEngine
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(interactions *services.InteractionEngine) *LikeHandler {
	return &LikeHandler{interactions: interactions}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/like", h.LikePost)
	g.DELETE("/unlike", h.UnlikePost)
	g.GET("/posts/:id/likes", h.GetLikeStatus)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req models.LikeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	like, err := h.interactions.Like(c.Request().Context(), userID, req.Post)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, like)
}

// UnlikePost handles unliking a post. The post ID travels in the body as for /like.
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req models.LikeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.interactions.Unlike(c.Request().Context(), userID, req.Post); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLikeStatus returns the like count of a post and whether the caller liked it
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	count, err := h.interactions.LikeCount(ctx, postID)
	if err != nil {
		return err
	}
	liked, err := h.interactions.HasLiked(ctx, userID, postID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"post": postID, "likes_count": count, "has_liked": liked})
}
