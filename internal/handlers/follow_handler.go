package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/social-api/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graph *services.FollowGraph
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.FollowGraph) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follow/:user_id", h.FollowUser)
	g.POST("/unfollow/:user_id", h.UnfollowUser)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	if err := h.graph.Follow(c.Request().Context(), currentUserID, targetID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"user_id": targetID, "following": true})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	if err := h.graph.Unfollow(c.Request().Context(), currentUserID, targetID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"user_id": targetID, "following": false})
}
