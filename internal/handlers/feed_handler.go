package handlers

import (
	"github.com/anonto42/nano-midea/social-api/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the caller's home feed
type FeedHandler struct {
	feed *services.FeedAssembler
}

func NewFeedHandler(feed *services.FeedAssembler) *FeedHandler {
	return &FeedHandler{feed: feed}
}

func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns posts from followed users, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	result, err := h.feed.FeedFor(c.Request().Context(), userID, pageFromQuery(c, services.DefaultPostPageSize))
	if err != nil {
		return err
	}
	return respondPage(c, result)
}
