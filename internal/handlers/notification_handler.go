package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	sink    *services.NotificationSink
	authors *services.AuthorDirectory
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(sink *services.NotificationSink, authors *services.AuthorDirectory) *NotificationHandler {
	return &NotificationHandler{sink: sink, authors: authors}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
}

// GetNotifications returns the caller's notifications, newest first. ?unread=true
// restricts the list to unread ones.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unread"))

	ctx := c.Request().Context()
	result, err := h.sink.List(ctx, userID, pageFromQuery(c, services.DefaultNotificationPageSize), unreadOnly)
	if err != nil {
		return err
	}
	views, err := h.authors.NotificationViews(ctx, result.Items)
	if err != nil {
		return err
	}
	return respondPage(c, services.PageResult[models.NotificationView]{Items: views, Total: result.Total, Page: result.Page})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	count, err := h.sink.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	notificationID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.sink.MarkRead(c.Request().Context(), userID, notificationID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"id": notificationID, "read": true})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	updated, err := h.sink.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"updated": updated})
}
