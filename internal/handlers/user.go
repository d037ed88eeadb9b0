package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/anonto42/nano-midea/social-api/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler serves profiles and the follow graph reads.
type UserHandler struct {
	accounts *services.AccountService
	graph    *services.FollowGraph
}

func NewUserHandler(accounts *services.AccountService, graph *services.FollowGraph) *UserHandler {
	return &UserHandler{accounts: accounts, graph: graph}
}

func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.PATCH("/profile", h.UpdateProfile)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// GetProfile returns the caller's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	profile, err := h.accounts.Profile(c.Request().Context(), userID, userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

// UpdateProfile changes the caller's email and bio
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	profile, err := h.accounts.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

// GetUser returns another user's public profile
func (h *UserHandler) GetUser(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.accounts.Profile(c.Request().Context(), viewerID, userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

func (h *UserHandler) GetFollowers(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.graph.Followers(c.Request().Context(), userID, pageFromQuery(c, services.DefaultUserPageSize))
	if err != nil {
		return err
	}
	return respondPage(c, compactUsers(result))
}

func (h *UserHandler) GetFollowing(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.graph.Following(c.Request().Context(), userID, pageFromQuery(c, services.DefaultUserPageSize))
	if err != nil {
		return err
	}
	return respondPage(c, compactUsers(result))
}

func compactUsers(result services.PageResult[models.User]) services.PageResult[models.UserCompact] {
	users := make([]models.UserCompact, len(result.Items))
	for i := range result.Items {
		users[i] = result.Items[i].ToCompact()
	}
	return services.PageResult[models.UserCompact]{Items: users, Total: result.Total, Page: result.Page}
}
