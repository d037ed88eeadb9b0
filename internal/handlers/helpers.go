package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/middleware"
	"github.com/anonto42/nano-midea/social-api/internal/services"
	"github.com/labstack/echo/v4"
)

// Response is the success envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta describes the page returned by a list endpoint.
type Meta struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

func respondPage[T any](c echo.Context, result services.PageResult[T]) error {
	items := result.Items
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    items,
		Meta: &Meta{
			CurrentPage:     result.Page.Number,
			TotalPages:      result.TotalPages(),
			TotalItems:      result.Total,
			ItemsPerPage:    result.Page.Size,
			HasNextPage:     result.HasNext(),
			HasPreviousPage: result.HasPrevious(),
		},
	})
}

func getUserIDFromContext(c echo.Context) (uint, error) {
	id := middleware.UserID(c)
	if id == 0 {
		return 0, apperrors.ErrUnauthenticated
	}
	return id, nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid " + name + ".")
	}
	return uint(id), nil
}

// parseUintQuery reads an optional positive integer query parameter; absent means 0.
func parseUintQuery(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperrors.Validation("Invalid " + name + ".")
	}
	return uint(id), nil
}

// pageFromQuery reads page and page_size; malformed values fall back to defaults.
func pageFromQuery(c echo.Context, defaultSize int) services.Page {
	number, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	return services.NewPage(number, size, defaultSize)
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("Invalid request payload.")
	}
	return c.Validate(req)
}
