package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorBody in the API envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

var kindStatus = map[Kind]int{
	KindInternal:     http.StatusInternalServerError,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindForbidden:    http.StatusForbidden,
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindUnavailable:  http.StatusServiceUnavailable,
}

// StatusOf maps an error kind to its HTTP status code.
func StatusOf(kind Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HTTPErrorHandler is installed as echo's error handler. Application errors keep
// their code and message; validator and echo errors are translated; anything
// else is logged and reported as an opaque internal error.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := resolve(err)
	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			"method":     c.Request().Method,
			"path":       c.Path(),
		}).WithError(err).Error("request failed")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, ErrorResponse{Success: false, Error: body})
	}
	if writeErr != nil {
		log.WithError(writeErr).Warn("failed to write error response")
	}
}

func resolve(err error) (int, ErrorBody) {
	var appErr *Error
	if errors.As(err, &appErr) {
		status := StatusOf(appErr.Kind)
		if appErr.Kind == KindInternal {
			return status, ErrorBody{Code: "internal_error", Message: "Internal server error."}
		}
		return status, ErrorBody{Code: appErr.Code, Message: appErr.Message}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, ErrorBody{Code: "validation_error", Message: describeValidation(validationErrs)}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && m != "" {
			message = m
		}
		return httpErr.Code, ErrorBody{Code: codeForStatus(httpErr.Code), Message: message}
	}

	return http.StatusInternalServerError, ErrorBody{Code: "internal_error", Message: "Internal server error."}
}

func describeValidation(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed on '%s=%s'", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "not_authenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		if status >= http.StatusInternalServerError {
			return "internal_error"
		}
		return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
	}
}
