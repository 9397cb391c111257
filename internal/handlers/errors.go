package handlers

import (
	"log/slog"
	"net/http"

	"renttracker/internal/common"
	"renttracker/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// formKey holds the submitted form so error responses can echo it back.
const formKey = "submitted_form"

// HTTPErrorHandler renders every error as an ErrorResponse. Service errors
// map onto 4xx codes; anything unrecognised is logged and hidden behind a
// generic 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, resp := errorResponse(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request().Method, "url", c.Request().URL, "err", err)
	}
	if form := c.Get(formKey); form != nil && status < http.StatusInternalServerError {
		resp.Form = form
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, resp)
	}
	if writeErr != nil {
		slog.Error("could not write error response", "err", writeErr)
	}
}

func errorResponse(err error) (int, *common.ErrorResponse) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, common.CreateErrorResponse(common.CodeValidation,
			"Please correct the errors below.", validationErr.Fields)

	case errors.As(err, &conflictErr):
		code := common.CodeIntegrityConflict
		if conflictErr.Kind == services.ConflictUniqueness {
			code = common.CodeUniquenessConflict
		}
		var details map[string]string
		if conflictErr.Field != "" {
			details = map[string]string{conflictErr.Field: conflictErr.Message}
		}
		return http.StatusConflict, common.CreateErrorResponse(code, conflictErr.Message, details)

	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNoDocument):
		return http.StatusNotFound, common.CreateErrorResponse(common.CodeNotFound, err.Error(), nil)

	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests, common.CreateErrorResponse(common.CodeRateLimited, err.Error(), nil)

	case errors.Is(err, services.ErrDocumentsDisabled):
		return http.StatusServiceUnavailable, common.CreateErrorResponse(common.CodeServer, err.Error(), nil)

	case errors.As(err, &httpErr):
		if inner, ok := httpErr.Internal.(*echo.HTTPError); ok {
			httpErr = inner
		}
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, common.CreateErrorResponse(codeForStatus(httpErr.Code), msg, nil)

	default:
		return http.StatusInternalServerError, common.CreateErrorResponse(common.CodeServer,
			"An unexpected error occurred. Please try again later.", nil)
	}
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return common.CodeNotFound
	case status == http.StatusUnauthorized:
		return common.CodeUnauthorized
	case status == http.StatusForbidden:
		return common.CodeForbidden
	case status == http.StatusTooManyRequests:
		return common.CodeRateLimited
	case status >= http.StatusInternalServerError:
		return common.CodeServer
	default:
		return common.CodeClient
	}
}
