package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/model"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Messages never say which check failed.
const (
	msgInvalidCode        = "invalid or expired code"
	msgUnauthenticated    = "not authenticated"
	msgConflict           = "conflicting request, retry"
	msgStorageUnavailable = "service temporarily unavailable"
	msgInvalidInput       = "invalid request"
	msgNotFound           = "not found"
	msgInternal           = "internal server error"
)

func statusFor(err error) (int, string) {
	switch model.KindOf(err) {
	case model.KindInvalidCode:
		return http.StatusBadRequest, msgInvalidCode
	case model.KindUnauthenticated:
		return http.StatusUnauthorized, msgUnauthenticated
	case model.KindConflict:
		return http.StatusConflict, msgConflict
	case model.KindStorageUnavailable:
		return http.StatusServiceUnavailable, msgStorageUnavailable
	case model.KindInvalidInput:
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return http.StatusUnprocessableEntity, validationErrs.Error()
		}
		return http.StatusBadRequest, msgInvalidInput
	case model.KindNotFound:
		return http.StatusNotFound, msgNotFound
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// NewErrorHandler returns the echo error handler that renders kinds and
// echo errors as ErrorResponse.
func NewErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			code    int
			message string
			httpErr *echo.HTTPError
		)
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			message = http.StatusText(code)
			if m, ok := httpErr.Message.(string); ok && code < http.StatusInternalServerError {
				message = m
			}
		} else {
			code, message = statusFor(err)
		}

		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if code >= http.StatusInternalServerError {
			logger.Error("HTTP handler: request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", code,
				"error", err.Error())
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, ErrorResponse{Detail: message})
		}
		if writeErr != nil {
			logger.Error("HTTP handler: failed to write error response",
				"error", writeErr.Error())
		}
	}
}
