package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/model"
)

// AuthService defines the passwordless login operations.
type AuthService interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (string, error)
}

// LoginRequest asks for a login code to be sent to Email.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// VerifyRequest exchanges a login code for a session token.
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Code  string `json:"code" validate:"required,numeric,max=16"`
}

// TokenResponse carries an issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// Login issues a login code. Login and registration are the same request.
func (h *Auth) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Email = model.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	if err := h.authService.RequestCode(c.Request().Context(), req.Email); err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		return err
	}

	return c.JSON(http.StatusOK, struct{}{})
}

// Verify exchanges a code for a session token.
func (h *Auth) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Email = model.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	h.logger.Debug("Auth handler: processing verify request",
		"email", req.Email)

	token, err := h.authService.VerifyCode(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		h.logger.Info("Auth handler: verify failed",
			"email", req.Email,
			"kind", model.KindOf(err).String())
		return err
	}

	h.logger.Info("Auth handler: verify completed",
		"email", req.Email)

	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}
