package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/model"
)

// UserResponse is the public view of an identity.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	Phone     *string    `json:"phone"`
	Name      *string    `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
}

// User handles endpoints about the authenticated identity.
type User struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewUser(contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{contextManager: contextManager, logger: logger}
}

// Me returns the identity the request was authenticated as.
func (h *User) Me(c echo.Context) error {
	user, ok := h.contextManager.GetUserFromContext(c.Request().Context())
	if !ok {
		h.logger.Error("User handler: no user in context",
			"path", c.Path())
		return model.NewError(model.KindUnauthenticated, "get current user", model.ErrTokenInvalid)
	}

	return c.JSON(http.StatusOK, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
}
