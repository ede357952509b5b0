package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/model"
)

// IdentityResolver resolves session tokens to identities.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (model.User, error)
}

var errMissingBearer = model.NewError(model.KindUnauthenticated, "authenticate", errors.New("missing bearer token"))

// Authenticate validates bearer tokens and injects the identity into the
// request context.
type Authenticate struct {
	resolver       IdentityResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(resolver IdentityResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{resolver: resolver, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid "Authorization: Bearer" header.
func (m *Authenticate) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errMissingBearer
		}

		ctx := c.Request().Context()
		user, err := m.resolver.ResolveIdentity(ctx, token)
		if err != nil {
			m.logger.Debug("Authenticate middleware: request rejected",
				"path", c.Path(),
				"kind", model.KindOf(err).String())
			return err
		}

		c.SetRequest(c.Request().WithContext(m.contextManager.SetUserToContext(ctx, user)))
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
