package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/metrics"
	"github.com/dtroode/codeauth-server/internal/model"
)

// TokenService issues and parses session tokens on top of a TokenManager.
type TokenService struct {
	manager model.TokenManager
	ttl     time.Duration
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, ttl time.Duration, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, ttl: ttl, logger: logger}
}

// Issue returns a client access token whose subject is the user's id.
func (s *TokenService) Issue(ctx context.Context, user model.User) (string, error) {
	if user.ID == uuid.Nil {
		return "", errors.New("cannot issue token for user without id")
	}

	token, err := s.manager.CreateToken(model.TokenPayload{
		Subject: user.ID.String(),
		Type:    model.RoleClient,
	}, s.ttl, model.TokenClassAccess)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	metrics.TokensIssued.Inc()
	s.logger.Debug("Token service: token issued",
		"user_id", user.ID.String(),
		"expires_in", s.ttl.String())

	return token, nil
}

// GetUserID validates token and returns the id of a client identity. Tokens
// of any other type, with a malformed subject, or failing validation are
// reported as model.ErrTokenInvalid or model.ErrTokenExpired.
func (s *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	payload, err := s.manager.GetPayload(token, model.TokenClassAccess)
	if err != nil {
		return uuid.Nil, err
	}

	if payload.Type != model.RoleClient {
		return uuid.Nil, fmt.Errorf("%w: unexpected token type %q", model.ErrTokenInvalid, payload.Type)
	}

	userID, err := uuid.Parse(payload.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", model.ErrTokenInvalid)
	}

	return userID, nil
}
