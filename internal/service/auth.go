package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/metrics"
	"github.com/dtroode/codeauth-server/internal/model"
)

// Auth drives the passwordless login flow: request a code, exchange it for a
// session token, and resolve tokens back to identities.
type Auth struct {
	codes      *CodeService
	identities *IdentityService
	tokens     *TokenService
	delivery   model.CodeDelivery
	validate   *validator.Validate
	logger     *logger.Logger
}

func NewAuth(
	codes *CodeService,
	identities *IdentityService,
	tokens *TokenService,
	delivery model.CodeDelivery,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		codes:      codes,
		identities: identities,
		tokens:     tokens,
		delivery:   delivery,
		validate:   validator.New(),
		logger:     logger,
	}
}

var (
	errInvalidCode     = model.NewError(model.KindInvalidCode, "verify code", model.ErrInvalidCode)
	errMissingToken    = model.NewError(model.KindUnauthenticated, "resolve identity", errors.New("missing token"))
	errUnknownIdentity = model.NewError(model.KindUnauthenticated, "resolve identity", model.ErrTokenInvalid)
)

func (a *Auth) normalizeEmail(op, email string) (string, error) {
	email = model.NormalizeEmail(email)
	if err := a.validate.Var(email, "required,email,max=254"); err != nil {
		return "", model.NewError(model.KindInvalidInput, op, fmt.Errorf("malformed email: %w", err))
	}

	return email, nil
}

// RequestCode issues a fresh code for email and hands it to delivery. Any
// previously issued code for the email stops being valid. Delivery happens
// in the background; failing to enqueue is logged and not returned.
func (a *Auth) RequestCode(ctx context.Context, email string) error {
	email, err := a.normalizeEmail("request code", email)
	if err != nil {
		return err
	}

	a.logger.Debug("Auth service: issuing login code",
		"email", email)

	code, err := a.codes.Issue(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrCacheUnavailable) {
			return model.NewError(model.KindStorageUnavailable, "request code", err)
		}
		a.logger.Error("Auth service: failed to issue code",
			"email", email,
			"error", err.Error())
		return model.NewError(model.KindInternal, "request code", err)
	}

	if err := a.delivery.Enqueue(email, code); err != nil {
		a.logger.Error("Auth service: failed to enqueue code delivery",
			"email", email,
			"error", err.Error())
	}

	a.logger.Info("Auth service: login code issued",
		"email", email)

	return nil
}

// VerifyCode exchanges a valid code for a session token. The identity is
// resolved before the code is consumed, so a storage failure leaves the code
// usable for a retry. A code yields at most one token.
func (a *Auth) VerifyCode(ctx context.Context, email, code string) (string, error) {
	email, err := a.normalizeEmail("verify code", email)
	if err != nil {
		return "", err
	}
	if code == "" {
		return "", model.NewError(model.KindInvalidInput, "verify code", errors.New("empty code"))
	}

	ok, err := a.codes.Verify(ctx, email, code)
	if err != nil {
		metrics.RecordVerification(metrics.ResultUnavailable)
		return "", model.NewError(model.KindStorageUnavailable, "verify code", err)
	}
	if !ok {
		metrics.RecordVerification(metrics.ResultRejected)
		a.logger.Info("Auth service: code rejected",
			"email", email)
		return "", errInvalidCode
	}

	user, err := a.identities.ResolveOrCreate(ctx, email)
	if err != nil {
		a.logger.Error("Auth service: failed to resolve identity",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to resolve identity: %w", err)
	}

	consumed, err := a.codes.Invalidate(ctx, email)
	if err != nil {
		metrics.RecordVerification(metrics.ResultUnavailable)
		return "", model.NewError(model.KindStorageUnavailable, "verify code", err)
	}
	if !consumed {
		metrics.RecordVerification(metrics.ResultRejected)
		a.logger.Info("Auth service: code consumed concurrently",
			"email", email)
		return "", errInvalidCode
	}

	token, err := a.tokens.Issue(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID.String(),
			"error", err.Error())
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	metrics.RecordVerification(metrics.ResultAccepted)
	a.logger.Info("Auth service: user authenticated",
		"user_id", user.ID.String(),
		"email", email)

	return token, nil
}

// ResolveIdentity returns the identity a session token was issued for.
func (a *Auth) ResolveIdentity(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, errMissingToken
	}

	userID, err := a.tokens.GetUserID(ctx, token)
	if err != nil {
		a.logger.Debug("Auth service: token rejected",
			"error", err.Error())
		return model.User{}, model.NewError(model.KindUnauthenticated, "resolve identity", err)
	}

	user, err := a.identities.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: token subject has no identity",
				"user_id", userID.String())
			return model.User{}, errUnknownIdentity
		}
		a.logger.Error("Auth service: failed to load identity",
			"user_id", userID.String(),
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to load identity: %w", err)
	}

	if user.Role != model.RoleClient {
		return model.User{}, errUnknownIdentity
	}

	return user, nil
}
