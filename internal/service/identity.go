package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/metrics"
	"github.com/dtroode/codeauth-server/internal/model"
)

// IdentityService maps normalized emails to persistent identities.
type IdentityService struct {
	userStore  model.UserStore
	transactor model.Transactor
	logger     *logger.Logger
}

func NewIdentityService(userStore model.UserStore, transactor model.Transactor, logger *logger.Logger) *IdentityService {
	return &IdentityService{
		userStore:  userStore,
		transactor: transactor,
		logger:     logger,
	}
}

// ResolveOrCreate returns the identity for email, creating a client identity
// on first sight. Concurrent callers with the same email all receive the same
// identity: the loser of the insert race re-reads the winner's row.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, email string) (model.User, error) {
	email = model.NormalizeEmail(email)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		s.logger.Error("Identity service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	var created model.User
	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		var createErr error
		created, createErr = s.userStore.Create(ctx, model.User{
			Email: email,
			Role:  model.RoleClient,
		})
		return createErr
	})
	if err == nil {
		metrics.IdentitiesCreated.Inc()
		s.logger.Info("Identity service: user created",
			"user_id", created.ID.String(),
			"email", email)
		return created, nil
	}

	if !errors.Is(err, model.ErrConflict) {
		s.logger.Error("Identity service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Debug("Identity service: lost create race, re-reading",
		"email", email)

	user, err = s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.NewError(model.KindConflict, "resolve identity",
				fmt.Errorf("user vanished after conflicting insert: %w", err))
		}
		s.logger.Error("Identity service: failed to re-read user after conflict",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to re-read user: %w", err)
	}

	return user, nil
}

// GetByID returns the identity with id.
func (s *IdentityService) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}
