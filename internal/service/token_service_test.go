package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/codeauth-server/internal/mocks"
	"github.com/dtroode/codeauth-server/internal/model"
	"github.com/dtroode/codeauth-server/internal/testutil"
	"github.com/dtroode/codeauth-server/internal/token"
)

func TestTokenService_IssueAndGetUserID(t *testing.T) {
	ctx := context.Background()
	manager, err := token.NewJWT("secret", "HS256")
	require.NoError(t, err)
	s := NewTokenService(manager, time.Hour, testutil.MakeNoopLogger())

	user := model.User{ID: uuid.New(), Email: "user@example.com", Role: model.RoleClient}

	tok, err := s.Issue(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	userID, err := s.GetUserID(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestTokenService_Issue_RequiresID(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	s := NewTokenService(manager, time.Hour, testutil.MakeNoopLogger())

	_, err := s.Issue(context.Background(), model.User{Email: "user@example.com"})
	require.Error(t, err)
}

func TestTokenService_Issue_PassesTTLAndPayload(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	s := NewTokenService(manager, 30*24*time.Hour, testutil.MakeNoopLogger())
	user := model.User{ID: uuid.New(), Role: model.RoleClient}

	manager.On("CreateToken",
		model.TokenPayload{Subject: user.ID.String(), Type: model.RoleClient},
		30*24*time.Hour,
		model.TokenClassAccess,
	).Return("signed", nil)

	tok, err := s.Issue(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "signed", tok)
}

func TestTokenService_Issue_AlwaysMintsClientType(t *testing.T) {
	for _, role := range []model.Role{"", model.RoleClient, model.RolePsychologist, model.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			manager := mocks.NewTokenManager(t)
			s := NewTokenService(manager, time.Hour, testutil.MakeNoopLogger())
			user := model.User{ID: uuid.New(), Role: role}

			manager.On("CreateToken",
				model.TokenPayload{Subject: user.ID.String(), Type: model.RoleClient},
				time.Hour,
				model.TokenClassAccess,
			).Return("signed", nil)

			_, err := s.Issue(context.Background(), user)
			require.NoError(t, err)
		})
	}
}

func TestTokenService_GetUserID_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload model.TokenPayload
		err     error
		wantErr error
	}{
		{
			name:    "manager rejects",
			err:     model.ErrTokenInvalid,
			wantErr: model.ErrTokenInvalid,
		},
		{
			name:    "expired",
			err:     model.ErrTokenExpired,
			wantErr: model.ErrTokenExpired,
		},
		{
			name:    "wrong type",
			payload: model.TokenPayload{Subject: uuid.NewString(), Type: model.RoleAdmin},
			wantErr: model.ErrTokenInvalid,
		},
		{
			name:    "malformed subject",
			payload: model.TokenPayload{Subject: "42", Type: model.RoleClient},
			wantErr: model.ErrTokenInvalid,
		},
		{
			name:    "nil subject",
			payload: model.TokenPayload{Subject: uuid.Nil.String(), Type: model.RoleClient},
			wantErr: model.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			manager := mocks.NewTokenManager(t)
			manager.On("GetPayload", "token", model.TokenClassAccess).Return(tt.payload, tt.err)

			s := NewTokenService(manager, time.Hour, testutil.MakeNoopLogger())
			userID, err := s.GetUserID(context.Background(), "token")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, uuid.Nil, userID)
			assert.Equal(t, model.KindUnauthenticated, model.KindOf(err))
		})
	}
}

func TestTokenService_GetUserID_ExpiredAfterTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	manager, err := token.NewJWT("secret", "HS256", token.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	s := NewTokenService(manager, time.Minute, testutil.MakeNoopLogger())

	tok, err := s.Issue(context.Background(), model.User{ID: uuid.New(), Role: model.RoleClient})
	require.NoError(t, err)

	now = now.Add(time.Minute + time.Second)
	_, err = s.GetUserID(context.Background(), tok)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

