package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/codeauth-server/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestJWT(t *testing.T, clock *fakeClock, opts ...Option) *JWT {
	t.Helper()
	j, err := NewJWT("secret", "HS256", append([]Option{WithClock(clock.Now)}, opts...)...)
	require.NoError(t, err)
	return j
}

func clientPayload() model.TokenPayload {
	return model.TokenPayload{Subject: uuid.NewString(), Type: model.RoleClient}
}

func TestJWT_Roundtrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	j := newTestJWT(t, clock)
	payload := clientPayload()

	tok, err := j.CreateToken(payload, time.Hour, model.TokenClassAccess)
	require.NoError(t, err)

	got, err := j.GetPayload(tok, model.TokenClassAccess)
	require.NoError(t, err)
	assert.Equal(t, payload.Subject, got.Subject)
	assert.Equal(t, model.RoleClient, got.Type)
	assert.True(t, got.ExpiresAt.Equal(clock.now.Add(time.Hour)))
}

func TestJWT_DeterministicSigning(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	j := newTestJWT(t, clock)
	payload := clientPayload()

	first, err := j.CreateToken(payload, time.Hour, model.TokenClassAccess)
	require.NoError(t, err)
	second, err := j.CreateToken(payload, time.Hour, model.TokenClassAccess)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestJWT_ExpiryValidation(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	j := newTestJWT(t, clock)

	tok, err := j.CreateToken(clientPayload(), time.Minute, model.TokenClassAccess)
	require.NoError(t, err)

	clock.now = start.Add(59 * time.Second)
	_, err = j.GetPayload(tok, model.TokenClassAccess)
	require.NoError(t, err)

	clock.now = start.Add(time.Minute)
	_, err = j.GetPayload(tok, model.TokenClassAccess)
	require.ErrorIs(t, err, model.ErrTokenExpired)

	clock.now = start.Add(time.Hour)
	_, err = j.GetPayload(tok, model.TokenClassAccess)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_InvalidTokens(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	j := newTestJWT(t, clock)

	valid, err := j.CreateToken(clientPayload(), time.Hour, model.TokenClassAccess)
	require.NoError(t, err)

	other, err := NewJWT("other-secret", "HS256", WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.CreateToken(clientPayload(), time.Hour, model.TokenClassAccess)
	require.NoError(t, err)

	hs512, err := NewJWT("secret", "HS512", WithClock(clock.Now))
	require.NoError(t, err)
	wrongAlg, err := hs512.CreateToken(clientPayload(), time.Hour, model.TokenClassAccess)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x", ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour))},
		Type:             "CLIENT",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x"},
		Type:             "CLIENT",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "tampered signature", token: tamper(valid)},
		{name: "signed with another secret", token: foreign},
		{name: "different algorithm", token: wrongAlg},
		{name: "alg none", token: unsigned},
		{name: "missing expiry", token: noExpiry},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			payload, err := j.GetPayload(tt.token, model.TokenClassAccess)
			require.ErrorIs(t, err, model.ErrTokenInvalid)
			assert.Equal(t, model.TokenPayload{}, payload)
		})
	}
}

func TestJWT_RejectsAnyLastCharacterChange(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	j := newTestJWT(t, clock)

	tok, err := j.CreateToken(clientPayload(), time.Hour, model.TokenClassAccess)
	require.NoError(t, err)

	last := tok[len(tok)-1]
	for _, c := range []byte(base64URLAlphabet) {
		if c == last {
			continue
		}
		tampered := tok[:len(tok)-1] + string(c)
		t.Run(tampered[len(tampered)-4:], func(t *testing.T) {
			_, err := j.GetPayload(tampered, model.TokenClassAccess)
			require.ErrorIs(t, err, model.ErrTokenInvalid)
		})
	}
}

func TestJWT_SecretSelector(t *testing.T) {
	clock := &fakeClock{now: time.Now()}

	withoutRefresh := newTestJWT(t, clock)
	_, err := withoutRefresh.CreateToken(clientPayload(), time.Hour, model.TokenClassRefresh)
	require.Error(t, err)

	j := newTestJWT(t, clock, WithRefreshSecret("refresh-secret"))
	refresh, err := j.CreateToken(clientPayload(), time.Hour, model.TokenClassRefresh)
	require.NoError(t, err)

	_, err = j.GetPayload(refresh, model.TokenClassRefresh)
	require.NoError(t, err)

	_, err = j.GetPayload(refresh, model.TokenClassAccess)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestNewJWT_Validation(t *testing.T) {
	_, err := NewJWT("", "HS256")
	require.Error(t, err)

	_, err = NewJWT("secret", "RS256")
	require.Error(t, err)

	_, err = NewJWT("secret", "none")
	require.Error(t, err)
}

func TestJWT_CreateToken_RequiresSubjectAndType(t *testing.T) {
	j := newTestJWT(t, &fakeClock{now: time.Now()})

	_, err := j.CreateToken(model.TokenPayload{Type: model.RoleClient}, time.Hour, model.TokenClassAccess)
	require.Error(t, err)

	_, err = j.CreateToken(model.TokenPayload{Subject: "1"}, time.Hour, model.TokenClassAccess)
	require.Error(t, err)
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// tamper replaces the first character of the signature segment.
func tamper(tok string) string {
	i := strings.LastIndex(tok, ".") + 1
	b := []byte(tok)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
