package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/codeauth-server/internal/model"
)

// Claims represents JWT claims with the identity type tag.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secrets map[model.TokenClass][]byte
	method  *jwt.SigningMethodHMAC
	now     func() time.Time
}

// Option configures a JWT manager.
type Option func(*JWT)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// WithRefreshSecret registers the secret for refresh-class tokens.
func WithRefreshSecret(secret string) Option {
	return func(j *JWT) {
		if secret != "" {
			j.secrets[model.TokenClassRefresh] = []byte(secret)
		}
	}
}

// NewJWT creates a new JWT token manager. The algorithm is fixed for the
// manager's lifetime and must be one of HS256, HS384 or HS512.
func NewJWT(secret, algorithm string, opts ...Option) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	j := &JWT{
		secrets: map[model.TokenClass][]byte{model.TokenClassAccess: []byte(secret)},
		method:  method,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	return j, nil
}

var _ model.TokenManager = (*JWT)(nil)

// CreateToken signs payload with an expiry of now+ttl. The payload's own
// ExpiresAt is ignored.
func (j *JWT) CreateToken(payload model.TokenPayload, ttl time.Duration, class model.TokenClass) (string, error) {
	secret, ok := j.secrets[class]
	if !ok {
		return "", fmt.Errorf("no secret configured for %s tokens", class)
	}
	if payload.Subject == "" || payload.Type == "" {
		return "", errors.New("token payload requires subject and type")
	}

	token := jwt.NewWithClaims(j.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Subject,
			ExpiresAt: jwt.NewNumericDate(j.now().Add(ttl)),
		},
		Type: string(payload.Type),
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", class, err)
	}

	return tokenString, nil
}

// GetPayload validates signature, algorithm and expiry and returns the payload.
// Segments must be canonical base64url, so unused trailing bits cannot vary.
func (j *JWT) GetPayload(tokenString string, class model.TokenClass) (model.TokenPayload, error) {
	secret, ok := j.secrets[class]
	if !ok {
		return model.TokenPayload{}, fmt.Errorf("%w: no secret configured for %s tokens", model.ErrTokenInvalid, class)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenPayload{}, fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
		}
		return model.TokenPayload{}, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}

	if claims.Subject == "" || claims.Type == "" {
		return model.TokenPayload{}, fmt.Errorf("%w: missing subject or type", model.ErrTokenInvalid)
	}

	return model.TokenPayload{
		Subject:   claims.Subject,
		Type:      model.Role(claims.Type),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
