package model

import "time"

// TokenClass selects the signing secret for a token.
type TokenClass string

const (
	TokenClassAccess  TokenClass = "access"
	TokenClassRefresh TokenClass = "refresh"
)

// TokenPayload is the typed content of a session token.
type TokenPayload struct {
	Subject   string
	Type      Role
	ExpiresAt time.Time
}

// TokenManager signs and verifies session tokens.
//
// GetPayload returns ErrTokenExpired once the expiry has been reached and
// ErrTokenInvalid for every other verification failure.
type TokenManager interface {
	CreateToken(payload TokenPayload, ttl time.Duration, class TokenClass) (string, error)
	GetPayload(token string, class TokenClass) (TokenPayload, error)
}
