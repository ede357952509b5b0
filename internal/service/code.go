package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/metrics"
	"github.com/dtroode/codeauth-server/internal/model"
)

const codeKeyPrefix = "confirm_code:"

// CodeService issues and checks one-time login codes kept in a cache under a
// per-email key. At most one code is live per email.
type CodeService struct {
	cache  model.Cache
	digits int
	ttl    time.Duration
	random func(digits int) (string, error)
	logger *logger.Logger
}

func NewCodeService(cache model.Cache, digits int, ttl time.Duration, logger *logger.Logger) *CodeService {
	return &CodeService{
		cache:  cache,
		digits: digits,
		ttl:    ttl,
		random: randomCode,
		logger: logger,
	}
}

func codeKey(email string) string {
	return codeKeyPrefix + email
}

// Issue generates a new code for email, replacing any live one.
func (s *CodeService) Issue(ctx context.Context, email string) (string, error) {
	code, err := s.random(s.digits)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	if err := s.cache.Set(ctx, codeKey(email), code, s.ttl); err != nil {
		s.logger.Error("Code service: failed to store code",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to store code: %w", err)
	}

	metrics.CodesIssued.Inc()
	s.logger.Debug("Code service: code issued",
		"email", email,
		"ttl", s.ttl.String())

	return code, nil
}

// Verify reports whether submitted equals the live code for email. It does
// not consume the code. A cache failure is returned as an error and never as
// a mismatch.
func (s *CodeService) Verify(ctx context.Context, email, submitted string) (bool, error) {
	stored, err := s.cache.Get(ctx, codeKey(email))
	if errors.Is(err, model.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		s.logger.Error("Code service: failed to read code",
			"email", email,
			"error", err.Error())
		return false, fmt.Errorf("failed to read code: %w", err)
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1, nil
}

// Invalidate removes the live code for email and reports whether one existed.
func (s *CodeService) Invalidate(ctx context.Context, email string) (bool, error) {
	deleted, err := s.cache.Delete(ctx, codeKey(email))
	if err != nil {
		s.logger.Error("Code service: failed to invalidate code",
			"email", email,
			"error", err.Error())
		return false, fmt.Errorf("failed to invalidate code: %w", err)
	}

	return deleted, nil
}

// randomCode returns a uniformly random number with exactly digits digits.
func randomCode(digits int) (string, error) {
	if digits < 1 || digits > 18 {
		return "", fmt.Errorf("unsupported code length %d", digits)
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	high := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)

	n, err := rand.Int(rand.Reader, new(big.Int).Sub(high, low))
	if err != nil {
		return "", err
	}

	return n.Add(n, low).String(), nil
}
