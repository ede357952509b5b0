package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("unique constraint violated")
	ErrCacheMiss        = errors.New("cache miss")
	ErrCacheUnavailable = errors.New("cache unavailable")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrInvalidCode      = errors.New("invalid code")
	ErrQueueFull        = errors.New("delivery queue is full")
)

// Kind classifies failures into the fixed set callers can act on.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidCode
	KindUnauthenticated
	KindConflict
	KindStorageUnavailable
	KindInvalidInput
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCode:
		return "invalid_code"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindConflict:
		return "conflict"
	case KindStorageUnavailable:
		return "storage_unavailable"
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error attaches a Kind to an underlying error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError wraps err with kind and the name of the failed operation.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the outermost *Error in err's chain. Sentinel
// errors without an explicit kind are classified by identity; anything else
// is KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	var kindErr *Error
	if errors.As(err, &kindErr) {
		return kindErr.Kind
	}

	switch {
	case errors.Is(err, ErrInvalidCode):
		return KindInvalidCode
	case errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenInvalid):
		return KindUnauthenticated
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrCacheUnavailable):
		return KindStorageUnavailable
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
