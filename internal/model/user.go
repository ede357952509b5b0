package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for identities.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// Transactor runs fn inside a single storage transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Role tags an identity and the tokens issued for it.
type Role string

const (
	RoleClient       Role = "CLIENT"
	RolePsychologist Role = "PSYCHOLOGIST"
	RoleAdmin        Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RolePsychologist, RoleAdmin:
		return true
	}
	return false
}

// User represents a stored identity. Profile fields are owned by the profile
// subsystem and are never written here.
type User struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	Phone     *string
	Name      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail trims and lower-cases an email before any lookup or insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
