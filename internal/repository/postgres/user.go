package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/codeauth-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, email, role, phone, name, created_at, updated_at`

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(conn(ctx, r.db).QueryRow(ctx, query, model.NormalizeEmail(email)))
	if err != nil {
		return model.User{}, translate("get user by email", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return model.User{}, translate("get user by id", err)
	}

	return user, nil
}

// Create inserts user. A concurrent insert of the same email fails with a
// KindConflict error wrapping model.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, role, phone, name)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + userColumns

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = model.RoleClient
	}

	saved, err := scanUser(conn(ctx, r.db).QueryRow(ctx, query,
		user.ID, model.NormalizeEmail(user.Email), string(user.Role), user.Phone, user.Name,
	))
	if err != nil {
		return model.User{}, translate("create user", err)
	}

	return saved, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user model.User
		role string
	)
	err := row.Scan(
		&user.ID, &user.Email, &role, &user.Phone, &user.Name,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	user.Role = model.Role(role)
	if !user.Role.Valid() {
		return model.User{}, fmt.Errorf("unknown role %q for user %s", role, user.ID)
	}

	return user, nil
}
