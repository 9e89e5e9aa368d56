package repository

import (
	"context"

	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const createUserSQL = `
INSERT INTO users (id, email, password_hash, role, name, phone, birth_date, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

func (r *UserRepository) Create(ctx context.Context, dbtx db.DBTX, u *user.User) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createUserSQL,
		u.ID(),
		u.Email().Value(),
		u.PasswordHash(),
		u.Role().String(),
		u.Name(),
		u.Phone(),
		u.BirthDate(),
		u.IsActive(),
	).Scan(&id)
	if err != nil {
		if kind, ok := infra.ClassifyPgError(err); ok {
			return uuid.Nil, infra.WrapRepoErr("failed to create user", err, kind)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}
	return id, nil
}

const updateLastLoginSQL = `
UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1`

func (r *UserRepository) UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, updateLastLoginSQL, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}
