package readstore

import (
	"context"

	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/pgconv"
	"salon-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

const userByIDSQL = `
SELECT id, email, role, name, is_active
FROM users
WHERE id = $1`

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var view queries.AuthorizedUserView
	err := r.db.QueryRow(ctx, userByIDSQL, id).Scan(
		&view.ID, &view.Email, &view.Role, &view.Name, &view.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &view, nil
}

const userByEmailSQL = `
SELECT id, email, role, name, is_active, password_hash
FROM users
WHERE email = $1`

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	var (
		view queries.AuthorizedUserView
		hash string
	)
	err := r.db.QueryRow(ctx, userByEmailSQL, email).Scan(
		&view.ID, &view.Email, &view.Role, &view.Name, &view.IsActive, &hash,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &view, hash, nil
}
