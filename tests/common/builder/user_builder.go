//go:build unit || e2e

package builder

import (
	"time"

	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string
	Phone        string
	BirthDate    *time.Time
	IsActive     bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Role:         "client",
		Name:         "Test User",
		Phone:        "",
		IsActive:     true,
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(email, u.PasswordHash, role, u.Name, u.Phone, u.BirthDate), nil
}

func (u *UserBuilder) BuildView() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       uuid.New(),
		Email:    u.Email,
		Role:     u.Role,
		Name:     u.Name,
		IsActive: u.IsActive,
	}
}

// Fluent builder methods
func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) WithName(name string) *UserBuilder {
	u.Name = name
	return u
}

func (u *UserBuilder) WithPhone(phone string) *UserBuilder {
	u.Phone = phone
	return u
}

func (u *UserBuilder) WithBirthDate(birthDate time.Time) *UserBuilder {
	u.BirthDate = &birthDate
	return u
}

func (u *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	u.PasswordHash = hash
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
