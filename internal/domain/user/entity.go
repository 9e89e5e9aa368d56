package user

import (
	"time"

	"github.com/google/uuid"
)

// User covers both authenticated clients and staff. Accounts created during
// a walk-in booking get a generated password and behave like any other
// client account afterwards.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	name         string
	phone        string
	birthDate    *time.Time
	lastLogin    *time.Time
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email Email, passwordHash string, role Role, name, phone string, birthDate *time.Time) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		name:         name,
		phone:        phone,
		birthDate:    birthDate,
		isActive:     true,
	}
}

func ReconstructUser(
	id uuid.UUID,
	email Email,
	passwordHash string,
	role Role,
	name, phone string,
	birthDate, lastLogin *time.Time,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		name:         name,
		phone:        phone,
		birthDate:    birthDate,
		lastLogin:    lastLogin,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) Name() string          { return u.name }
func (u *User) Phone() string         { return u.phone }
func (u *User) BirthDate() *time.Time { return u.birthDate }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) IsActive() bool        { return u.isActive }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
