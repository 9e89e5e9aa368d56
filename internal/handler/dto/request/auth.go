package request

import (
	"salon-scheduler/internal/domain/auth"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *LoginRequest) ToDomain() (auth.Credentials, error) {
	return auth.NewCredentials(r.Email, r.Password)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterRequest covers both self-signup and walk-in account creation at
// the desk. Password is optional: walk-ins get a generated one.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  *string `json:"password,omitempty" binding:"omitempty,min=8"`
	Name      string  `json:"name" binding:"required"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"` // YYYY-MM-DD
}
