package response

import (
	"salon-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	AccessToken  string                      `json:"access_token"`
	RefreshToken string                      `json:"refresh_token"`
	User         *queries.AuthorizedUserView `json:"user"`
}

type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterResponse struct {
	UserID uuid.UUID `json:"user_id"`
	// GeneratedPassword is returned once for walk-in registrations created
	// without a chosen password.
	GeneratedPassword *string `json:"generated_password,omitempty"`
}
