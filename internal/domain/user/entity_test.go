//go:build unit

package user_test

import (
	"testing"
	"time"

	"salon-scheduler/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates an active client account", func(t *testing.T) {
		email, err := user.NewEmail("client@example.com")
		require.NoError(t, err)
		role, err := user.NewRole("client")
		require.NoError(t, err)

		birthDate := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
		u := user.NewUser(email, "hashed", role, "Jane Doe", "+33612345678", &birthDate)

		require.NotNil(t, u)
		assert.NotEqual(t, "", u.ID().String())
		assert.Equal(t, "client@example.com", u.Email().Value())
		assert.Equal(t, user.RoleClient, u.Role())
		assert.Equal(t, "Jane Doe", u.Name())
		assert.True(t, u.IsActive())
		require.NotNil(t, u.BirthDate())
		assert.True(t, u.BirthDate().Equal(birthDate))
		assert.Nil(t, u.LastLogin())
	})
}

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		errIs error
	}{
		{name: "valid email", input: "test@example.com", want: "test@example.com"},
		{name: "trims surrounding whitespace", input: "  test@example.com  ", want: "test@example.com"},
		{name: "missing domain", input: "test@", errIs: user.ErrInvalidEmail},
		{name: "missing local part", input: "@example.com", errIs: user.ErrInvalidEmail},
		{name: "missing tld", input: "test@example", errIs: user.ErrInvalidEmail},
		{name: "empty", input: "", errIs: user.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := user.NewEmail(tt.input)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, email.Value())
		})
	}
}

func TestNewRole(t *testing.T) {
	for _, valid := range []string{"client", "staff", "admin"} {
		role, err := user.NewRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, role.String())
	}

	_, err := user.NewRole("superuser")
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestNewPassword(t *testing.T) {
	t.Run("accepts 8 or more characters", func(t *testing.T) {
		p, err := user.NewPassword("password123")
		require.NoError(t, err)
		assert.Equal(t, "password123", p.Value())
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := user.NewPassword("short")
		assert.ErrorIs(t, err, user.ErrPasswordTooWeak)
	})
}
