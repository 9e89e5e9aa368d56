package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"salon-scheduler/internal/domain/auth"
	"salon-scheduler/internal/domain/user"
	reqdto "salon-scheduler/internal/handler/dto/request"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/errs"
	"salon-scheduler/internal/pkg/jwt"
	"salon-scheduler/internal/pkg/password"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/internal/usecase/shared"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrEmailAlreadyTaken    = errs.New("email already taken")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

type LoginResult struct {
	UserID    uuid.UUID
	TokenPair *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type RegisterResult struct {
	UserID uuid.UUID
	// GeneratedPassword is set only for walk-in accounts created without a
	// chosen password; the desk hands it to the client.
	GeneratedPassword *string
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Register(ctx context.Context, req reqdto.RegisterRequest) (*RegisterResult, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	userView, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(userView.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	tokenPair, err := a.issueTokenPair(userView.ID, role)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		updateErr := tx.Users().UpdateLastLogin(ctx, tx.DB(), userView.ID)
		if updateErr != nil {
			slog.Warn("failed to update last login", "user_id", userView.ID, "error", updateErr.Error())
			// Continue without failing - this is not critical
		}
		return nil
	})
	if err != nil {
		slog.Warn("transaction failed during login", "user_id", userView.ID, "error", err.Error())
		// Continue without failing - login was successful, only last_login update failed
	}

	return &LoginResult{
		UserID:    userView.ID,
		TokenPair: tokenPair,
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	// Validate user still exists and is active
	userView, err := a.readStore.FindByID(ctx, claims.UserID)
	if err != nil || userView == nil {
		return nil, ErrUserNotFound
	}

	if !userView.IsActive {
		return nil, ErrUserInactive
	}

	return a.issueTokenPair(claims.UserID, role)
}

func (a *authCommandsImpl) Register(ctx context.Context, req reqdto.RegisterRequest) (*RegisterResult, error) {
	plaintext := ""
	var generated *string
	if req.Password != nil {
		plaintext = *req.Password
	} else {
		random, err := password.GenerateRandom()
		if err != nil {
			return nil, errs.Mark(err, ErrAuthenticationFailed)
		}
		plaintext = random
		generated = &random
	}

	hash, err := password.HashPassword(plaintext)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	var birthDate *time.Time
	if req.BirthDate != nil {
		parsed, parseErr := time.Parse("2006-01-02", *req.BirthDate)
		if parseErr != nil {
			return nil, errs.Mark(parseErr, ErrDomainValidation)
		}
		birthDate = &parsed
	}

	email, err := user.NewEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	phone := ""
	if req.Phone != nil {
		phone = *req.Phone
	}
	entity := user.NewUser(email, hash, user.RoleClient, req.Name, phone, birthDate)

	var userID uuid.UUID
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Users().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return ErrEmailAlreadyTaken
			}
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		userID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RegisterResult{UserID: userID, GeneratedPassword: generated}, nil
}

func (a *authCommandsImpl) issueTokenPair(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials auth.Credentials) (*queries.AuthorizedUserView, error) {
	userView, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		// Return same error as password mismatch to prevent user enumeration attacks
		return nil, ErrInvalidCredentials
	}

	if userView == nil {
		return nil, ErrUserNotFound
	}

	if !userView.IsActive {
		return nil, ErrUserInactive
	}

	err = password.ComparePassword(hashedPassword, credentials.Password().Value())
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return userView, nil
}
