package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	authService "github.com/centrala/rainfall-gate/internal/auth/service"
	apperrors "github.com/centrala/rainfall-gate/internal/errors"
	"github.com/centrala/rainfall-gate/internal/user/domain"
	appValidation "github.com/centrala/rainfall-gate/internal/validation"
)

const minPasswordLength = 6

type userUseCase struct {
	userRepo  UserRepository
	tokens    authService.TokenService
	passwords authService.PasswordService
	elevation authDomain.AdminElevationRule
	now       func() time.Time
}

// NewUserUseCase creates a new user UseCase.
func NewUserUseCase(
	userRepo UserRepository,
	tokens authService.TokenService,
	passwords authService.PasswordService,
	elevation authDomain.AdminElevationRule,
) UseCase {
	return &userUseCase{
		userRepo:  userRepo,
		tokens:    tokens,
		passwords: passwords,
		elevation: elevation,
		now:       time.Now,
	}
}

// validateCredentials expects an already normalized email.
func validateCredentials(email, password string) error {
	err := validation.Errors{
		"email": validation.Validate(email,
			validation.Required.Error("email is required"),
			appValidation.EmailAddress,
			validation.Length(3, 320).Error("email must be at most 320 characters"),
		),
		"password": validation.Validate(password,
			validation.Required.Error("password is required"),
			appValidation.PasswordLength{MinLength: minPasswordLength},
		),
	}.Filter()
	return appValidation.WrapValidationError(err)
}

func (uc *userUseCase) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	return uc.createAccount(ctx, input)
}

func (uc *userUseCase) Create(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	return uc.createAccount(ctx, input)
}

func (uc *userUseCase) createAccount(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	email := domain.NormalizeEmail(input.Email)
	if err := validateCredentials(email, input.Password); err != nil {
		return nil, err
	}

	passwordSecret, err := uc.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:             uuid.Must(uuid.NewV7()),
		Email:          email,
		PasswordSecret: passwordSecret,
		IsAdmin:        uc.elevation.Elevate(email),
		CreatedAt:      uc.now().UTC(),
	}

	credential, err := uc.tokens.Issue(user.Claims(user.IsAdmin), 0)
	if err != nil {
		return nil, err
	}
	user.CurrentCredential = &credential

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &RegisterOutput{User: user, Credential: credential}, nil
}

// Login verifies the password, re-evaluates the admin flag against the
// elevation rule (overwriting the stored value) and issues a new token that
// replaces the user's current credential.
func (uc *userUseCase) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	email := domain.NormalizeEmail(input.Email)
	if err := validateCredentials(email, input.Password); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.passwords.Compare(input.Password, user.PasswordSecret) {
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now().UTC()
	user.IsAdmin = uc.elevation.Elevate(user.Email)
	user.LastUsedAt = &now

	token, err := uc.tokens.Issue(user.Claims(user.IsAdmin), 0)
	if err != nil {
		return nil, err
	}
	user.CurrentCredential = &token

	if err := uc.userRepo.UpdateLogin(ctx, user); err != nil {
		return nil, err
	}

	return &LoginOutput{User: user, Token: token}, nil
}

func (uc *userUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *userUseCase) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.List(ctx, offset, limit)
}

func (uc *userUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.userRepo.Delete(ctx, id)
}
