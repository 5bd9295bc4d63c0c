package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/repositories"
)

const minPasswordLength = 8

type AuthService interface {
	// Register creates an administrator account. The first registered
	// account gets the admin flag; later accounts must be promoted
	// directly in the database.
	Register(ctx context.Context, creds models.Credentials) (*models.User, error)
	// Login verifies credentials and returns the account for token
	// issuance by the handler.
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, logger *slog.Logger) AuthService {
	return &authService{userRepo: userRepo, logger: logger}
}

func (s *authService) Register(ctx context.Context, creds models.Credentials) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidationFailed)
	}
	if len(creds.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing admins: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Admin:        len(admins) == 0,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int("id", user.ID),
		slog.Bool("admin", user.Admin),
	)
	return user, nil
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *authService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}
