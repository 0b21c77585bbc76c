package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"materihub/internal/auth"
	"materihub/internal/config"
	"materihub/internal/domain"
	"materihub/internal/domain/models"
	"materihub/internal/domain/repositories"
	"materihub/internal/domain/services"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// errBadCredentials is the single message for every failed login
var errBadCredentials = fmt.Errorf("invalid username or password: %w", domain.ErrUnauthorized)

// userService implements the UserService interface
type userService struct {
	userRepo   repositories.UserRepository
	materiRepo repositories.MateriRepository
	passwords  auth.PasswordManager
	tokens     auth.TokenIssuer
	logger     *slog.Logger

	// dummyHash is compared against when the username does not exist so both
	// failure paths cost one bcrypt comparison
	dummyHash string
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	materiRepo repositories.MateriRepository,
	passwords auth.PasswordManager,
	tokens auth.TokenIssuer,
	logger *slog.Logger,
) (services.UserService, error) {
	dummyHash, err := passwords.Hash("materihub-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare password hasher: %w", err)
	}

	return &userService{
		userRepo:   userRepo,
		materiRepo: materiRepo,
		passwords:  passwords,
		tokens:     tokens,
		logger:     logger,
		dummyHash:  dummyHash,
	}, nil
}

// Signup registers a new user
func (s *userService) Signup(ctx context.Context, req *services.SignupRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)

	if err := s.validateSignupRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Username:     req.Username,
		DisplayName:  req.Name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up",
		"id", user.ID,
		"username", user.Username,
	)

	return user, nil
}

// Login checks credentials and issues a session token
func (s *userService) Login(ctx context.Context, req *services.LoginRequest) (*services.Session, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, errBadCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.passwords.Compare(s.dummyHash, req.Password)
			s.logger.Debug("login for unknown user", "username", username)
			return nil, errBadCredentials
		}
		return nil, err
	}

	if err := s.passwords.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Debug("login with wrong password", "user_id", user.ID)
		return nil, errBadCredentials
	}

	token, err := s.tokens.Issue(&models.AuthUser{ID: user.ID, Username: user.Username})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &services.Session{Token: token, User: user}, nil
}

// GetProfile returns a user's profile with their materi count
func (s *userService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.materiRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		MateriCount: count,
	}, nil
}

// ChangePassword replaces the password after verifying the current one
func (s *userService) ChangePassword(ctx context.Context, userID string, req *services.ChangePasswordRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.CurrentPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required,
			validation.Length(config.MinPasswordLength, config.MaxPasswordLength)),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwords.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return &domain.ValidationError{Message: "current password is incorrect"}
	}

	hash, err := s.passwords.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// validateSignupRequest validates a signup request
func (s *userService) validateSignupRequest(req *services.SignupRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxNameLength)),
		validation.Field(&req.Username,
			validation.Required,
			validation.Length(config.MinUsernameLength, config.MaxUsernameLength),
			validation.Match(usernamePattern).Error("may only contain letters, digits, '.', '_' and '-'"),
		),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(config.MinPasswordLength, config.MaxPasswordLength),
		),
	)
}
