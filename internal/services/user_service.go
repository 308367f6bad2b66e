package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/metrics"
	"github.com/rings-s/anha/internal/models"
	"github.com/rings-s/anha/internal/repositories"
)

const minPasswordLength = 8

// AdminUserInput carries the fields an admin may set on a user.
type AdminUserInput struct {
	Email    string
	FullName string
	Phone    string
	Password string // create only
	Role     models.Role
	IsActive bool
}

// UserServiceInterface owns account lifecycle: self-registration, login
// verification, password reset, and admin-side user management.
type UserServiceInterface interface {
	Register(ctx context.Context, email, password, fullName, phone string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error

	Create(ctx context.Context, actor *models.Identity, input *AdminUserInput) (*models.User, error)
	Update(ctx context.Context, actor *models.Identity, id uuid.UUID, input *AdminUserInput) (*models.User, error)
	Delete(ctx context.Context, actor *models.Identity, id uuid.UUID) error
	List(ctx context.Context, actor *models.Identity, limit, offset int) ([]*models.User, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	creds     CredentialService
	notifier  Notifier
	metrics   *metrics.Metrics
	resetTTL  time.Duration
}

func NewUserService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	creds CredentialService,
	notifier Notifier,
	appMetrics *metrics.Metrics,
	resetTTL time.Duration,
) UserServiceInterface {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		creds:     creds,
		notifier:  notifier,
		metrics:   appMetrics,
		resetTTL:  resetTTL,
	}
}

// Register creates a client account. Self-registration never yields a
// staff or admin role, whatever the request asked for.
func (s *userService) Register(ctx context.Context, email, password, fullName, phone string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := common.ValidateRequiredString(email, "email"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(fullName, "full_name"); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, minPasswordLength)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already in use", common.ErrInvalidInput)
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		Phone:        phone,
		Role:         models.RoleClient,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.Registrations.Inc()
	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate verifies an email/password pair. Unknown email, wrong
// password, and inactive account all collapse to ErrInvalidCredential.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil || !user.IsActive || !s.creds.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredential
	}

	s.metrics.Logins.Inc()
	return user, nil
}

// RequestPasswordReset issues a reset token and emails the link. The
// result is identical whether or not the email belongs to an account, so
// the endpoint cannot be used to probe for membership.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, tokenHash, err := s.creds.NewResetToken()
	if err != nil {
		return err
	}
	reset := &models.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.tokenRepo.Create(ctx, reset); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	go s.notifier.SendPasswordResetLink(context.WithoutCancel(ctx), user.Email, token)
	return nil
}

// ConfirmPasswordReset consumes a reset token and sets a new password.
// Every token the user held is deleted on success.
func (s *userService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, minPasswordLength)
	}

	reset, err := s.tokenRepo.GetByHash(ctx, s.creds.HashResetToken(token))
	if err != nil {
		return fmt.Errorf("look up reset token: %w", err)
	}
	if reset == nil || time.Now().After(reset.ExpiresAt) {
		return common.ErrInvalidCredential
	}

	user, err := s.userRepo.GetByID(ctx, reset.UserID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user", common.ErrNotFound)
	}

	hash, err := s.creds.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.tokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("consume reset tokens: %w", err)
	}

	slog.Info("password reset completed", "user_id", user.ID)
	return nil
}

// Create adds a user with any role. Admin only.
func (s *userService) Create(ctx context.Context, actor *models.Identity, input *AdminUserInput) (*models.User, error) {
	if !Allows(actor.Role, ActionManageUsers) {
		return nil, common.ErrForbidden
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := common.ValidateRequiredString(email, "email"); err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, minPasswordLength)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already in use", common.ErrInvalidInput)
	}

	hash, err := s.creds.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Role:         input.Role,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update edits a user's profile fields, role and active flag. Admin only.
func (s *userService) Update(ctx context.Context, actor *models.Identity, id uuid.UUID, input *AdminUserInput) (*models.User, error) {
	if !Allows(actor.Role, ActionManageUsers) {
		return nil, common.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", common.ErrNotFound)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("look up user: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: email already in use", common.ErrInvalidInput)
		}
	}

	user.Email = email
	user.FullName = input.FullName
	user.Phone = input.Phone
	user.Role = input.Role
	user.IsActive = input.IsActive

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes a user and everything depending on them. Admins cannot
// delete their own account.
func (s *userService) Delete(ctx context.Context, actor *models.Identity, id uuid.UUID) error {
	if !Allows(actor.Role, ActionManageUsers) {
		return common.ErrForbidden
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete own account", common.ErrForbidden)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user", common.ErrNotFound)
	}

	if err := s.userRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", id, "actor_id", actor.ID)
	return nil
}

func (s *userService) List(ctx context.Context, actor *models.Identity, limit, offset int) ([]*models.User, error) {
	if !Allows(actor.Role, ActionManageUsers) {
		return nil, common.ErrForbidden
	}
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.userRepo.List(ctx, limit, offset)
}
