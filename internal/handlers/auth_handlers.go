package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/middleware"
	"github.com/rings-s/anha/internal/repositories"
	"github.com/rings-s/anha/internal/services"
)

// AuthHandlers handles registration, login and password reset requests.
type AuthHandlers struct {
	userService services.UserServiceInterface
	creds       services.CredentialService
	userRepo    repositories.UserRepository
	cookieTTL   time.Duration
	secure      bool
}

func NewAuthHandlers(
	userService services.UserServiceInterface,
	creds services.CredentialService,
	userRepo repositories.UserRepository,
	cookieTTL time.Duration,
	secure bool,
) *AuthHandlers {
	return &AuthHandlers{
		userService: userService,
		creds:       creds,
		userRepo:    userRepo,
		cookieTTL:   cookieTTL,
		secure:      secure,
	}
}

// RegisterRequest represents the self-registration payload. Any role
// sent here is ignored; self-registration always yields a client.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
}

// Register handles client self-registration and starts a session.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, err := h.userService.Register(ctx, req.Email, req.Password, req.FullName, req.Phone)
	if err != nil {
		return httpError(err)
	}

	if err := h.startSession(c, user.Email); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := h.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	if err := h.startSession(c, user.Email); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Logout clears the session cookie.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
	}

	user, err := h.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		return httpError(err)
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

// ResetRequestRequest represents the password reset request payload.
type ResetRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestPasswordReset kicks off the reset flow. The response does not
// reveal whether the email belongs to an account.
func (h *AuthHandlers) RequestPasswordReset(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResetRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	if err := h.userService.RequestPasswordReset(ctx, req.Email); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "if the email is registered, a reset link has been sent",
	})
}

// ResetConfirmRequest represents the password reset confirmation payload.
type ResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (h *AuthHandlers) ConfirmPasswordReset(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	if err := h.userService.ConfirmPasswordReset(ctx, req.Token, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandlers) startSession(c echo.Context, email string) error {
	token, err := h.creds.NewAccessToken(email)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
