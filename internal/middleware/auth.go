package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/services"
)

// AccessTokenCookie is the cookie carrying the signed access token.
const AccessTokenCookie = "access_token"

// AuthMiddleware resolves the session cookie into an identity on the
// request context.
type AuthMiddleware struct {
	identity services.IdentityService
}

func NewAuthMiddleware(identity services.IdentityService) *AuthMiddleware {
	return &AuthMiddleware{identity: identity}
}

func tokenFromRequest(c echo.Context) string {
	cookie, err := c.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RequireIdentity rejects the request with 401 unless a valid, active
// session cookie is present.
func (m *AuthMiddleware) RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
			}

			identity, err := m.identity.Resolve(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}

			ctx := common.WithIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// OptionalIdentity attaches an identity when a valid cookie is present
// and lets anonymous requests through untouched.
func (m *AuthMiddleware) OptionalIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if identity := m.identity.ResolveOptional(c.Request().Context(), tokenFromRequest(c)); identity != nil {
				ctx := common.WithIdentity(c.Request().Context(), identity)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}
