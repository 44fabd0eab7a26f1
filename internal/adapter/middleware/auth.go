package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	userDomain "library-backend/internal/domain/user"
	"library-backend/pkg/jwt"
)

const (
	ctxUserID   = "user_id"
	ctxUserRole = "role"
)

// Auth validates the Bearer token and attaches the principal to the context.
func Auth(tokens *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := bearerClaims(c, tokens)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or invalid token"})
			}
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxUserRole, claims.Role)
			return next(c)
		}
	}
}

// OptionalAuth attaches the principal when a valid token is present and
// lets everything else through as anonymous. The search endpoint uses this
// to widen results for admins without requiring login.
func OptionalAuth(tokens *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, ok := bearerClaims(c, tokens); ok {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxUserRole, claims.Role)
			}
			return next(c)
		}
	}
}

// AdminOnly gates a route on the admin role; run it after Auth.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, role, ok := Principal(c); !ok || role != userDomain.RoleAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

// Principal returns the authenticated user, if any.
func Principal(c echo.Context) (userID uint64, role string, ok bool) {
	uid, okID := c.Get(ctxUserID).(uint64)
	r, okRole := c.Get(ctxUserRole).(string)
	if !okID || !okRole {
		return 0, "", false
	}
	return uid, r, true
}

func bearerClaims(c echo.Context, tokens *jwt.Manager) (*jwt.Claims, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}
	claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, false
	}
	return claims, true
}
