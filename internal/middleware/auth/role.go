package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pokeru-app/backend/internal/models"
	"github.com/pokeru-app/backend/internal/repo"
)

const userKey = "current_user"

// UserResolver looks up the full identity behind an accepted token.
type UserResolver interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Allowed reports whether the identity's role is in the allowed set.
// The policy is stateless; the echo adapter lives in RoleGate.
func Allowed(allowedRoles []string, user *models.User) bool {
	for _, role := range allowedRoles {
		if user.Role == role {
			return true
		}
	}
	return false
}

type RoleGate struct {
	Users UserResolver
}

// Require resolves the current user from the access token accepted by
// the guard and enforces verified status before role membership.
func (g *RoleGate) Require(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromContext(c)
			if claims == nil {
				return tokenFailure(http.StatusUnauthorized, "token not provided")
			}

			user, err := g.Users.GetUserByUsername(c.Request().Context(), claims.User.Username)
			if err != nil {
				if errors.Is(err, repo.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusNotFound, echo.Map{"detail": "user not found"})
				}
				return err
			}

			if !user.IsVerified {
				return echo.NewHTTPError(http.StatusForbidden, echo.Map{"detail": "account not verified"})
			}
			if !Allowed(allowedRoles, user) {
				return echo.NewHTTPError(http.StatusForbidden, echo.Map{"detail": "not allowed to perform this action"})
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the identity resolved by a role gate earlier
// in the chain, or nil.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}
