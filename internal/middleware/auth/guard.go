package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pokeru-app/backend/internal/blocklist"
	"github.com/pokeru-app/backend/internal/tokens"
)

const claimsKey = "token_claims"

// TokenGuard gates requests on a valid bearer token. It is read-only:
// it checks the blocklist but never writes to it.
type TokenGuard struct {
	Codec     *tokens.Codec
	Blocklist *blocklist.Blocklist
}

func tokenFailure(code int, msg string) *echo.HTTPError {
	return echo.NewHTTPError(code, echo.Map{
		"error":      msg,
		"resolution": "please get a new token",
	})
}

func (g *TokenGuard) check(c echo.Context) (*tokens.BearerClaims, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, found := strings.CutPrefix(header, "Bearer ")
	raw = strings.TrimSpace(raw)
	if !found || raw == "" {
		return nil, tokenFailure(http.StatusUnauthorized, "token not provided")
	}

	claims, err := g.Codec.Decode(raw)
	if err != nil {
		return nil, tokenFailure(http.StatusForbidden, "invalid or expired token")
	}

	revoked, err := g.Blocklist.IsRevoked(c.Request().Context(), claims.ID)
	if err != nil {
		// Fail closed: an unreachable blocklist must not let a
		// revoked token through.
		return nil, tokenFailure(http.StatusServiceUnavailable, "unable to validate token")
	}
	if revoked {
		return nil, tokenFailure(http.StatusForbidden, "invalid or revoked token")
	}

	return claims, nil
}

// RequireAccess accepts only non-refresh bearer tokens.
func (g *TokenGuard) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := g.check(c)
		if err != nil {
			return err
		}
		if claims.Refresh {
			return tokenFailure(http.StatusForbidden, "please provide an access token")
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}

// RequireRefresh accepts only refresh bearer tokens.
func (g *TokenGuard) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := g.check(c)
		if err != nil {
			return err
		}
		if !claims.Refresh {
			return tokenFailure(http.StatusForbidden, "please provide a refresh token")
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}

// ClaimsFromContext returns the token accepted by a guard earlier in
// the chain, or nil when no guard ran.
func ClaimsFromContext(c echo.Context) *tokens.BearerClaims {
	claims, _ := c.Get(claimsKey).(*tokens.BearerClaims)
	return claims
}
