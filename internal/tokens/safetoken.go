package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The safe-token codec signs the links embedded in verification and
// password-reset emails. Its key is derived from the bearer secret with
// a fixed salt, so the two token kinds are never cross-decodable even
// though they share one configured secret.
const (
	safeTokenSalt     = "email-configuration"
	safeTokenAudience = "email-links"
)

type safeClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type SafeCodec struct {
	key    []byte
	maxAge time.Duration
}

func NewSafeCodec(secret []byte, maxAge time.Duration) *SafeCodec {
	mac := hmac.New(sha256.New, []byte(safeTokenSalt))
	mac.Write(secret)
	return &SafeCodec{key: mac.Sum(nil), maxAge: maxAge}
}

// IssueSafe wraps an email address in a signed, timestamped token. No
// expiry is embedded; age is enforced at decode time.
func (c *SafeCodec) IssueSafe(email string) (string, error) {
	claims := safeClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience: jwt.ClaimStrings{safeTokenAudience},
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// DecodeSafe verifies signature, namespace and age, returning the
// embedded email address.
func (c *SafeCodec) DecodeSafe(raw string) (string, error) {
	var claims safeClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return c.key, nil
	}, jwt.WithAudience(safeTokenAudience), jwt.WithIssuedAt())
	if err != nil || !tkn.Valid {
		return "", ErrInvalidToken
	}
	if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > c.maxAge {
		return "", ErrInvalidToken
	}
	if claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}
