package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails signature,
// structural or expiry validation. Callers never see raw jwt errors.
var ErrInvalidToken = errors.New("invalid or expired token")

// UserSnapshot is the identity embedded in a bearer token. It is not
// re-validated against storage on every request, only at issuance.
type UserSnapshot struct {
	Username string `json:"username"`
	UserUID  string `json:"user_uid"`
	Role     string `json:"role"`
}

type BearerClaims struct {
	User    UserSnapshot `json:"user"`
	Refresh bool         `json:"refresh"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens. Built once from config and
// shared read-only across all requests.
type Codec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret []byte, alg string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", alg)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not symmetric", alg)
	}
	return &Codec{
		secret:     secret,
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Issue builds and signs a bearer token for user. A zero ttl falls back
// to the configured access or refresh lifetime depending on the refresh
// flag. Every call mints a fresh jti.
func (c *Codec) Issue(user UserSnapshot, ttl time.Duration, refresh bool) (string, error) {
	if ttl == 0 {
		if refresh {
			ttl = c.refreshTTL
		} else {
			ttl = c.accessTTL
		}
	}

	now := time.Now().UTC()
	claims := BearerClaims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Decode verifies the signature and expiry of a bearer token. It does
// not consult the revocation store; that check is layered on top by the
// token guards.
func (c *Codec) Decode(raw string) (*BearerClaims, error) {
	var claims BearerClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
