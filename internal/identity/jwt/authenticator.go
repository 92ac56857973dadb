// Package jwt implements the bearer token service: issuing and verifying
// signed, time-limited credentials bound to a user id.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any verification failure: malformed
// input, bad signature, or expiry. Callers must not distinguish them.
var ErrInvalidToken = errors.New("invalid or expired token")

// Config contains token signing configuration. The secret is process-wide,
// read once at startup.
type Config struct {
	Secret        string
	TokenDuration time.Duration
}

// claims is the self-contained claim set carried by every token.
type claims struct {
	UserID string `json:"userId"`
	jwtlib.RegisteredClaims
}

// Authenticator issues and verifies HS256 bearer tokens.
type Authenticator struct {
	secret   []byte
	duration time.Duration
}

// NewAuthenticator creates a token authenticator. The caller is expected
// to have validated that the secret is non-empty at startup.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		secret:   []byte(cfg.Secret),
		duration: cfg.TokenDuration,
	}
}

// Issue produces a signed token encoding the user id and an expiry
// derived from the configured validity window.
func (a *Authenticator) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(a.duration)),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the user id the token
// was issued for. Every failure mode maps to ErrInvalidToken; the caller
// presents a uniform 401 surface.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	tokenClaims, ok := token.Claims.(*claims)
	if !ok || !token.Valid || tokenClaims.UserID == "" {
		return "", ErrInvalidToken
	}

	return tokenClaims.UserID, nil
}
