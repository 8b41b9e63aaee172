// Package auth issues and verifies bearer tokens and guards protected routes.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Error is an authentication failure with its HTTP mapping.
type Error struct {
	Status  int
	Message string
	Code    string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrNoToken      = &Error{Status: http.StatusUnauthorized, Message: "Unauthorized: No token provided", Code: "no_token"}
	ErrInvalidToken = &Error{Status: http.StatusForbidden, Message: "Invalid token", Code: "invalid_token"}
	ErrTokenExpired = &Error{Status: http.StatusForbidden, Message: "Token expired", Code: "token_expired"}
)

// Claims carried by every token. UserID serializes as "id".
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens against a shared secret. It is safe for
// concurrent use.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify returns the user id in token or one of ErrNoToken, ErrInvalidToken,
// ErrTokenExpired.
func (v *Verifier) Verify(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrNoToken
	}

	var claims Claims
	_, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// Issuer signs tokens for authenticated users.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs {id, iat, exp} for userID.
func (i *Issuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("auth: cannot issue token without a user id")
	}
	now := i.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}
	return signed, nil
}
