package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"helpdesk/internal/auth"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Role auth.Role `json:"role"`
	jwt.RegisteredClaims
}

// SignJWT issues an HS256 token for userID with exp = now + ttl.
func SignJWT(secret, userID string, role auth.Role, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(secret))
}

// ParseJWT verifies signature and expiry and returns the caller session.
// Tokens without exp, with another algorithm, or with an unknown role fail.
func ParseJWT(secret, token string) (auth.Session, error) {
	if secret == "" {
		return auth.Session{}, errors.New("jwt secret is empty")
	}
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return auth.Session{}, errors.Join(ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return auth.Session{}, ErrInvalidToken
	}
	s := auth.Session{UserID: c.Subject, Role: c.Role}
	if !s.Valid() {
		return auth.Session{}, errors.Join(ErrInvalidToken, jwt.ErrTokenInvalidClaims)
	}
	return s, nil
}
