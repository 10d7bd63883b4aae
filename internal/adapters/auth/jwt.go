// Package auth implements token signing and password hashing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/ports/secondary"
)

// JWTIssuer signs HS256 tokens carrying the user ID and role.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates an issuer. ttl is the lifetime of every token.
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for userID.
func (j *JWTIssuer) Issue(userID, role string) (string, time.Time, error) {
	expiresAt := j.now().Add(j.ttl).UTC().Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  j.now().Unix(),
		"exp":  expiresAt.Unix(),
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry of tokenString.
func (j *JWTIssuer) Parse(tokenString string) (*secondary.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.Unauthenticated("token has expired")
		}
		return nil, errs.Unauthenticated("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errs.Unauthenticated("invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errs.Unauthenticated("invalid token subject")
	}

	role, _ := claims["role"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errs.Unauthenticated("invalid token expiry")
	}

	return &secondary.TokenClaims{
		UserID:    sub,
		Role:      role,
		ExpiresAt: exp.Time.UTC(),
	}, nil
}

var _ secondary.TokenIssuer = (*JWTIssuer)(nil)
