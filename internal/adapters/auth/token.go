// Package auth provides the token codecs and password verifiers behind the
// emulated API's bearer-token authorization.
package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clubmock/internal/domain"
)

// demoCodec encodes tokens as base64("<userId>:<epochMillis>"). There is no
// signature and no expiry check: anyone can forge a token for any user ID.
// It exists only to reproduce the demo scheme; never select it outside
// development.
type demoCodec struct{}

// NewDemoCodec returns the unsigned dev-only token codec.
func NewDemoCodec() domain.TokenCodec {
	return demoCodec{}
}

func (demoCodec) Issue(userID string) (string, error) {
	raw := fmt.Sprintf("%s:%d", userID, time.Now().UnixMilli())
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

func (demoCodec) Verify(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	userID, _, ok := strings.Cut(string(raw), ":")
	if !ok || userID == "" {
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}

type jwtCodec struct {
	secret []byte
	expiry time.Duration
}

// NewJWTCodec returns a TokenCodec that signs HS256 JWTs with the given
// secret and enforces expiry on verification.
func NewJWTCodec(secret string, expiry time.Duration) domain.TokenCodec {
	return &jwtCodec{secret: []byte(secret), expiry: expiry}
}

func (c *jwtCodec) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (c *jwtCodec) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
