// Package auth provides password hashing, JWT issuance/validation, and the
// HTTP middleware that gates protected routes.
//
// AUTHENTICATION FLOW:
// 1. POST /api/auth/register → bcrypt-hash the password, insert the user
// 2. POST /api/auth/login → verify the hash, issue a signed JWT
// 3. The client sends "Authorization: Bearer <jwt>" on protected requests
// 4. Middleware validates the token and puts the userID in the request context
//
// The JWT is stateless — the server stores no session. Everything needed
// (user ID in the subject claim, expiry) lives inside the signed token, and
// the HMAC signature guarantees nobody minted or altered it without the key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of an access token. After an hour the client must
// log in again; there is no refresh-token flow.
const TokenTTL = time.Hour

const issuer = "codecloud"

// TokenService signs and verifies bearer tokens with a symmetric HMAC key.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the user ID rides in "sub".
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a token for userID with the standard 1-hour TTL.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the user ID from its
// subject claim.
//
// Checks performed: signature, expiry (required), issuer, and that the
// algorithm really is HS256. Pinning the algorithm with WithValidMethods
// closes the classic algorithm-confusion hole where a token signed with
// "none" slips through.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
