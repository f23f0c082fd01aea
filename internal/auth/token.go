package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator handles session token generation and validation.
// Tokens are stateless: the server keeps no record of issued tokens,
// validity is determined purely by signature and expiry.
type TokenGenerator struct {
	secret string
	expiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, expiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret: secret,
		expiry: expiry,
	}
}

// Generate creates a signed session token embedding the username
func (tg *TokenGenerator) Generate(username string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(tg.expiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Validate checks signature and expiry and returns the embedded username
func (tg *TokenGenerator) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", fmt.Errorf("username not found in token")
	}

	return username, nil
}
