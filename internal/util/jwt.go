package util

import (
	"errors"
	"time"

	"jamb_cbt_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    string         `json:"user_id"`
	Role      model.UserRole `json:"role"`
	Email     string         `json:"email"`
	TokenType string         `json:"token_type"`
	jwt.RegisteredClaims
}

func generateToken(user *model.User, secret, tokenType string, expiration time.Duration) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateAccessToken issues the short-lived credential presented on every
// request.
func GenerateAccessToken(user *model.User, secret string, expiration time.Duration) (string, error) {
	return generateToken(user, secret, TokenTypeAccess, expiration)
}

// GenerateRefreshToken issues the long-lived credential; the issued value is
// also stored server-side so it can be revoked.
func GenerateRefreshToken(user *model.User, secret string, expiration time.Duration) (string, error) {
	return generateToken(user, secret, TokenTypeRefresh, expiration)
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ParseRefreshJWT parses and additionally rejects non-refresh tokens, so an
// access token can never be replayed as a refresh credential.
func ParseRefreshJWT(tokenString, secret string) (*Claims, error) {
	claims, err := ParseJWT(tokenString, secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, errors.New("not a refresh token")
	}
	return claims, nil
}

func GetUserFromContext(c *gin.Context) *Claims {
	user, exists := c.Get("user")
	if !exists {
		return nil
	}
	claims, ok := user.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
