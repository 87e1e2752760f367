package middleware

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/agrovision/dashboard-go/pkg/response"
)

// UserKey is the context key holding the signed-in viewer's email.
const UserKey = "user"

// Claims are the token claims the dashboard reads.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth parses an optional HS256 bearer token and stores its email claim under
// UserKey. Anonymous requests pass through; a present but invalid token is
// rejected. An empty secret disables token parsing.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if secret == "" || header == "" {
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.Unauthorized(c, "Authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := ParseToken(raw, key)
		if err != nil {
			log.Printf("[auth] rejected token: %v", err)
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserKey, claims.Email)
		c.Next()
	}
}

// RequireUser rejects requests without an authenticated viewer.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserKey) == "" {
			response.Unauthorized(c, "Please sign in first")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ParseToken validates an HS256 token and returns its claims.
func ParseToken(raw string, key []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, errors.New("token has no email claim")
	}
	return claims, nil
}

// SignToken issues an HS256 token carrying claims.
func SignToken(claims Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return s, nil
}
