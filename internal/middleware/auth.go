package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/geotag-backend-go/pkg/response"
)

// ClaimsKey is the gin context key holding validated token claims
const ClaimsKey = "claims"

// BearerToken extracts the token from a "Bearer <token>" header value
func BearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ParseToken validates an HS256 token signed with secret
func ParseToken(token string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth middleware requires a valid bearer token. An empty secret disables it.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "Missing bearer token")
			return
		}

		claims, err := ParseToken(token, key)
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
