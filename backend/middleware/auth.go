package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ozcotech/denklem/backend/config"
	"github.com/ozcotech/denklem/backend/pkg/logger"
)

const (
	usernameKey = "username"
	officeKey   = "office"
)

// Claims represents the JWT claims of a mediator
type Claims struct {
	Username string `json:"username"`
	Office   string `json:"office"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 token for a mediator of office
func GenerateToken(username, office string, cfg *config.AuthConfig) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(cfg.TokenExpireHours) * time.Hour)

	claims := Claims{
		Username: username,
		Office:   office,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// AuthMiddleware validates the bearer token and exposes the mediator to
// handlers and to the request logger
func AuthMiddleware(cfg *config.AuthConfig) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims := &Claims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid || claims.Office == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(usernameKey, claims.Username)
		c.Set(officeKey, claims.Office)

		ctx := context.WithValue(c.Request.Context(), logger.UsernameKey, claims.Username)
		ctx = context.WithValue(ctx, logger.OfficeKey, claims.Office)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUsername gets the username from context
func GetUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}

// GetOffice gets the mediation office from context
func GetOffice(c *gin.Context) string {
	return c.GetString(officeKey)
}
