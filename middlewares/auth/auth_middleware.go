package auth

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joy095/travelapp/logger"
)

// Context keys populated by AuthMiddleware.
const (
	ContextGuestID        = "guest_id"
	ContextGuestEmail     = "guest_email"
	ContextGuestFirstName = "guest_first_name"
	ContextGuestLastName  = "guest_last_name"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Println("WARNING: JWT_SECRET environment variable not set.")
		return []byte("default-insecure-secret-only-for-development")
	}
	return []byte(secret)
}

// AuthMiddleware validates the bearer token issued by the surrounding
// identity provider and loads the guest's identity claims into the
// request context. This service never issues or refreshes tokens.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.WarnLogger.Warn("No authorization header found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "NO_TOKEN", "error": "No authorization token provided."})
			return
		}

		if len(authHeader) <= 7 || !strings.EqualFold(authHeader[:7], "bearer ") {
			logger.WarnLogger.Warn("Invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_AUTH_FORMAT", "error": "Invalid authorization format."})
			return
		}
		rawToken := authHeader[7:]

		token, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtSecret(), nil
		})
		if err != nil || !token.Valid {
			logger.WarnLogger.Warnf("JWT validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_TOKEN", "error": "Invalid or expired token."})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_TOKEN", "error": "Invalid token claims."})
			return
		}

		sub, _ := claims["sub"].(string)
		guestID, err := uuid.Parse(sub)
		if err != nil {
			logger.WarnLogger.Warnf("Invalid subject claim in token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_TOKEN_SUB", "error": "Invalid subject in token."})
			return
		}

		email, _ := claims["email"].(string)
		firstName, _ := claims["first_name"].(string)
		lastName, _ := claims["last_name"].(string)

		c.Set(ContextGuestID, guestID.String())
		c.Set(ContextGuestEmail, email)
		c.Set(ContextGuestFirstName, firstName)
		c.Set(ContextGuestLastName, lastName)

		c.Next()
	}
}
