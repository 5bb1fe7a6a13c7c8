package api

import (
	"net/http"
	"strings"

	"storefront-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const callerKey = "caller"

// Identity resolves the caller from an optional Bearer token. A missing
// header leaves the caller anonymous; a present but invalid token is
// rejected outright. Tokens are issued by the external credential service;
// this middleware only validates them.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.Set(callerKey, models.Caller{})
			c.Next()
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		c.Set(callerKey, models.Caller{
			Email: strings.TrimSpace(email),
			Staff: role == "staff",
		})
		c.Next()
	}
}

// RequireAccount rejects anonymous callers.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !callerFrom(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		c.Next()
	}
}

// RequireStaff rejects everyone but staff.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := callerFrom(c)
		if !caller.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		if !caller.Staff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func callerFrom(c *gin.Context) models.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(models.Caller); ok {
			return caller
		}
	}
	return models.Caller{}
}
