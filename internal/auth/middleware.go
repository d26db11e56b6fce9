package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FitnessGH/fitness-gh-backend/internal/api"
)

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Fail(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			api.Fail(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.Fail(c, http.StatusUnauthorized, "Token is empty")
			c.Abort()
			return
		}

		claims, err := ValidateToken(tokenString, accessTokenSecret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				api.Fail(c, http.StatusUnauthorized, "Token expired")
			default:
				api.Fail(c, http.StatusUnauthorized, "Invalid or malformed token")
			}
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			api.Fail(c, http.StatusUnauthorized, "Access token required")
			c.Abort()
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Set("profile_id", claims.ProfileID)
		c.Set("user_email", claims.Email)
		c.Set("user_type", claims.UserType)

		c.Next()
	}
}

func RequireUserType(userTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, exists := c.Get("user_type")
		if !exists {
			api.Fail(c, http.StatusUnauthorized, "User type not found")
			c.Abort()
			return
		}

		typeStr, ok := userType.(string)
		if !ok {
			api.Fail(c, http.StatusUnauthorized, "Invalid user type")
			c.Abort()
			return
		}

		for _, t := range userTypes {
			if typeStr == t {
				c.Next()
				return
			}
		}

		api.Fail(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func GetProfileID(c *gin.Context) (int, bool) {
	profileID, exists := c.Get("profile_id")
	if !exists {
		return 0, false
	}

	id, ok := profileID.(int)
	if !ok {
		return 0, false
	}

	return id, true
}

func GetAccountID(c *gin.Context) (int, bool) {
	accountID, exists := c.Get("account_id")
	if !exists {
		return 0, false
	}

	id, ok := accountID.(int)
	if !ok {
		return 0, false
	}

	return id, true
}
