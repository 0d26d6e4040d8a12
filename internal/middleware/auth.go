package middleware

import (
	"strings"

	"shelterconnect/config"
	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/auth"
	"shelterconnect/internal/domain"
	"shelterconnect/internal/logger"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and sets user_id, email and role in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.Respond(c, apperrors.Unauthorized("Missing authorization header"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apperrors.Respond(c, apperrors.Unauthorized("Invalid authorization format"))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			apperrors.Respond(c, apperrors.Unauthorized("Invalid or expired token"))
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("claims", claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequireRole checks that the authenticated user has one of the allowed roles.
func RequireRole(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			apperrors.Respond(c, apperrors.Unauthorized("Unauthorized"))
			return
		}
		r, _ := role.(domain.Role)
		for _, a := range allowed {
			if r == a {
				c.Next()
				return
			}
		}
		apperrors.Respond(c, apperrors.Forbidden("You do not have permission to perform this action"))
	}
}

// GetUserID returns the authenticated user ID from context (must be used after AuthRequired).
func GetUserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}

func GetRole(c *gin.Context) domain.Role {
	v, _ := c.Get("role")
	r, _ := v.(domain.Role)
	return r
}
