package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/service/auth"
)

const (
	ContextClerkID      = "clerk_id"
	ContextClerkRole    = "clerk_role"
	ContextDepartmentID = "clerk_department_id"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and sets clerk info in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid authorization format"})
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid token"})
			return
		}

		c.Set(ContextClerkID, claims.ClerkID)
		c.Set(ContextClerkRole, claims.Role)
		c.Set(ContextDepartmentID, claims.DepartmentID)
		c.Next()
	}
}

// RequireAdmin restricts a route to admin clerks.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextClerkRole) != string(model.ClerkRoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "admin access required"})
			return
		}
		c.Next()
	}
}
