package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/service"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// It checks for the presence and validity of a JWT token in the Authorization header.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// Set user info in context for handlers to use
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole gates a route to one role. The role claim is a closed
// enumeration; anything outside it is rejected even if a token carries it.
func RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "role not found in token"})
			c.Abort()
			return
		}

		role, ok := roleValue.(models.Role)
		if !ok || !role.Valid() {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid role"})
			c.Abort()
			return
		}

		switch role {
		case required:
			c.Next()
		case models.RoleStudent, models.RoleLecturer, models.RoleAdmin:
			// valid account, wrong role for this route
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role", "required": string(required)})
			c.Abort()
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid role"})
			c.Abort()
		}
	}
}

// CurrentUserID returns the authenticated user's ID from the context.
func CurrentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// CurrentRole returns the authenticated user's role from the context.
func CurrentRole(c *gin.Context) (models.Role, bool) {
	roleValue, exists := c.Get("role")
	if !exists {
		return "", false
	}
	role, ok := roleValue.(models.Role)
	return role, ok
}
