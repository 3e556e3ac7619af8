package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/benchwork/labjournal/backend/internal/rbac"
	"github.com/benchwork/labjournal/backend/internal/services"
)

// Context keys populated by AuthMiddleware.
const (
	ContextUserID    = "userID"
	ContextUserUUID  = "userUUID"
	ContextUserEmail = "userEmail"
	ContextRole      = "role"
)

// notAuthorizedBody is the uniform denial response. It deliberately does not
// say whether the role was missing, the permission absent, or the account
// inactive.
var notAuthorizedBody = gin.H{"error": "not authorized"}

// AuthMiddleware resolves the bearer token (Authorization header, falling
// back to the auth cookie), validates it, and places the account identity in
// the request context. It performs no permission checks.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("auth_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := authService.GetUserByID(claims.UserID)
		if err != nil || !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserUUID, user.UUID)
		c.Set(ContextUserEmail, user.Email)
		// Role is read from the database, not the token, so a role
		// reassignment takes effect before the token expires.
		c.Set(ContextRole, user.Role)
		c.Next()
	}
}

// RequireRole gates a route on an exact role name. Most routes should use
// RequirePermission instead; this exists for the few admin-only surfaces.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := c.Get(ContextRole)
		if !ok || current != role {
			c.AbortWithStatusJSON(http.StatusForbidden, notAuthorizedBody)
			return
		}
		c.Next()
	}
}

// RequirePermission gates a route on the access checker. Denials are uniform
// 403s; the mutation handler below never runs on deny.
func RequirePermission(checker *rbac.Checker, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, notAuthorizedBody)
			return
		}
		roleName, _ := role.(string)
		if !checker.Authorize(roleName, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, notAuthorizedBody)
			return
		}
		c.Next()
	}
}
