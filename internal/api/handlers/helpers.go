package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/benchwork/labjournal/backend/internal/api/middleware"
)

// actor returns the authenticated account's UUID, email and role from the
// request context. Empty strings mean the route was not behind
// AuthMiddleware, which is a wiring bug for any guarded endpoint.
func actor(c *gin.Context) (uuid, email, role string) {
	if v, ok := c.Get(middleware.ContextUserUUID); ok {
		uuid, _ = v.(string)
	}
	if v, ok := c.Get(middleware.ContextUserEmail); ok {
		email, _ = v.(string)
	}
	if v, ok := c.Get(middleware.ContextRole); ok {
		role, _ = v.(string)
	}
	return
}
