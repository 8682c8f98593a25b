package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TemuulenBM/Online-course-platform-sub001/internal/models"
	"github.com/TemuulenBM/Online-course-platform-sub001/internal/services"
)

// GatewayAuthMiddleware trusts the identity headers the platform gateway
// injects after it has already authenticated the caller. This service never
// sees credentials; a missing or malformed identity means the request did
// not come through the gateway.
type GatewayAuthMiddleware struct{}

func NewGatewayAuthMiddleware() *GatewayAuthMiddleware {
	return &GatewayAuthMiddleware{}
}

// AuthMiddleware returns a Gin middleware that extracts the caller identity
func (gam *GatewayAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "user identity missing",
			})
			c.Abort()
			return
		}

		role := models.UserRole(c.GetHeader("X-User-Role"))
		if !role.Valid() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "unknown user role",
			})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_role", role)

		c.Next()
	}
}

// RequireRoleMiddleware restricts a route group to the listed roles
func (gam *GatewayAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": err.Error(),
			})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "insufficient role",
		})
		c.Abort()
	}
}

// GetUserIDFromContext extracts the user id from the Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetUserRoleFromContext extracts the user role from the Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get("user_role")
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}

// actorFromContext builds the service-layer actor from the request identity.
// The bool result is false when the auth middleware did not run.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		return services.Actor{}, false
	}
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		return services.Actor{}, false
	}
	return services.Actor{ID: userID, Role: role}, true
}
