package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/service"
	"github.com/zenithcrm/crm-backend/internal/types"
)

const actorKey = "actor"

// AuthMiddleware validates the JWT and loads the calling actor into the
// gin context. The user row is re-read on every request so role and
// status changes apply immediately; inactive accounts are cut off here.
func AuthMiddleware(authService service.AuthService, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := authService.ValidateToken(parts[1])
		if err != nil || !token.Valid {
			log.Printf("❌ [Auth] Invalid token - Path: %s, Error: %v", c.Request.URL.Path, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := authService.GetUserIDFromToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		actor, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown account"})
			c.Abort()
			return
		}
		if actor.Status != types.StatusActive {
			log.Printf("❌ [Auth] Inactive account rejected - UserID: %s", userID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is inactive"})
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// GetActor extracts the authenticated actor from gin context.
func GetActor(c *gin.Context) *repository.User {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, _ := value.(*repository.User)
	return actor
}

// RequireActor returns false and writes a 401 when no actor is present.
func RequireActor(c *gin.Context) (*repository.User, bool) {
	actor := GetActor(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	return actor, true
}
