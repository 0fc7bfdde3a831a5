package middleware

import (
	"net/http"
	"strings"

	"voicedesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomTokenMiddleware requires a valid room access token (the one
// issued by the token endpoint) on session-scoped routes. The token's
// subject is stored in the request context as "identity".
func RoomTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed Authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		identity, err := utils.ExtractIdentityFromToken(tokenString)
		if err != nil {
			zap.L().Warn("Rejected invalid room token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("identity", identity)
		c.Next()
	}
}
