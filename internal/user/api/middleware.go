package api

import (
	"net/http"
	"strings"

	"github.com/danuarta/shop-microservices/internal/user/service"
	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "userID"

// RequireAuth memvalidasi header Authorization: Bearer <token> dan
// menaruh user_id hasil parse ke context gin.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be 'Bearer <token>'"})
			return
		}

		userID, err := service.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}
