package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fees-admin-api/utils"
)

// AuthMiddleware validates the bearer token and stores the staff ID on the
// request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			// Websocket clients cannot set headers; accept a token query
			// parameter for the notification stream.
			header = "Bearer " + c.Query("token")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token"})
			c.Abort()
			return
		}

		staffID, err := utils.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("staff_id", staffID)
		c.Next()
	}
}

// GetStaffID returns the authenticated staff ID, or "" when unauthenticated.
func GetStaffID(c *gin.Context) string {
	return c.GetString("staff_id")
}
