package auth

import (
	"immo/backend/internal/database"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware inspects for a token and attaches the session if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if s, err := loadSession(c.Request.Context(), database.DB, tokenString); err == nil {
				attach(c, s)
			}
		}
		c.Next()
	}
}
