package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"immo/backend/internal/config"
	"immo/backend/internal/database"
	"immo/backend/internal/models"
	"immo/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errRevoked = errors.New("token revoked")

// bearerToken reads the Authorization header. EventSource clients cannot set
// headers, so an access_token query parameter is accepted when it is absent.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("access_token"); token != "" {
			return token, true
		}
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// loadSession validates the token and rebuilds the session from the profile row.
func loadSession(ctx context.Context, db *gorm.DB, tokenString string) (*Session, error) {
	claims, err := jwt.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}
	tokenID, err := claims.TokenID()
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}

	var revoked int64
	if err := db.WithContext(ctx).Model(&models.RevokedToken{}).Where("jti = ?", tokenID).Count(&revoked).Error; err != nil {
		return nil, err
	}
	if revoked > 0 {
		return nil, errRevoked
	}

	var profile models.Profile
	if err := db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	s := NewSession(profile)
	s.TokenID = tokenID
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	} else {
		s.ExpiresAt = time.Now().Add(config.AppConfig.TokenTTL)
	}
	return s, nil
}

func attach(c *gin.Context, s *Session) {
	c.Request = c.Request.WithContext(WithSession(c.Request.Context(), s))
	c.Set("userID", s.UserID)
	c.Set("session", s)
}

// AuthMiddleware requires a valid bearer token and attaches the caller's session.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		s, err := loadSession(c.Request.Context(), database.DB, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		attach(c, s)
		c.Next()
	}
}

// CurrentSession returns the session attached by one of the middlewares.
func CurrentSession(c *gin.Context) (*Session, bool) {
	return SessionFrom(c.Request.Context())
}
