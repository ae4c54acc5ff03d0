package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"immo/backend/internal/auth"
	"immo/backend/internal/config"
	"immo/backend/internal/database"
	"immo/backend/internal/hub"
	"immo/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CodeSender delivers one-time codes. Nil means codes are written to the log.
var CodeSender auth.CodeSender

// region --- DTOs ---

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

// endregion

func stores() *store.Stores {
	return store.New(database.DB, store.Options{Notifier: hub.GlobalHub})
}

func authService() *auth.Service {
	return auth.NewService(auth.ServiceConfig{
		DB:       database.DB,
		Secret:   config.AppConfig.JWTSecret,
		TokenTTL: config.AppConfig.TokenTTL,
		CodeTTL:  config.AppConfig.OTPTTL,
		Sender:   CodeSender,
		Admins:   store.NewNotificationStore(database.DB, store.Options{Notifier: hub.GlobalHub}),
	})
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps accessor and auth errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidCode):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrPermissionDenied), errors.Is(err, auth.ErrEmailNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case store.IsConflict(err), errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case store.IsValidation(err), errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrSignupRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
