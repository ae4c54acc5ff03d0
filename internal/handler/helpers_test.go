package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"immo/backend/internal/config"
	"immo/backend/internal/database"
	"immo/backend/internal/models"
	"immo/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *captureSender) SendCode(_ context.Context, email string, purpose models.CodePurpose, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[email+"/"+string(purpose)] = code
	return nil
}

func (c *captureSender) code(email string, purpose models.CodePurpose) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[email+"/"+string(purpose)]
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), database.Config())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func setupRouter(t *testing.T) (*gin.Engine, *captureSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	database.DB = setupTestDB(t)
	config.AppConfig = &config.Config{JWTSecret: "handler-test-secret", TokenTTL: time.Hour, OTPTTL: time.Minute}
	sender := &captureSender{codes: map[string]string{}}
	CodeSender = sender
	t.Cleanup(func() { CodeSender = nil })

	r := gin.New()
	RegisterRoutes(r)
	return r, sender
}

// seedUser inserts a verified profile and returns it with a bearer token.
func seedUser(t *testing.T, nom string, role models.Role) (models.Profile, string) {
	t.Helper()
	now := time.Now()
	p := models.Profile{
		Nom:             nom,
		Email:           strings.ToLower(nom) + "@example.com",
		Role:            role,
		PasswordHash:    "x",
		EmailVerifiedAt: &now,
	}
	require.NoError(t, database.DB.Create(&p).Error)
	token, err := jwt.GenerateToken(p.ID)
	require.NoError(t, err)
	return p, token
}

func request(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
