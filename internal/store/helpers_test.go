package store

import (
	"context"
	"strings"
	"sync"
	"testing"

	"immo/backend/internal/auth"
	"immo/backend/internal/database"
	"immo/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), database.Config())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, nom string, role models.Role) models.Profile {
	t.Helper()
	p := models.Profile{
		Nom:          nom,
		Email:        strings.ToLower(nom) + "@example.com",
		Role:         role,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func as(p models.Profile) context.Context {
	return auth.WithSession(context.Background(), auth.NewSession(p))
}

// recordingNotifier counts change signals per recipient.
type recordingNotifier struct {
	mu     sync.Mutex
	events map[uuid.UUID]int
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: map[uuid.UUID]int{}}
}

func (r *recordingNotifier) NotificationsChanged(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[id]++
}

func (r *recordingNotifier) count(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[id]
}

func newTestStores(t *testing.T) (*gorm.DB, *Stores, *recordingNotifier) {
	t.Helper()
	db := setupTestDB(t)
	rec := newRecordingNotifier()
	return db, New(db, Options{Notifier: rec}), rec
}
