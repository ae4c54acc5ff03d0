package database

import (
	"log"
	"log/slog"
	"os"
	"time"

	"immo/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{
		&models.Profile{},
		&models.Annonce{},
		&models.Follow{},
		&models.Like{},
		&models.Avis{},
		&models.Message{},
		&models.Notification{},
		&models.OneTimeCode{},
		&models.RevokedToken{},
	}
}

// Config returns the gorm configuration shared by production and tests.
// TranslateError turns unique-key violations into gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	return &gorm.Config{
		Logger:         customLogger,
		TranslateError: true,
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	slog.Info("database connection established")

	if err := Migrate(DB); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database migrated successfully")
}
