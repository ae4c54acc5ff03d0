package store

import (
	"context"
	"errors"
	"log/slog"

	"immo/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LikeStore toggles and counts listing likes.
type LikeStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewLikeStore(db *gorm.DB, opts Options) *LikeStore {
	opts = opts.withDefaults()
	return &LikeStore{db: db, logger: opts.Logger}
}

// Toggle flips the like of userID on annonceID and returns the new state.
// It deletes first and only inserts when nothing was removed; a concurrent
// insert that wins the race shows up as a duplicate key and means "liked".
func (s *LikeStore) Toggle(ctx context.Context, userID, annonceID uuid.UUID) (bool, error) {
	db := s.db.WithContext(ctx)

	res := db.Where("user_id = ? AND annonce_id = ?", userID, annonceID).Delete(&models.Like{})
	if res.Error != nil {
		s.logger.Error("unlike failed", "user_id", userID, "annonce_id", annonceID, "error", res.Error)
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := models.Like{UserID: userID, AnnonceID: annonceID}
	if err := db.Omit("Annonce").Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		s.logger.Error("like failed", "user_id", userID, "annonce_id", annonceID, "error", err)
		return false, err
	}
	return true, nil
}

// HasLiked reports whether userID likes annonceID.
func (s *LikeStore) HasLiked(ctx context.Context, userID, annonceID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND annonce_id = ?", userID, annonceID).Count(&count).Error
	return count > 0, err
}

// Count returns the number of likes on annonceID.
func (s *LikeStore) Count(ctx context.Context, annonceID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).Where("annonce_id = ?", annonceID).Count(&count).Error
	if err != nil {
		s.logger.Error("count likes failed", "annonce_id", annonceID, "error", err)
	}
	return count, err
}

// Likers returns the ids of the users who liked annonceID.
func (s *LikeStore) Likers(ctx context.Context, annonceID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("annonce_id = ?", annonceID).
		Order("created_at DESC").
		Pluck("user_id", &ids).Error
	return ids, err
}
