package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"immo/backend/internal/auth"
	"immo/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvisStore manages listing reviews.
type AvisStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAvisStore(db *gorm.DB, opts Options) *AvisStore {
	opts = opts.withDefaults()
	return &AvisStore{db: db, logger: opts.Logger}
}

// AvisInput is a new review. The author is always the session user.
type AvisInput struct {
	AnnonceID   uuid.UUID
	CourtierID  uuid.UUID
	Note        int
	Commentaire string
}

// HasReviewed reports whether userID already reviewed annonceID.
func (s *AvisStore) HasReviewed(ctx context.Context, userID, annonceID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Avis{}).
		Where("user_id = ? AND annonce_id = ?", userID, annonceID).Count(&count).Error
	return count > 0, err
}

// Add stores a review. A second review by the same user on the same listing
// fails with ErrDuplicateReview, whether caught by the pre-check or by the
// unique index.
func (s *AvisStore) Add(ctx context.Context, in AvisInput) (*AvisView, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if in.Note < 1 || in.Note > 5 {
		return nil, ErrInvalidNote
	}
	comment := strings.TrimSpace(in.Commentaire)
	if comment == "" {
		return nil, ErrCommentRequired
	}

	exists, err := s.HasReviewed(ctx, sess.UserID, in.AnnonceID)
	if err != nil {
		s.logger.Error("review pre-check failed", "user_id", sess.UserID, "annonce_id", in.AnnonceID, "error", err)
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	row := models.Avis{
		UserID:      sess.UserID,
		UserNom:     sess.Name,
		UserPhoto:   sess.Photo,
		AnnonceID:   in.AnnonceID,
		CourtierID:  in.CourtierID,
		Note:        in.Note,
		Commentaire: comment,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateReview, err)
		}
		s.logger.Error("add review failed", "user_id", sess.UserID, "annonce_id", in.AnnonceID, "error", err)
		return nil, err
	}
	v := newAvisView(row)
	return &v, nil
}

// Delete removes a review; only its author or an admin may do so.
func (s *AvisStore) Delete(ctx context.Context, avisID, userID uuid.UUID) error {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return err
	}

	var row models.Avis
	err = s.db.WithContext(ctx).Select("id", "user_id").First(&row, "id = ?", avisID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	// userID is the author the caller claims to be; it must be the session user.
	if !sess.IsAdmin() && (row.UserID != sess.UserID || userID != sess.UserID) {
		return ErrPermissionDenied
	}

	if err := s.db.WithContext(ctx).Delete(&models.Avis{}, "id = ?", avisID).Error; err != nil {
		s.logger.Error("delete review failed", "avis_id", avisID, "error", err)
		return err
	}
	return nil
}

func (s *AvisStore) list(ctx context.Context, column string, id uuid.UUID) ([]AvisView, error) {
	var rows []models.Avis
	if err := s.db.WithContext(ctx).Where(column+" = ?", id).Order("created_at DESC").Find(&rows).Error; err != nil {
		s.logger.Error("list reviews failed", column, id, "error", err)
		return nil, err
	}
	out := make([]AvisView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newAvisView(r))
	}
	return out, nil
}

// ForAnnonce lists reviews on a listing, newest first.
func (s *AvisStore) ForAnnonce(ctx context.Context, annonceID uuid.UUID) ([]AvisView, error) {
	return s.list(ctx, "annonce_id", annonceID)
}

// ForCourtier lists reviews on every listing of a courtier, newest first.
func (s *AvisStore) ForCourtier(ctx context.Context, courtierID uuid.UUID) ([]AvisView, error) {
	return s.list(ctx, "courtier_id", courtierID)
}

// Count returns the number of reviews on a listing.
func (s *AvisStore) Count(ctx context.Context, annonceID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Avis{}).Where("annonce_id = ?", annonceID).Count(&count).Error
	return count, err
}

func (s *AvisStore) average(ctx context.Context, column string, id uuid.UUID) (float64, error) {
	var avg sql.NullFloat64
	err := s.db.WithContext(ctx).Model(&models.Avis{}).
		Select("AVG(CAST(note AS FLOAT))").Where(column+" = ?", id).Row().Scan(&avg)
	if err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return math.Round(avg.Float64*10) / 10, nil
}

// AverageForAnnonce is the mean note rounded to one decimal, 0 without reviews.
func (s *AvisStore) AverageForAnnonce(ctx context.Context, annonceID uuid.UUID) (float64, error) {
	return s.average(ctx, "annonce_id", annonceID)
}

// AverageForCourtier is the mean note across a courtier's listings.
func (s *AvisStore) AverageForCourtier(ctx context.Context, courtierID uuid.UUID) (float64, error) {
	return s.average(ctx, "courtier_id", courtierID)
}
