package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"immo/backend/internal/auth"
	"immo/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnnonceStore is the listing accessor.
type AnnonceStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAnnonceStore(db *gorm.DB, opts Options) *AnnonceStore {
	opts = opts.withDefaults()
	return &AnnonceStore{db: db, logger: opts.Logger}
}

// AnnonceFilter narrows List. OnlyCourtiers is the public view and means active
// listings only, whoever owns them; nil counts as true. Only IncludeAllStatuses
// lifts the active restriction, for the admin view.
type AnnonceFilter struct {
	Ville              string
	Type               string
	Search             string
	Status             models.AnnonceStatus
	OnlyCourtiers      *bool
	IncludeAllStatuses bool
}

// AnnonceInput carries the editable listing fields.
type AnnonceInput struct {
	Titre        string   `json:"titre" binding:"required"`
	Type         string   `json:"type" binding:"required"`
	Description  string   `json:"description"`
	Prix         float64  `json:"prix" binding:"gte=0"`
	Superficie   float64  `json:"superficie" binding:"gte=0"`
	Adresse      string   `json:"adresse"`
	Ville        string   `json:"ville"`
	Quartier     string   `json:"quartier"`
	Chambres     int      `json:"chambres" binding:"gte=0"`
	SallesDeBain int      `json:"sallesDeBain" binding:"gte=0"`
	Meuble       bool     `json:"meuble"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Photos       []string `json:"photos"`
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func photosOf(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// List returns listings matching f, newest first.
func (s *AnnonceStore) List(ctx context.Context, f AnnonceFilter) ([]AnnonceView, error) {
	query := s.db.WithContext(ctx).Model(&models.Annonce{}).Order("created_at DESC")

	if !f.IncludeAllStatuses {
		query = query.Where("status = ?", models.StatusActive)
	} else if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	if f.Ville != "" {
		query = query.Where("ville = ?", f.Ville)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + strings.ToLower(escapeLike(search)) + "%"
		query = query.Where(`LOWER(titre) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var rows []models.Annonce
	if err := query.Find(&rows).Error; err != nil {
		s.logger.Error("list annonces failed", "error", err)
		return nil, err
	}
	return newAnnonceViews(rows), nil
}

func (s *AnnonceStore) find(ctx context.Context, id uuid.UUID) (*models.Annonce, error) {
	var a models.Annonce
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get returns the listing or nil when it does not exist.
func (s *AnnonceStore) Get(ctx context.Context, id uuid.UUID) (*AnnonceView, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		s.logger.Error("get annonce failed", "annonce_id", id, "error", err)
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	v := newAnnonceView(*a)
	return &v, nil
}

// Create publishes a listing owned by the caller.
func (s *AnnonceStore) Create(ctx context.Context, in AnnonceInput) (*AnnonceView, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.Role.CanPublish() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(in.Titre) == "" {
		return nil, ErrTitleRequired
	}

	a := models.Annonce{
		Titre:          strings.TrimSpace(in.Titre),
		Type:           in.Type,
		Description:    in.Description,
		Prix:           in.Prix,
		Superficie:     in.Superficie,
		Adresse:        in.Adresse,
		Ville:          in.Ville,
		Quartier:       in.Quartier,
		Chambres:       orDefault(in.Chambres, 1),
		SallesDeBain:   orDefault(in.SallesDeBain, 1),
		Meuble:         in.Meuble,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Photos:         photosOf(in.Photos),
		CreatedBy:      sess.UserID,
		CreatedByNom:   sess.Name,
		CreatedByPhoto: sess.Photo,
		Status:         models.StatusActive,
	}
	if err := s.db.WithContext(ctx).Omit("Owner").Create(&a).Error; err != nil {
		s.logger.Error("create annonce failed", "created_by", sess.UserID, "error", err)
		return nil, err
	}
	v := newAnnonceView(a)
	return &v, nil
}

// authorize loads the listing and checks the caller is its owner or an admin.
func (s *AnnonceStore) authorize(ctx context.Context, id uuid.UUID) (*auth.Session, *models.Annonce, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, nil, ErrNotFound
	}
	if a.CreatedBy != sess.UserID && !sess.IsAdmin() {
		return nil, nil, ErrPermissionDenied
	}
	return sess, a, nil
}

// Update rewrites the listing fields and re-stamps the owner snapshot from the
// current session, which is the admin's identity when an admin edits.
func (s *AnnonceStore) Update(ctx context.Context, id uuid.UUID, in AnnonceInput) (*AnnonceView, error) {
	sess, existing, err := s.authorize(ctx, id)
	if err != nil {
		return nil, err
	}

	photo := sess.Photo
	if photo == nil {
		photo = existing.CreatedByPhoto
	}

	updates := map[string]any{
		"titre":            strings.TrimSpace(in.Titre),
		"type":             in.Type,
		"description":      in.Description,
		"prix":             in.Prix,
		"superficie":       in.Superficie,
		"adresse":          in.Adresse,
		"ville":            in.Ville,
		"quartier":         in.Quartier,
		"chambres":         orDefault(in.Chambres, 1),
		"salles_de_bain":   orDefault(in.SallesDeBain, 1),
		"meuble":           in.Meuble,
		"latitude":         in.Latitude,
		"longitude":        in.Longitude,
		"photos":           photosOf(in.Photos),
		"created_by_nom":   sess.Name,
		"created_by_photo": photo,
		"updated_at":       time.Now(),
	}
	if err := s.db.WithContext(ctx).Model(existing).Omit("Owner").Updates(updates).Error; err != nil {
		s.logger.Error("update annonce failed", "annonce_id", id, "error", err)
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the listing for good.
func (s *AnnonceStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, a, err := s.authorize(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Annonce{}, "id = ?", a.ID).Error; err != nil {
		s.logger.Error("delete annonce failed", "annonce_id", id, "error", err)
		return err
	}
	return nil
}

// ByCourtier returns the active listings owned by courtierID. Inactive and
// archived listings are excluded even when the owner is the caller.
func (s *AnnonceStore) ByCourtier(ctx context.Context, courtierID uuid.UUID) ([]AnnonceView, error) {
	var rows []models.Annonce
	err := s.db.WithContext(ctx).
		Where("created_by = ? AND status = ?", courtierID, models.StatusActive).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		s.logger.Error("list courtier annonces failed", "courtier_id", courtierID, "error", err)
		return nil, err
	}
	return newAnnonceViews(rows), nil
}

// UpdateStatus is the admin moderation entry point.
func (s *AnnonceStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AnnonceStatus) (*AnnonceView, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	res := s.db.WithContext(ctx).Model(&models.Annonce{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		s.logger.Error("update annonce status failed", "annonce_id", id, "error", res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// LikedBy returns the listings userID liked, most recent like first.
func (s *AnnonceStore) LikedBy(ctx context.Context, userID uuid.UUID) ([]AnnonceView, error) {
	var rows []models.Annonce
	err := s.db.WithContext(ctx).Model(&models.Annonce{}).
		Joins("JOIN likes ON likes.annonce_id = annonces.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&rows).Error
	if err != nil {
		s.logger.Error("list liked annonces failed", "user_id", userID, "error", err)
		return nil, err
	}
	return newAnnonceViews(rows), nil
}
