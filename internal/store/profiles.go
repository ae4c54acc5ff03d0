package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"immo/backend/internal/auth"
	"immo/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileStore reads and edits profiles.
type ProfileStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewProfileStore(db *gorm.DB, opts Options) *ProfileStore {
	opts = opts.withDefaults()
	return &ProfileStore{db: db, logger: opts.Logger}
}

// ProfileUpdate holds the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Nom             *string `json:"nom"`
	Telephone       *string `json:"telephone"`
	PhotoProfil     *string `json:"photoProfil"`
	PhotoCouverture *string `json:"photoCouverture"`
}

// UserFilter narrows the admin user list.
type UserFilter struct {
	Role   models.Role
	Search string
}

// Get returns the profile or ErrNotFound.
func (s *ProfileStore) Get(ctx context.Context, id uuid.UUID) (*ProfileView, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("get profile failed", "profile_id", id, "error", err)
		return nil, err
	}
	v := newProfileView(p)
	return &v, nil
}

// Update edits the profile id. Only its owner may do so.
func (s *ProfileStore) Update(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*ProfileView, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess.UserID != id {
		return nil, ErrPermissionDenied
	}

	updates := map[string]any{}
	if in.Nom != nil {
		nom := strings.TrimSpace(*in.Nom)
		if nom == "" {
			return nil, ErrNameRequired
		}
		updates["nom"] = nom
	}
	if in.Telephone != nil {
		updates["telephone"] = in.Telephone
	}
	if in.PhotoProfil != nil {
		updates["photo_profil"] = in.PhotoProfil
	}
	if in.PhotoCouverture != nil {
		updates["photo_couverture"] = in.PhotoCouverture
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			s.logger.Error("update profile failed", "profile_id", id, "error", res.Error)
			return nil, res.Error
		}
	}
	return s.Get(ctx, id)
}

// ListCourtiers returns every courtier, by name.
func (s *ProfileStore) ListCourtiers(ctx context.Context, search string) ([]ProfileView, error) {
	query := s.db.WithContext(ctx).Where("role = ?", models.RoleCourtier).Order("nom ASC")
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(escapeLike(search)) + "%"
		query = query.Where(`LOWER(nom) LIKE ? ESCAPE '\'`, pattern)
	}
	var rows []models.Profile
	if err := query.Find(&rows).Error; err != nil {
		s.logger.Error("list courtiers failed", "error", err)
		return nil, err
	}
	return newProfileViews(rows), nil
}

// ListAll is the admin user list, newest first.
func (s *ProfileStore) ListAll(ctx context.Context, f UserFilter, page, limit int) (Page[ProfileView], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return Page[ProfileView]{}, err
	}
	if !sess.IsAdmin() {
		return Page[ProfileView]{}, ErrPermissionDenied
	}

	query := s.db.WithContext(ctx).Order("created_at DESC")
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + strings.ToLower(escapeLike(search)) + "%"
		query = query.Where(`LOWER(nom) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	rows, err := paginate[models.Profile](query, page, limit)
	if err != nil {
		s.logger.Error("list profiles failed", "error", err)
		return Page[ProfileView]{}, err
	}
	return Page[ProfileView]{
		Items: newProfileViews(rows.Items),
		Total: rows.Total,
		Page:  rows.Page,
		Limit: rows.Limit,
	}, nil
}

// UpdateRole changes a profile's role. Admin only.
func (s *ProfileStore) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*ProfileView, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		s.logger.Error("update role failed", "profile_id", id, "error", res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// CountByRole returns the number of profiles per role.
func (s *ProfileStore) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	type row struct {
		Role  models.Role
		Count int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Select("role, COUNT(*) AS count").Group("role").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[models.Role]int64{models.RoleClient: 0, models.RoleCourtier: 0, models.RoleAdmin: 0}
	for _, r := range rows {
		out[r.Role] = r.Count
	}
	return out, nil
}
