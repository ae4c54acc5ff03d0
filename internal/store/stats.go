package store

import (
	"context"
	"log/slog"
	"time"

	"immo/backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// StatsStore computes dashboard aggregates.
type StatsStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStatsStore(db *gorm.DB, opts Options) *StatsStore {
	opts = opts.withDefaults()
	return &StatsStore{db: db, logger: opts.Logger}
}

// VilleCount is a city with its listing count.
type VilleCount struct {
	Ville string `json:"ville"`
	Count int64  `json:"count" gorm:"column:total"`
}

// AdminStats is the platform overview.
type AdminStats struct {
	Since          time.Time             `json:"since"`
	Users          map[models.Role]int64 `json:"users"`
	AnnoncesTotal  int64                 `json:"annoncesTotal"`
	AnnoncesActive int64                 `json:"annoncesActive"`
	Likes          int64                 `json:"likes"`
	Messages       int64                 `json:"messages"`
	TopVilles      []VilleCount          `json:"topVilles"`
}

// DayPoint is one bucket of a daily series.
type DayPoint struct {
	Date     string `json:"date"`
	Likes    int64  `json:"likes"`
	Messages int64  `json:"messages"`
}

// TopAnnonce is the caller's most liked listing.
type TopAnnonce struct {
	ID    uuid.UUID `json:"id"`
	Titre string    `json:"titre"`
	Likes int64     `json:"likes" gorm:"column:like_count"`
}

// CourtierStats is a courtier's own dashboard.
type CourtierStats struct {
	Since          time.Time   `json:"since"`
	AnnoncesTotal  int64       `json:"annoncesTotal"`
	AnnoncesActive int64       `json:"annoncesActive"`
	Likes          int64       `json:"likes"`
	Messages       int64       `json:"messages"`
	Followers      int64       `json:"followers"`
	TopAnnonce     *TopAnnonce `json:"topAnnonce"`
	Series         []DayPoint  `json:"series"`
}

const topVillesLimit = 6

func (s *StatsStore) count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	err := q.Count(&n).Error
	return n, err
}

// Admin aggregates the whole platform. Likes and messages are counted from since.
func (s *StatsStore) Admin(ctx context.Context, since time.Time) (*AdminStats, error) {
	out := &AdminStats{Since: since}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.AnnoncesTotal, err = s.count(gctx, &models.Annonce{}, "")
		return err
	})
	g.Go(func() error {
		var err error
		out.AnnoncesActive, err = s.count(gctx, &models.Annonce{}, "status = ?", models.StatusActive)
		return err
	})
	g.Go(func() error {
		var err error
		out.Likes, err = s.count(gctx, &models.Like{}, "created_at >= ?", since)
		return err
	})
	g.Go(func() error {
		var err error
		out.Messages, err = s.count(gctx, &models.Message{}, "created_at >= ?", since)
		return err
	})
	g.Go(func() error {
		out.TopVilles = []VilleCount{}
		return s.db.WithContext(gctx).Model(&models.Annonce{}).
			Select("ville, COUNT(*) AS total").
			Where("ville <> ?", "").
			Group("ville").
			Order("total DESC, ville ASC").
			Limit(topVillesLimit).
			Scan(&out.TopVilles).Error
	})
	g.Go(func() error {
		users, err := NewProfileStore(s.db, Options{Logger: s.logger}).CountByRole(gctx)
		out.Users = users
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("admin stats failed", "error", err)
		return nil, err
	}
	return out, nil
}

// Courtier aggregates the listings owned by courtierID and the messages it
// received. The series holds one point per day for the last days days,
// oldest first.
func (s *StatsStore) Courtier(ctx context.Context, courtierID uuid.UUID, since time.Time, days int) (*CourtierStats, error) {
	if days < 1 {
		days = 7
	}
	out := &CourtierStats{Since: since}
	own := func() *gorm.DB {
		return s.db.Model(&models.Annonce{}).Select("id").Where("created_by = ?", courtierID)
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
	var likeTimes, messageTimes []time.Time

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.AnnoncesTotal, err = s.count(gctx, &models.Annonce{}, "created_by = ?", courtierID)
		return err
	})
	g.Go(func() error {
		var err error
		out.AnnoncesActive, err = s.count(gctx, &models.Annonce{}, "created_by = ? AND status = ?", courtierID, models.StatusActive)
		return err
	})
	g.Go(func() error {
		var err error
		out.Likes, err = s.count(gctx, &models.Like{}, "annonce_id IN (?) AND created_at >= ?", own(), since)
		return err
	})
	g.Go(func() error {
		var err error
		out.Messages, err = s.count(gctx, &models.Message{}, "recipient_id = ? AND created_at >= ?", courtierID, since)
		return err
	})
	g.Go(func() error {
		var err error
		out.Followers, err = s.count(gctx, &models.Follow{}, "followed_id = ?", courtierID)
		return err
	})
	g.Go(func() error {
		var top []TopAnnonce
		err := s.db.WithContext(gctx).Model(&models.Annonce{}).
			Select("annonces.id AS id, annonces.titre AS titre, COUNT(likes.id) AS like_count").
			Joins("JOIN likes ON likes.annonce_id = annonces.id").
			Where("annonces.created_by = ?", courtierID).
			Group("annonces.id, annonces.titre").
			Order("like_count DESC").
			Limit(1).
			Scan(&top).Error
		if err == nil && len(top) > 0 {
			out.TopAnnonce = &top[0]
		}
		return err
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Like{}).
			Where("annonce_id IN (?) AND created_at >= ?", own(), start).
			Pluck("created_at", &likeTimes).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Message{}).
			Where("recipient_id = ? AND created_at >= ?", courtierID, start).
			Pluck("created_at", &messageTimes).Error
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("courtier stats failed", "courtier_id", courtierID, "error", err)
		return nil, err
	}
	out.Series = dailySeries(start, days, likeTimes, messageTimes)
	return out, nil
}

func dailySeries(start time.Time, days int, likes, messages []time.Time) []DayPoint {
	series := make([]DayPoint, days)
	index := make(map[string]int, days)
	for i := range series {
		day := start.AddDate(0, 0, i).Format(time.DateOnly)
		series[i].Date = day
		index[day] = i
	}
	for _, t := range likes {
		if i, ok := index[t.UTC().Format(time.DateOnly)]; ok {
			series[i].Likes++
		}
	}
	for _, t := range messages {
		if i, ok := index[t.UTC().Format(time.DateOnly)]; ok {
			series[i].Messages++
		}
	}
	return series
}
