package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"immo/backend/internal/auth"
	"immo/backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// FollowStore manages the directed follow graph.
type FollowStore struct {
	db            *gorm.DB
	notifications *NotificationStore
	logger        *slog.Logger
}

func NewFollowStore(db *gorm.DB, notifications *NotificationStore, opts Options) *FollowStore {
	opts = opts.withDefaults()
	return &FollowStore{db: db, notifications: notifications, logger: opts.Logger}
}

// MutualFollow describes both directions of the edge between two profiles.
type MutualFollow struct {
	IFollow    bool `json:"iFollow"`
	TheyFollow bool `json:"theyFollow"`
	Mutual     bool `json:"mutual"`
}

// IsFollowing reports whether the follower -> followed edge exists.
func (s *FollowStore) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Follow makes the caller follow followedID.
func (s *FollowStore) Follow(ctx context.Context, followedID uuid.UUID) (*models.Follow, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess.UserID == followedID {
		return nil, ErrSelfFollow
	}

	edge := models.Follow{FollowerID: sess.UserID, FollowedID: followedID}
	if err := s.db.WithContext(ctx).Omit("Follower", "Followed").Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("follow %s: %w", followedID, ErrAlreadyFollowing)
		}
		s.logger.Error("follow insert failed", "follower_id", sess.UserID, "followed_id", followedID, "error", err)
		return nil, err
	}

	if s.notifications != nil {
		sender := sess.UserID
		n := models.Notification{
			RecipientID: followedID,
			SenderID:    &sender,
			Type:        models.NotificationFollow,
			Title:       "Nouvel abonné",
			Body:        fmt.Sprintf("%s s'est abonné à vous", sess.Name),
			Link:        "/profil/" + sess.UserID.String(),
		}
		if err := s.notifications.create(ctx, s.db, &n); err != nil {
			s.logger.Error("follow notification failed", "followed_id", followedID, "error", err)
		}
	}
	return &edge, nil
}

// Unfollow removes the caller -> followedID edge. Missing edges are not an error.
func (s *FollowStore) Unfollow(ctx context.Context, followedID uuid.UUID) error {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", sess.UserID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		s.logger.Error("unfollow failed", "follower_id", sess.UserID, "followed_id", followedID, "error", err)
	}
	return err
}

func (s *FollowStore) count(ctx context.Context, column string, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).Where(column+" = ?", userID).Count(&count).Error
	return count, err
}

// FollowerCount counts inbound edges.
func (s *FollowStore) FollowerCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.count(ctx, "followed_id", userID)
}

// FollowingCount counts outbound edges.
func (s *FollowStore) FollowingCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.count(ctx, "follower_id", userID)
}

// MutualFollow checks both directions concurrently.
func (s *FollowStore) MutualFollow(ctx context.Context, myID, otherID uuid.UUID) (MutualFollow, error) {
	var res MutualFollow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res.IFollow, err = s.IsFollowing(gctx, myID, otherID)
		return err
	})
	g.Go(func() error {
		var err error
		res.TheyFollow, err = s.IsFollowing(gctx, otherID, myID)
		return err
	})
	if err := g.Wait(); err != nil {
		return MutualFollow{}, err
	}
	res.Mutual = res.IFollow && res.TheyFollow
	return res, nil
}

func (s *FollowStore) listSide(ctx context.Context, joinColumn, whereColumn string, userID uuid.UUID) ([]ProfileView, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Joins("JOIN follows ON follows."+joinColumn+" = profiles.id").
		Where("follows."+whereColumn+" = ?", userID).
		Order("follows.created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return newProfileViews(profiles), nil
}

// Followers lists the profiles following userID, newest edge first.
func (s *FollowStore) Followers(ctx context.Context, userID uuid.UUID) ([]ProfileView, error) {
	return s.listSide(ctx, "follower_id", "followed_id", userID)
}

// Following lists the profiles userID follows, newest edge first.
func (s *FollowStore) Following(ctx context.Context, userID uuid.UUID) ([]ProfileView, error) {
	return s.listSide(ctx, "followed_id", "follower_id", userID)
}
