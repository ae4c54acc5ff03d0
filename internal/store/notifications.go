package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"immo/backend/internal/auth"
	"immo/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationStore reads and mutates notifications. Every write that changes
// a recipient's notifications is followed by a Notifier signal.
type NotificationStore struct {
	db       *gorm.DB
	notifier Notifier
	logger   *slog.Logger
}

func NewNotificationStore(db *gorm.DB, opts Options) *NotificationStore {
	opts = opts.withDefaults()
	return &NotificationStore{db: db, notifier: opts.Notifier, logger: opts.Logger}
}

// NotificationFilter narrows List.
type NotificationFilter struct {
	Type       models.NotificationType
	UnreadOnly bool
}

func insertNotification(db *gorm.DB, n *models.Notification) error {
	return db.Omit("Sender", "Message").Create(n).Error
}

// create inserts n through db and signals the recipient.
func (s *NotificationStore) create(ctx context.Context, db *gorm.DB, n *models.Notification) error {
	if err := insertNotification(db.WithContext(ctx), n); err != nil {
		return err
	}
	s.notifier.NotificationsChanged(n.RecipientID)
	return nil
}

func (s *NotificationStore) find(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func isSender(n *models.Notification, userID uuid.UUID) bool {
	return n.SenderID != nil && *n.SenderID == userID
}

// List returns recipientID's notifications, newest first, with sender and linked message.
func (s *NotificationStore) List(ctx context.Context, recipientID uuid.UUID, f NotificationFilter) ([]NotificationView, error) {
	query := s.db.WithContext(ctx).
		Preload("Sender").
		Preload("Message").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC")
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.UnreadOnly {
		query = query.Where("read = ?", false)
	}

	var rows []models.Notification
	if err := query.Find(&rows).Error; err != nil {
		s.logger.Error("list notifications failed", "recipient_id", recipientID, "error", err)
		return nil, err
	}
	out := make([]NotificationView, 0, len(rows))
	for _, n := range rows {
		out = append(out, newNotificationView(n))
	}
	return out, nil
}

// Sent returns the notifications the caller sent, newest first.
func (s *NotificationStore) Sent(ctx context.Context) ([]NotificationView, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.Notification
	err = s.db.WithContext(ctx).Preload("Message").
		Where("sender_id = ?", sess.UserID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]NotificationView, 0, len(rows))
	for _, n := range rows {
		out = append(out, newNotificationView(n))
	}
	return out, nil
}

// UnreadCount is always a fresh count; nothing is cached.
func (s *NotificationStore) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead sets read=true. Calling it twice is harmless.
func (s *NotificationStore) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return err
	}
	n, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != sess.UserID {
		return ErrPermissionDenied
	}
	if n.Read {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error; err != nil {
		s.logger.Error("mark notification read failed", "notification_id", id, "error", err)
		return err
	}
	s.notifier.NotificationsChanged(n.RecipientID)
	return nil
}

// Delete removes the notification only. A linked message is kept.
func (s *NotificationStore) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return err
	}
	n, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != sess.UserID && !isSender(n, sess.UserID) {
		return ErrPermissionDenied
	}

	if err := s.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id).Error; err != nil {
		s.logger.Error("delete notification failed", "notification_id", id, "error", err)
		return err
	}
	s.notifier.NotificationsChanged(n.RecipientID)
	return nil
}

// EditBody lets the original sender rewrite a notification. When the
// notification links a message, the message content and the body are
// updated in the same transaction so they cannot diverge.
func (s *NotificationStore) EditBody(ctx context.Context, id uuid.UUID, content string) (*NotificationView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isSender(n, sess.UserID) {
		return nil, ErrPermissionDenied
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if n.MessageID != nil {
			if err := tx.Model(&models.Message{}).Where("id = ?", *n.MessageID).Update("content", content).Error; err != nil {
				return fmt.Errorf("update message: %w", err)
			}
		}
		if err := tx.Model(&models.Notification{}).Where("id = ?", id).Update("body", content).Error; err != nil {
			return fmt.Errorf("update notification: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("edit notification failed", "notification_id", id, "error", err)
		return nil, err
	}
	s.notifier.NotificationsChanged(n.RecipientID)

	var updated models.Notification
	if err := s.db.WithContext(ctx).Preload("Sender").Preload("Message").First(&updated, "id = ?", id).Error; err != nil {
		return nil, err
	}
	v := newNotificationView(updated)
	return &v, nil
}

// NotifyAdmins tells every admin that newProfile signed up.
func (s *NotificationStore) NotifyAdmins(ctx context.Context, newProfile models.Profile) error {
	var adminIDs []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("role = ?", models.RoleAdmin).Pluck("id", &adminIDs).Error; err != nil {
		return err
	}

	sender := newProfile.ID
	var errs []error
	for _, adminID := range adminIDs {
		n := models.Notification{
			RecipientID: adminID,
			SenderID:    &sender,
			Type:        models.NotificationNewUser,
			Title:       "Nouvel utilisateur",
			Body:        fmt.Sprintf("%s (%s) s'est inscrit en tant que %s", newProfile.Nom, newProfile.Email, newProfile.Role),
			Link:        "/admin",
		}
		if err := s.create(ctx, s.db, &n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
