package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"immo/backend/internal/auth"
	"immo/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageStore sends messages together with their linked notification.
type MessageStore struct {
	db       *gorm.DB
	notifier Notifier
	logger   *slog.Logger
}

func NewMessageStore(db *gorm.DB, opts Options) *MessageStore {
	opts = opts.withDefaults()
	return &MessageStore{db: db, notifier: opts.Notifier, logger: opts.Logger}
}

// SendMessageInput describes an outgoing message. Title and Link default to
// the "new message" notification shown to courtiers.
type SendMessageInput struct {
	RecipientID uuid.UUID
	Content     string
	Title       string
	Link        string
}

// Sent is the pair of rows written by Send.
type Sent struct {
	Message      MessageView      `json:"message"`
	Notification NotificationView `json:"notification"`
}

// Send inserts the message and its notification in one transaction.
func (s *MessageStore) Send(ctx context.Context, in SendMessageInput) (*Sent, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if in.RecipientID == uuid.Nil {
		return nil, ErrRecipientRequired
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrContentRequired
	}
	if in.Title == "" {
		in.Title = "Nouveau message"
	}
	if in.Link == "" {
		in.Link = "/notifications"
	}

	msg := models.Message{SenderID: sess.UserID, RecipientID: in.RecipientID, Content: content}
	var notif models.Notification

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		sender := sess.UserID
		messageID := msg.ID
		notif = models.Notification{
			RecipientID: in.RecipientID,
			SenderID:    &sender,
			MessageID:   &messageID,
			Type:        models.NotificationMessage,
			Title:       in.Title,
			Body:        content,
			Link:        in.Link,
		}
		if err := insertNotification(tx, &notif); err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("send message failed", "sender_id", sess.UserID, "recipient_id", in.RecipientID, "error", err)
		return nil, err
	}
	s.notifier.NotificationsChanged(in.RecipientID)

	return &Sent{
		Message:      MessageView{ID: msg.ID, Content: msg.Content, CreatedAt: msg.CreatedAt},
		Notification: newNotificationView(notif),
	}, nil
}

// Reply answers the sender of a notification the caller received.
func (s *MessageStore) Reply(ctx context.Context, notificationID uuid.UUID, content string) (*Sent, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}

	var original models.Notification
	if err := s.db.WithContext(ctx).First(&original, "id = ?", notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if original.RecipientID != sess.UserID {
		return nil, ErrPermissionDenied
	}
	if original.SenderID == nil {
		return nil, ErrRecipientRequired
	}

	in := SendMessageInput{RecipientID: *original.SenderID, Content: content}
	if sess.Role.CanPublish() {
		in.Title, in.Link = "Réponse du courtier", "/notifications-client"
	} else {
		in.Title, in.Link = "Réponse du client", "/notifications"
	}
	return s.Send(ctx, in)
}

// CountSince counts messages created at or after since. A non-nil recipient
// restricts the count to that recipient.
func (s *MessageStore) CountSince(ctx context.Context, since time.Time, recipient *uuid.UUID) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Message{}).Where("created_at >= ?", since)
	if recipient != nil {
		query = query.Where("recipient_id = ?", *recipient)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
