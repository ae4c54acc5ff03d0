package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationMessage NotificationType = "message"
	NotificationFollow  NotificationType = "follow"
	NotificationAnnonce NotificationType = "annonce"
	NotificationNewUser NotificationType = "new_user"
)

// Notification is addressed to RecipientID. When MessageID is set, Body mirrors
// the linked message content.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_recipient_read"`
	SenderID    *uuid.UUID       `gorm:"type:uuid"`
	MessageID   *uuid.UUID       `gorm:"type:uuid"`
	Type        NotificationType `gorm:"size:20;not null"`
	Title       string           `gorm:"size:255"`
	Body        string           `gorm:"type:text"`
	Link        string           `gorm:"size:255"`
	Read        bool             `gorm:"not null;default:false;index:idx_notifications_recipient_read"`
	CreatedAt   time.Time

	Sender  *Profile `gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:SET NULL;"`
	Message *Message `gorm:"foreignKey:MessageID;references:ID;constraint:OnDelete:SET NULL;"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
