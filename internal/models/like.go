package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like marks a listing as a favourite of a user.
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_annonce"`
	AnnonceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_annonce;index"`
	CreatedAt time.Time

	Annonce Annonce `gorm:"foreignKey:AnnonceID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (Like) TableName() string { return "likes" }

func (l *Like) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
