package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Avis is a 1-5 review left by a user on a listing. At most one per (user, listing).
type Avis struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_avis_user_annonce"`
	UserNom     string    `gorm:"size:255"`
	UserPhoto   *string
	AnnonceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_avis_user_annonce;index"`
	CourtierID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Note        int       `gorm:"type:smallint;not null"`
	Commentaire string    `gorm:"type:text;not null"`
	CreatedAt   time.Time
}

func (Avis) TableName() string { return "avis" }

func (a *Avis) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
