package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnnonceStatus controls listing visibility.
type AnnonceStatus string

const (
	StatusActive   AnnonceStatus = "active"
	StatusInactive AnnonceStatus = "inactive"
	StatusArchived AnnonceStatus = "archived"
)

func (s AnnonceStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusArchived:
		return true
	}
	return false
}

// Annonce is a rentable property listing.
// CreatedByNom and CreatedByPhoto are a snapshot of the owner profile taken on
// create and refreshed on every update; they may lag behind profile edits.
type Annonce struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Titre          string                      `gorm:"size:255;not null"`
	Type           string                      `gorm:"size:50;not null;index"`
	Description    string                      `gorm:"type:text"`
	Prix           float64                     `gorm:"type:numeric(14,2);not null"`
	Superficie     float64                     `gorm:"type:numeric(10,2)"`
	Adresse        string                      `gorm:"size:255"`
	Ville          string                      `gorm:"size:120;index"`
	Quartier       string                      `gorm:"size:120"`
	Chambres       int                         `gorm:"not null;default:1"`
	SallesDeBain   int                         `gorm:"column:salles_de_bain;not null;default:1"`
	Meuble         bool                        `gorm:"not null;default:false"`
	Latitude       *float64                    `gorm:"type:numeric(9,6)"`
	Longitude      *float64                    `gorm:"type:numeric(9,6)"`
	Photos         datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedBy      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	CreatedByNom   string                      `gorm:"size:255"`
	CreatedByPhoto *string
	Status         AnnonceStatus `gorm:"size:20;not null;default:'active';index"`
	CreatedAt      time.Time     `gorm:"index"`
	UpdatedAt      time.Time

	Owner Profile `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:CASCADE;"`
}

func (Annonce) TableName() string { return "annonces" }

func (a *Annonce) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Photos == nil {
		a.Photos = datatypes.JSONSlice[string]{}
	}
	return nil
}
