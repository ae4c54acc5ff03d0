package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the enumerated profile role.
type Role string

const (
	RoleClient   Role = "client"
	RoleCourtier Role = "courtier"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleCourtier, RoleAdmin:
		return true
	}
	return false
}

// CanPublish reports whether the role may create listings.
func (r Role) CanPublish() bool {
	return r == RoleCourtier || r == RoleAdmin
}

// Profile is the identity record. Its ID is also the authenticated user id.
type Profile struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nom             string    `gorm:"column:nom;size:255;not null"`
	Email           string    `gorm:"size:255;uniqueIndex;not null"`
	Telephone       *string   `gorm:"size:50"`
	Role            Role      `gorm:"size:20;not null;default:'client';index"`
	PhotoProfil     *string   `gorm:"column:photo_profil"`
	PhotoCouverture *string   `gorm:"column:photo_couverture"`
	PasswordHash    string    `gorm:"size:255;not null"`
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
