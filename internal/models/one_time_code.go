package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CodePurpose string

const (
	CodeSignup   CodePurpose = "signup"
	CodeRecovery CodePurpose = "recovery"
)

// OneTimeCode is an emailed verification code. Only the bcrypt hash is stored.
// At most one code per email and purpose is live; issuing a new one consumes the rest.
type OneTimeCode struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Email      string      `gorm:"size:255;not null;index"`
	Purpose    CodePurpose `gorm:"size:20;not null"`
	CodeHash   string      `gorm:"size:255;not null"`
	Attempts   int         `gorm:"not null;default:0"`
	ExpiresAt  time.Time   `gorm:"not null"`
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

func (OneTimeCode) TableName() string { return "one_time_codes" }

func (c *OneTimeCode) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// RevokedToken records a signed-out JWT until it would have expired anyway.
type RevokedToken struct {
	JTI       uuid.UUID `gorm:"column:jti;type:uuid;primaryKey"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }
