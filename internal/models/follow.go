package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: FollowerID follows FollowedID.
// The composite primary key makes the edge unique per ordered pair.
type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FollowedID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time

	Follower Profile `gorm:"foreignKey:FollowerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Followed Profile `gorm:"foreignKey:FollowedID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Follow) TableName() string { return "follows" }
