package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginAttempt records a failed password check. UserID is nil when the
// submitted username matched no account. Rows in the trailing window feed
// the per-user rate limiter.
type LoginAttempt struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Username    string     `gorm:"size:100;not null;index" json:"username"`
	IP          string     `gorm:"size:45" json:"ip"`
	AttemptedAt time.Time  `gorm:"not null;index" json:"attempted_at"`
}

func (a *LoginAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = time.Now()
	}
	return nil
}
