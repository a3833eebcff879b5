package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is single-use: consumption flips IsUsed and a consumed
// token never authorizes a second reset. A user can accumulate any number of
// tokens over time; stale unused ones are simply never consumed.
type PasswordResetToken struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Token  string    `json:"token" gorm:"uniqueIndex;not null;size:255"`
	IsUsed bool      `json:"is_used" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
