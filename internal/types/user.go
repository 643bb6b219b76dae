package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName     string     `gorm:"column:first_name" json:"first_name"`
	LastName      string     `gorm:"column:last_name" json:"last_name"`
	TotalPoints   int        `gorm:"column:total_points;not null;default:0" json:"total_points"`
	CurrentLevel  int        `gorm:"column:current_level;not null;default:1" json:"current_level"`
	CurrentStreak int        `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak int        `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	// Date of the last day credited toward the streak; nil until a first
	// working day is credited.
	LastActiveDate *time.Time `gorm:"column:last_active_date" json:"last_active_date,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
