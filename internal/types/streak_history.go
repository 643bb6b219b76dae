package types

import (
	"time"

	"github.com/google/uuid"
)

// StreakHistory keeps one row per (user, calendar date) as the audit
// trail behind the mutable streak counters on User. Date is midnight UTC.
type StreakHistory struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_date,unique" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Date   time.Time `gorm:"column:date;not null;index:idx_user_date,unique" json:"date"`
	// Whether the day was credited toward the streak.
	Completed     bool      `gorm:"column:completed;not null;default:false" json:"completed"`
	ActivityCount int       `gorm:"column:activity_count;not null;default:0" json:"activity_count"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (StreakHistory) TableName() string { return "streak_history" }
