package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivityLogin           ActivityType = "LOGIN"
	ActivityEnrolled        ActivityType = "ENROLLED"
	ActivityModuleCompleted ActivityType = "MODULE_COMPLETED"
	ActivityQuizPassed      ActivityType = "QUIZ_PASSED"
	ActivityLevelUp         ActivityType = "LEVEL_UP"
	ActivityStreakMilestone ActivityType = "STREAK_MILESTONE"
	ActivityPathCompleted   ActivityType = "PATH_COMPLETED"
)

// Activity is the append-only audit/feed log of domain events.
type Activity struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type         ActivityType   `gorm:"column:type;not null" json:"type"`
	Description  string         `gorm:"column:description" json:"description"`
	Metadata     datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	PointsEarned int            `gorm:"column:points_earned;not null;default:0" json:"points_earned"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Activity) TableName() string { return "activity" }
