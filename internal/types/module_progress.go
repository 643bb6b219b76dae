package types

import (
	"time"

	"github.com/google/uuid"
)

type ModuleProgressStatus string

const (
	ModuleNotStarted ModuleProgressStatus = "NOT_STARTED"
	ModuleInProgress ModuleProgressStatus = "IN_PROGRESS"
	ModuleCompleted  ModuleProgressStatus = "COMPLETED"
	ModuleSkipped    ModuleProgressStatus = "SKIPPED"
)

func ValidModuleProgressStatus(s ModuleProgressStatus) bool {
	switch s {
	case ModuleNotStarted, ModuleInProgress, ModuleCompleted, ModuleSkipped:
		return true
	default:
		return false
	}
}

type ModuleProgress struct {
	ID           uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID            `gorm:"type:uuid;not null;index:idx_user_module_enrollment,unique" json:"user_id"`
	User         *User                `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ModuleID     uuid.UUID            `gorm:"type:uuid;not null;index:idx_user_module_enrollment,unique" json:"module_id"`
	Module       *Module              `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	EnrollmentID uuid.UUID            `gorm:"type:uuid;not null;index:idx_user_module_enrollment,unique" json:"enrollment_id"`
	Enrollment   *Enrollment          `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	Status       ModuleProgressStatus `gorm:"column:status;not null;default:'NOT_STARTED'" json:"status"`
	Progress     float64              `gorm:"column:progress;not null;default:0" json:"progress"`
	// Monotonically non-decreasing accumulated seconds.
	TimeSpent int `gorm:"column:time_spent;not null;default:0" json:"time_spent"`
	Attempts  int `gorm:"column:attempts;not null;default:0" json:"attempts"`
	// Set exactly once, on the first transition into COMPLETED.
	PointsEarned *int `gorm:"column:points_earned" json:"points_earned,omitempty"`
	// Set exactly once, from the initial quiz attempt.
	QuizScore      *float64   `gorm:"column:quiz_score" json:"quiz_score,omitempty"`
	Bookmarked     bool       `gorm:"column:bookmarked;not null;default:false" json:"bookmarked"`
	StartedAt      *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	LastAccessedAt time.Time  `gorm:"column:last_accessed_at;not null" json:"last_accessed_at"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (ModuleProgress) TableName() string { return "module_progress" }
