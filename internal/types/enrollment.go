package types

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "ENROLLED"
	EnrollmentInProgress EnrollmentStatus = "IN_PROGRESS"
	EnrollmentCompleted  EnrollmentStatus = "COMPLETED"
	EnrollmentDropped    EnrollmentStatus = "DROPPED"
)

type Enrollment struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_user_path,unique" json:"user_id"`
	User           *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LearningPathID uuid.UUID        `gorm:"type:uuid;not null;index:idx_user_path,unique" json:"learning_path_id"`
	LearningPath   *LearningPath    `gorm:"constraint:OnDelete:CASCADE;foreignKey:LearningPathID;references:ID" json:"learning_path,omitempty"`
	Status         EnrollmentStatus `gorm:"column:status;not null;default:'ENROLLED'" json:"status"`
	// Aggregate over this enrollment's module progress rows, 0-100.
	Progress       float64    `gorm:"column:progress;not null;default:0" json:"progress"`
	FinalScore     *float64   `gorm:"column:final_score" json:"final_score,omitempty"`
	EnrolledAt     time.Time  `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	LastActivityAt time.Time  `gorm:"column:last_activity_at;not null" json:"last_activity_at"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }
