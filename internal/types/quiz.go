package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Quiz struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"module_id"`
	Module   *Module   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Title    string    `gorm:"column:title" json:"title"`
	// Minimum percentage (0-100) required to pass.
	PassingScore float64 `gorm:"column:passing_score;not null;default:70" json:"passing_score"`
	// 0 means unlimited attempts.
	MaxAttempts     int       `gorm:"column:max_attempts;not null;default:0" json:"max_attempts"`
	PointsAvailable int       `gorm:"column:points_available;not null;default:0" json:"points_available"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }

type QuizQuestion struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID   uuid.UUID `gorm:"type:uuid;not null;index:idx_quiz_position,unique" json:"quiz_id"`
	Quiz     *Quiz     `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	Position int       `gorm:"column:position;not null;index:idx_quiz_position,unique" json:"position"`
	Prompt   string    `gorm:"column:prompt;not null" json:"prompt"`
	Options  datatypes.JSON `gorm:"column:options" json:"options"`
	// Answer key the submitted answer at this question's position is
	// compared against.
	CorrectAnswer string    `gorm:"column:correct_answer;not null" json:"-"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }
