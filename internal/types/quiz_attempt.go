package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizAttempt rows are immutable once created.
type QuizAttempt struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID   `gorm:"type:uuid;not null;index:idx_user_quiz_attempt,unique" json:"user_id"`
	User         *User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	QuizID       uuid.UUID   `gorm:"type:uuid;not null;index:idx_user_quiz_attempt,unique" json:"quiz_id"`
	Quiz         *Quiz       `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	EnrollmentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	Enrollment   *Enrollment `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	// 1-based per (user, quiz); never reused.
	AttemptNumber   int            `gorm:"column:attempt_number;not null;index:idx_user_quiz_attempt,unique" json:"attempt_number"`
	Score           float64        `gorm:"column:score;not null" json:"score"`
	Percentage      float64        `gorm:"column:percentage;not null" json:"percentage"`
	Passed          bool           `gorm:"column:passed;not null" json:"passed"`
	Answers         datatypes.JSON `gorm:"column:answers" json:"answers"`
	DetailedResults datatypes.JSON `gorm:"column:detailed_results" json:"detailed_results"`
	CompletedAt     time.Time      `gorm:"column:completed_at;not null" json:"completed_at"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

// QuestionResult is one entry of a QuizAttempt's detailed_results payload.
type QuestionResult struct {
	QuestionIndex int    `json:"question_index"`
	QuestionID    string `json:"question_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}
