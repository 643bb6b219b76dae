package types

import (
	"time"

	"github.com/google/uuid"
)

// ContentType is a closed set; ValidContentType is the single place new
// variants get added.
type ContentType string

const (
	ContentVideo    ContentType = "VIDEO"
	ContentText     ContentType = "TEXT"
	ContentQuiz     ContentType = "QUIZ"
	ContentExercise ContentType = "EXERCISE"
)

func ValidContentType(t ContentType) bool {
	switch t {
	case ContentVideo, ContentText, ContentQuiz, ContentExercise:
		return true
	default:
		return false
	}
}

type Module struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	LearningPathID uuid.UUID     `gorm:"type:uuid;not null;index" json:"learning_path_id"`
	LearningPath   *LearningPath `gorm:"constraint:OnDelete:CASCADE;foreignKey:LearningPathID;references:ID" json:"learning_path,omitempty"`
	Title          string        `gorm:"not null;column:title" json:"title"`
	ContentType    ContentType   `gorm:"column:content_type;not null;default:'TEXT'" json:"content_type"`
	Position       int           `gorm:"column:position;not null;default:0" json:"position"`
	// Points awarded on first completion of this module; 0 means none.
	CompletionPoints int       `gorm:"column:completion_points;not null;default:0" json:"completion_points"`
	DurationSeconds  int       `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (Module) TableName() string { return "module" }
