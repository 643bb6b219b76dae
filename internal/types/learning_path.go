package types

import (
	"time"

	"github.com/google/uuid"
)

type LearningPath struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	// Points awarded when the whole path is completed. 0 means "use the
	// configured default".
	CompletionPoints int       `gorm:"column:completion_points;not null;default:0" json:"completion_points"`
	IsActive         bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (LearningPath) TableName() string { return "learning_path" }
