package types

import (
	"time"

	"github.com/google/uuid"
)

type PointsSource string

const (
	SourceModuleCompletion PointsSource = "MODULE_COMPLETION"
	SourceQuizCompletion   PointsSource = "QUIZ_COMPLETION"
	SourcePathCompletion   PointsSource = "PATH_COMPLETION"
)

// PointsTransaction is an append-only ledger entry. The unique index on
// (user_id, source, source_id) is the idempotency backstop: a rewarded
// event can produce at most one row, so a racing duplicate award aborts
// the whole transaction instead of double-crediting.
type PointsTransaction struct {
	ID     uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID    `gorm:"type:uuid;not null;index:idx_user_source_ref,unique" json:"user_id"`
	User   *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type   string       `gorm:"column:type;not null;default:'EARNED'" json:"type"`
	Amount int          `gorm:"column:amount;not null" json:"amount"`
	// Post-transaction running total.
	Balance     int          `gorm:"column:balance;not null" json:"balance"`
	Source      PointsSource `gorm:"column:source;not null;index:idx_user_source_ref,unique" json:"source"`
	SourceID    uuid.UUID    `gorm:"type:uuid;column:source_id;not null;index:idx_user_source_ref,unique" json:"source_id"`
	Description string       `gorm:"column:description" json:"description"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
}

func (PointsTransaction) TableName() string { return "points_transaction" }

const TransactionEarned = "EARNED"
