package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type StreakHistoryRepo interface {
	GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.StreakHistory, error)
	GetByUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.StreakHistory, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.StreakHistory) error
	Save(ctx context.Context, tx *gorm.DB, row *types.StreakHistory) error
}

type streakHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStreakHistoryRepo(db *gorm.DB, baseLog *logger.Logger) StreakHistoryRepo {
	return &streakHistoryRepo{db: db, log: baseLog.With("repo", "StreakHistoryRepo")}
}

func (r *streakHistoryRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.StreakHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}

	var row types.StreakHistory
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *streakHistoryRepo) GetByUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.StreakHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StreakHistory
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *streakHistoryRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StreakHistory) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *streakHistoryRepo) Save(ctx context.Context, tx *gorm.DB, row *types.StreakHistory) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}
