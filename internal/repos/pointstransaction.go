package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type PointsTransactionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.PointsTransaction) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PointsTransaction, error)
	SumAmountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type pointsTransactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPointsTransactionRepo(db *gorm.DB, baseLog *logger.Logger) PointsTransactionRepo {
	return &pointsTransactionRepo{db: db, log: baseLog.With("repo", "PointsTransactionRepo")}
}

func (r *pointsTransactionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.PointsTransaction) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *pointsTransactionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PointsTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PointsTransaction
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pointsTransactionRepo) SumAmountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil {
		return 0, nil
	}

	var sum *int64
	if err := transaction.WithContext(ctx).
		Model(&types.PointsTransaction{}).
		Select("SUM(amount)").
		Where("user_id = ?", userID).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
