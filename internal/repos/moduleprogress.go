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

type ModuleProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ModuleProgress, error)
	GetByUserModuleEnrollment(ctx context.Context, tx *gorm.DB, userID, moduleID, enrollmentID uuid.UUID) (*types.ModuleProgress, error)
	GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.ModuleProgress, error)
	Save(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error
	CountCompletedBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error)
}

type moduleProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleProgressRepo(db *gorm.DB, baseLog *logger.Logger) ModuleProgressRepo {
	return &moduleProgressRepo{db: db, log: baseLog.With("repo", "ModuleProgressRepo")}
}

func (r *moduleProgressRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *moduleProgressRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ModuleProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}

	var row types.ModuleProgress
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByUserModuleEnrollment returns (nil, nil) when no row exists yet;
// rows are created lazily on first access.
func (r *moduleProgressRepo) GetByUserModuleEnrollment(ctx context.Context, tx *gorm.DB, userID, moduleID, enrollmentID uuid.UUID) (*types.ModuleProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || moduleID == uuid.Nil || enrollmentID == uuid.Nil {
		return nil, nil
	}

	var row types.ModuleProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND module_id = ? AND enrollment_id = ?", userID, moduleID, enrollmentID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *moduleProgressRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.ModuleProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ModuleProgress
	if enrollmentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleProgressRepo) Save(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

// CountCompletedBetween counts module completions whose completed_at falls
// in [from, to); the streak tracker uses it for the daily module condition.
func (r *moduleProgressRepo) CountCompletedBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if userID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ModuleProgress{}).
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, types.ModuleCompleted, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
