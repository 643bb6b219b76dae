package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Enrollment, error)
	GetByUserAndPath(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*types.Enrollment, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error)
	Save(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if enrollment == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}

	var enrollment types.Enrollment
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByUserAndPath(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || pathID == uuid.Nil {
		return nil, nil
	}

	var enrollment types.Enrollment
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND learning_path_id = ?", userID, pathID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Enrollment
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) Save(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if enrollment == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(enrollment).Error
}
