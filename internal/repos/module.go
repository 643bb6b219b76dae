package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type ModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, modules []*types.Module) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Module, error)
	GetByPathID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) ([]*types.Module, error)
	CountByPathID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) (int64, error)
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return &moduleRepo{db: db, log: baseLog.With("repo", "ModuleRepo")}
}

func (r *moduleRepo) Create(ctx context.Context, tx *gorm.DB, modules []*types.Module) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(modules) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&modules).Error
}

func (r *moduleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}

	var module types.Module
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepo) GetByPathID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Module
	if pathID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("learning_path_id = ?", pathID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) CountByPathID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if pathID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Module{}).
		Where("learning_path_id = ?", pathID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
