package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type LearningPathRepo interface {
	Create(ctx context.Context, tx *gorm.DB, path *types.LearningPath) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LearningPath, error)
}

type learningPathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningPathRepo(db *gorm.DB, baseLog *logger.Logger) LearningPathRepo {
	return &learningPathRepo{db: db, log: baseLog.With("repo", "LearningPathRepo")}
}

func (r *learningPathRepo) Create(ctx context.Context, tx *gorm.DB, path *types.LearningPath) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if path == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(path).Error
}

func (r *learningPathRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}

	var path types.LearningPath
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &path, nil
}
