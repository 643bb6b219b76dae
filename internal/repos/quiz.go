package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type QuizRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quiz, error)
	GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (*types.Quiz, error)
	CreateQuestions(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) error
	GetQuestionsByQuizID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) ([]*types.QuizQuestion, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if quiz == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}

	var quiz types.Quiz
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetByModuleID returns (nil, nil) for modules without a quiz.
func (r *quizRepo) GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if moduleID == uuid.Nil {
		return nil, nil
	}

	var quiz types.Quiz
	err := transaction.WithContext(ctx).Where("module_id = ?", moduleID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) CreateQuestions(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(questions) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&questions).Error
}

func (r *quizRepo) GetQuestionsByQuizID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizQuestion
	if quizID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
