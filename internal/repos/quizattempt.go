package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type QuizAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *types.QuizAttempt) error
	CountByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (int64, error)
	GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error)
	HasPassed(ctx context.Context, tx *gorm.DB, userID, quizID, enrollmentID uuid.UUID) (bool, error)
	HasPassedBefore(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID, excludeAttemptID uuid.UUID) (bool, error)
	CountSubmittedBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error)
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (r *quizAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *types.QuizAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if attempt == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(attempt).Error
}

func (r *quizAttemptRepo) CountByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if userID == uuid.Nil || quizID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *quizAttemptRepo) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizAttempt
	if userID == uuid.Nil || quizID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// HasPassed reports whether any attempt for (user, quiz, enrollment)
// passed; the completion gate runs on this.
func (r *quizAttemptRepo) HasPassed(ctx context.Context, tx *gorm.DB, userID, quizID, enrollmentID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if userID == uuid.Nil || quizID == uuid.Nil || enrollmentID == uuid.Nil {
		return false, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND enrollment_id = ? AND passed = ?",
			userID, quizID, enrollmentID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasPassedBefore reports whether the user passed this quiz on any attempt
// other than excludeAttemptID; distinguishes a first pass from a revision.
func (r *quizAttemptRepo) HasPassedBefore(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID, excludeAttemptID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if userID == uuid.Nil || quizID == uuid.Nil {
		return false, nil
	}

	query := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quizID, true)
	if excludeAttemptID != uuid.Nil {
		query = query.Where("id <> ?", excludeAttemptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *quizAttemptRepo) CountSubmittedBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if userID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND completed_at >= ? AND completed_at < ?", userID, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
