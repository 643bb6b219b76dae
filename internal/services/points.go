package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/apierr"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/repos"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

// PointsService is the append-only ledger. Award performs no duplicate
// detection of its own beyond the ledger's uniqueness backstop; callers
// decide first-time-ness and invoke it at most once per rewarded event.
type PointsService interface {
	Award(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, source types.PointsSource, sourceID uuid.UUID, description string) error
	GetLevelProgress(ctx context.Context, userID uuid.UUID) (*LevelProgress, error)
	Transactions(ctx context.Context, userID uuid.UUID) ([]*types.PointsTransaction, error)
}

type pointsService struct {
	db           *gorm.DB
	log          *logger.Logger
	users        repos.UserRepo
	transactions repos.PointsTransactionRepo
	activities   ActivityService
	notifier     Notifier
}

func NewPointsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	transactions repos.PointsTransactionRepo,
	activities ActivityService,
	notifier Notifier,
) PointsService {
	return &pointsService{
		db:           db,
		log:          baseLog.With("service", "PointsService"),
		users:        users,
		transactions: transactions,
		activities:   activities,
		notifier:     notifier,
	}
}

func (s *pointsService) Award(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int, source types.PointsSource, sourceID uuid.UUID, description string) error {
	if amount < 0 {
		return apierr.Validation("negative_points", "points amount must be non-negative, got %d", amount)
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	user, err := s.users.GetByID(ctx, transaction, userID)
	if err != nil {
		return fmt.Errorf("load user for award: %w", err)
	}
	if user == nil {
		// Callers validate existence upstream; a missing user here is an
		// internal-consistency gap, not a caller-facing failure.
		s.log.Warn("award for unknown user skipped", "user_id", userID, "source", source)
		return nil
	}

	oldLevel := user.CurrentLevel
	newBalance := user.TotalPoints + amount

	if err := s.transactions.Create(ctx, transaction, &types.PointsTransaction{
		ID:          uuid.New(),
		UserID:      user.ID,
		Type:        types.TransactionEarned,
		Amount:      amount,
		Balance:     newBalance,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("append points transaction: %w", err)
	}

	user.TotalPoints = newBalance
	newLevel := LevelForPoints(newBalance)
	leveledUp := newLevel > oldLevel
	if leveledUp {
		user.CurrentLevel = newLevel
	}
	if err := s.users.Save(ctx, transaction, user); err != nil {
		return fmt.Errorf("save user points: %w", err)
	}

	if leveledUp {
		if err := s.activities.Log(ctx, transaction, user.ID, types.ActivityLevelUp,
			fmt.Sprintf("Reached level %d", newLevel),
			map[string]any{"old_level": oldLevel, "new_level": newLevel, "points": newBalance},
			0,
		); err != nil {
			return fmt.Errorf("log level-up activity: %w", err)
		}
		s.notifier.Notify(ctx, user.ID, NotifyLevelUp, map[string]any{
			"old_level": oldLevel,
			"new_level": newLevel,
			"points":    newBalance,
		})
	}
	return nil
}

func (s *pointsService) GetLevelProgress(ctx context.Context, userID uuid.UUID) (*LevelProgress, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", "user %s not found", userID)
	}
	lp := LevelProgressForPoints(user.TotalPoints)
	return &lp, nil
}

func (s *pointsService) Transactions(ctx context.Context, userID uuid.UUID) ([]*types.PointsTransaction, error) {
	return s.transactions.GetByUserID(ctx, nil, userID)
}
