package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/repos"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

// StreakService tracks consecutive working days of learning activity.
// A day advances the streak only when the user both completed a module
// and submitted a quiz attempt on that day; Saturdays and Sundays never
// advance and never break a streak.
type StreakService interface {
	ValidateStreak(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	RecordDailyActivity(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	Calendar(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*types.StreakHistory, error)
}

type streakService struct {
	db         *gorm.DB
	log        *logger.Logger
	users      repos.UserRepo
	history    repos.StreakHistoryRepo
	progress   repos.ModuleProgressRepo
	attempts   repos.QuizAttemptRepo
	activities ActivityService
	notifier   Notifier
	now        func() time.Time
}

func NewStreakService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	history repos.StreakHistoryRepo,
	progress repos.ModuleProgressRepo,
	attempts repos.QuizAttemptRepo,
	activities ActivityService,
	notifier Notifier,
) StreakService {
	return &streakService{
		db:         db,
		log:        baseLog.With("service", "StreakService"),
		users:      users,
		history:    history,
		progress:   progress,
		attempts:   attempts,
		activities: activities,
		notifier:   notifier,
		now:        time.Now,
	}
}

func isWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// breakStreakIfGapped scans every calendar day strictly between the last
// credited day and today; any missed working day in the gap breaks the
// streak. Weekend-only gaps survive. Reports whether the user was mutated.
func breakStreakIfGapped(user *types.User, today time.Time) bool {
	if user.CurrentStreak == 0 || user.LastActiveDate == nil {
		return false
	}
	last := dateOnly(*user.LastActiveDate)
	for d := last.AddDate(0, 0, 1); d.Before(today); d = d.AddDate(0, 0, 1) {
		if isWorkingDay(d) {
			user.CurrentStreak = 0
			return true
		}
	}
	return false
}

func (s *streakService) ValidateStreak(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	user, err := s.users.GetByID(ctx, transaction, userID)
	if err != nil {
		return fmt.Errorf("load user for streak validation: %w", err)
	}
	if user == nil {
		return nil
	}
	if breakStreakIfGapped(user, dateOnly(s.now())) {
		s.log.Debug("streak broken", "user_id", userID)
		return s.users.Save(ctx, transaction, user)
	}
	return nil
}

func (s *streakService) RecordDailyActivity(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	user, err := s.users.GetByID(ctx, transaction, userID)
	if err != nil {
		return fmt.Errorf("load user for streak: %w", err)
	}
	if user == nil {
		return nil
	}

	now := s.now().UTC()
	today := dateOnly(now)

	// The history row records raw activity for every day, weekends
	// included; only the Completed flag is tied to streak credit.
	hist, err := s.history.GetByUserAndDate(ctx, transaction, user.ID, today)
	if err != nil {
		return fmt.Errorf("load streak history: %w", err)
	}
	if hist == nil {
		hist = &types.StreakHistory{
			ID:            uuid.New(),
			UserID:        user.ID,
			Date:          today,
			ActivityCount: 1,
		}
		if err := s.history.Create(ctx, transaction, hist); err != nil {
			return fmt.Errorf("create streak history: %w", err)
		}
	} else {
		hist.ActivityCount++
		if err := s.history.Save(ctx, transaction, hist); err != nil {
			return fmt.Errorf("save streak history: %w", err)
		}
	}

	if !isWorkingDay(today) {
		return nil
	}

	broken := breakStreakIfGapped(user, today)

	if user.LastActiveDate != nil && dateOnly(*user.LastActiveDate).Equal(today) {
		// Today already credited; re-entrant calls are no-ops.
		if broken {
			return s.users.Save(ctx, transaction, user)
		}
		return nil
	}

	tomorrow := today.AddDate(0, 0, 1)
	completedModules, err := s.progress.CountCompletedBetween(ctx, transaction, user.ID, today, tomorrow)
	if err != nil {
		return fmt.Errorf("count module completions: %w", err)
	}
	submittedAttempts, err := s.attempts.CountSubmittedBetween(ctx, transaction, user.ID, today, tomorrow)
	if err != nil {
		return fmt.Errorf("count quiz attempts: %w", err)
	}

	if completedModules == 0 || submittedAttempts == 0 {
		// Both daily conditions must hold in the same calendar day.
		if broken {
			return s.users.Save(ctx, transaction, user)
		}
		return nil
	}

	user.CurrentStreak++
	if user.CurrentStreak > user.LongestStreak {
		user.LongestStreak = user.CurrentStreak
	}
	user.LastActiveDate = &now
	if err := s.users.Save(ctx, transaction, user); err != nil {
		return fmt.Errorf("save streak advance: %w", err)
	}

	hist.Completed = true
	if err := s.history.Save(ctx, transaction, hist); err != nil {
		return fmt.Errorf("mark streak day complete: %w", err)
	}

	if err := s.activities.Log(ctx, transaction, user.ID, types.ActivityStreakMilestone,
		fmt.Sprintf("%d-day learning streak", user.CurrentStreak),
		map[string]any{"streak": user.CurrentStreak, "longest_streak": user.LongestStreak},
		0,
	); err != nil {
		return fmt.Errorf("log streak activity: %w", err)
	}
	s.notifier.Notify(ctx, user.ID, NotifyStreakMilestone, map[string]any{
		"streak":         user.CurrentStreak,
		"longest_streak": user.LongestStreak,
	})
	return nil
}

func (s *streakService) Calendar(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*types.StreakHistory, error) {
	return s.history.GetByUserBetween(ctx, nil, userID, dateOnly(from), dateOnly(to).AddDate(0, 0, 1))
}
