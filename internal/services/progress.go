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

// ProgressPatch carries the caller-supplied changes for one module
// progress row; nil fields are left untouched.
type ProgressPatch struct {
	Status         *types.ModuleProgressStatus
	Progress       *float64
	TimeSpentDelta int
	Bookmarked     *bool
}

// ContentProgressInput is the granular in-content variant (video
// scrubbing and the like); it maps onto a ProgressPatch.
type ContentProgressInput struct {
	Progress  float64
	Duration  int
	Completed bool
}

type ModuleProgressEntry struct {
	Module   *types.Module         `json:"module"`
	Progress *types.ModuleProgress `json:"progress,omitempty"`
}

type EnrollmentProgressSummary struct {
	Enrollment *types.Enrollment     `json:"enrollment"`
	Path       *types.LearningPath   `json:"learning_path"`
	Modules    []ModuleProgressEntry `json:"modules"`
}

type UserProgressOverview struct {
	User          *types.User         `json:"user"`
	Level         LevelProgress       `json:"level"`
	CurrentStreak int                 `json:"current_streak"`
	LongestStreak int                 `json:"longest_streak"`
	Enrollments   []*types.Enrollment `json:"enrollments"`
}

type ProgressService interface {
	UpdateModuleProgress(ctx context.Context, enrollmentID, moduleID, userID uuid.UUID, patch ProgressPatch) (*types.ModuleProgress, error)
	TrackContentProgress(ctx context.Context, enrollmentID, moduleID, userID uuid.UUID, in ContentProgressInput) (*types.ModuleProgress, error)
	GetModuleProgress(ctx context.Context, userID, enrollmentID, moduleID uuid.UUID) (*types.ModuleProgress, error)
	ToggleBookmark(ctx context.Context, userID, enrollmentID, moduleID uuid.UUID) (*types.ModuleProgress, error)
	GetEnrollmentSummary(ctx context.Context, userID, enrollmentID uuid.UUID) (*EnrollmentProgressSummary, error)
	GetUserOverview(ctx context.Context, userID uuid.UUID) (*UserProgressOverview, error)
}

type progressService struct {
	db          *gorm.DB
	log         *logger.Logger
	users       repos.UserRepo
	enrollments repos.EnrollmentRepo
	paths       repos.LearningPathRepo
	modules     repos.ModuleRepo
	progress    repos.ModuleProgressRepo
	quizzes     repos.QuizRepo
	attempts    repos.QuizAttemptRepo
	points      PointsService
	streaks     StreakService
	activities  ActivityService
	enrollment  EnrollmentService
	notifier    Notifier
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	enrollments repos.EnrollmentRepo,
	paths repos.LearningPathRepo,
	modules repos.ModuleRepo,
	progress repos.ModuleProgressRepo,
	quizzes repos.QuizRepo,
	attempts repos.QuizAttemptRepo,
	points PointsService,
	streaks StreakService,
	activities ActivityService,
	enrollment EnrollmentService,
	notifier Notifier,
) ProgressService {
	return &progressService{
		db:          db,
		log:         baseLog.With("service", "ProgressService"),
		users:       users,
		enrollments: enrollments,
		paths:       paths,
		modules:     modules,
		progress:    progress,
		quizzes:     quizzes,
		attempts:    attempts,
		points:      points,
		streaks:     streaks,
		activities:  activities,
		enrollment:  enrollment,
		notifier:    notifier,
	}
}

// loadScope resolves and validates the (enrollment, module) pair for a
// user: the enrollment must belong to the user and the module must belong
// to the enrollment's learning path.
func (s *progressService) loadScope(ctx context.Context, tx *gorm.DB, enrollmentID, moduleID, userID uuid.UUID) (*types.Enrollment, *types.Module, error) {
	enrollment, err := s.enrollments.GetByID(ctx, tx, enrollmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil || enrollment.UserID != userID {
		return nil, nil, apierr.NotFound("enrollment_not_found", "enrollment %s not found", enrollmentID)
	}

	module, err := s.modules.GetByID(ctx, tx, moduleID)
	if err != nil {
		return nil, nil, fmt.Errorf("load module: %w", err)
	}
	if module == nil {
		return nil, nil, apierr.NotFound("module_not_found", "module %s not found", moduleID)
	}
	if module.LearningPathID != enrollment.LearningPathID {
		return nil, nil, apierr.BadRequest("module_not_in_path", "module %s does not belong to the enrollment's learning path", moduleID)
	}
	return enrollment, module, nil
}

// canComplete is the completion gate: a module backed by a quiz may only
// transition to COMPLETED once a passed attempt exists for this
// enrollment. Modules without a quiz always pass.
func (s *progressService) canComplete(ctx context.Context, tx *gorm.DB, module *types.Module, userID, enrollmentID uuid.UUID) (bool, error) {
	quiz, err := s.quizzes.GetByModuleID(ctx, tx, module.ID)
	if err != nil {
		return false, fmt.Errorf("load module quiz: %w", err)
	}
	if quiz == nil {
		return true, nil
	}
	return s.attempts.HasPassed(ctx, tx, userID, quiz.ID, enrollmentID)
}

func (s *progressService) UpdateModuleProgress(ctx context.Context, enrollmentID, moduleID, userID uuid.UUID, patch ProgressPatch) (*types.ModuleProgress, error) {
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return nil, apierr.Validation("invalid_progress", "progress must be within [0,100], got %v", *patch.Progress)
	}
	if patch.Status != nil && !types.ValidModuleProgressStatus(*patch.Status) {
		return nil, apierr.Validation("invalid_status", "unknown module progress status %q", *patch.Status)
	}
	if patch.TimeSpentDelta < 0 {
		return nil, apierr.Validation("invalid_time_spent", "time spent can only accumulate")
	}

	var result *types.ModuleProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		row, firstCompletion, module, err := s.applyPatch(ctx, tx, enrollmentID, moduleID, userID, patch)
		if err != nil {
			return err
		}

		if firstCompletion {
			if module.CompletionPoints > 0 {
				if err := s.points.Award(ctx, tx, userID, module.CompletionPoints,
					types.SourceModuleCompletion, module.ID,
					fmt.Sprintf("Completed module %q", module.Title),
				); err != nil {
					return fmt.Errorf("award module completion points: %w", err)
				}
			}
			if err := s.activities.Log(ctx, tx, userID, types.ActivityModuleCompleted,
				fmt.Sprintf("Completed %q", module.Title),
				map[string]any{"module_id": module.ID.String(), "enrollment_id": enrollmentID.String()},
				module.CompletionPoints,
			); err != nil {
				return fmt.Errorf("log module completion activity: %w", err)
			}
			s.notifier.Notify(ctx, userID, NotifyModuleCompletion, map[string]any{
				"module_id": module.ID.String(),
				"title":     module.Title,
				"points":    module.CompletionPoints,
			})
			if err := s.streaks.RecordDailyActivity(ctx, tx, userID); err != nil {
				return fmt.Errorf("record streak activity: %w", err)
			}
		} else if patch.Status != nil && *patch.Status == types.ModuleCompleted {
			// Caller re-sent COMPLETED for an already completed module.
			if err := s.activities.Log(ctx, tx, userID, types.ActivityModuleCompleted,
				fmt.Sprintf("Revisited %q", module.Title),
				map[string]any{"module_id": module.ID.String(), "enrollment_id": enrollmentID.String(), "is_revision": true},
				0,
			); err != nil {
				return fmt.Errorf("log module revision activity: %w", err)
			}
		}

		if _, err := s.enrollment.Recompute(ctx, tx, enrollmentID, userID); err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyPatch validates scope, merges the patch into the (lazily created)
// module progress row, and persists it.
func (s *progressService) applyPatch(ctx context.Context, tx *gorm.DB, enrollmentID, moduleID, userID uuid.UUID, patch ProgressPatch) (*types.ModuleProgress, bool, *types.Module, error) {
	enrollment, module, err := s.loadScope(ctx, tx, enrollmentID, moduleID, userID)
	if err != nil {
		return nil, false, nil, err
	}
	if enrollment.Status == types.EnrollmentDropped {
		return nil, false, nil, apierr.Validation("enrollment_dropped", "enrollment %s has been dropped", enrollmentID)
	}

	wantsCompleted := patch.Status != nil && *patch.Status == types.ModuleCompleted
	if wantsCompleted {
		ok, err := s.canComplete(ctx, tx, module, userID, enrollment.ID)
		if err != nil {
			return nil, false, nil, err
		}
		if !ok {
			return nil, false, nil, apierr.Validation("quiz_not_passed", "module %q requires a passed quiz before completion", module.Title)
		}
	}

	now := time.Now().UTC()
	existing, err := s.progress.GetByUserModuleEnrollment(ctx, tx, userID, moduleID, enrollment.ID)
	if err != nil {
		return nil, false, nil, fmt.Errorf("load module progress: %w", err)
	}

	firstCompletion := wantsCompleted && (existing == nil || existing.Status != types.ModuleCompleted)

	row := existing
	if row == nil {
		row = &types.ModuleProgress{
			ID:           uuid.New(),
			UserID:       userID,
			ModuleID:     moduleID,
			EnrollmentID: enrollment.ID,
			Status:       types.ModuleNotStarted,
		}
	}

	if patch.Progress != nil {
		row.Progress = *patch.Progress
	}
	if patch.TimeSpentDelta > 0 {
		row.TimeSpent += patch.TimeSpentDelta
	}
	if patch.Bookmarked != nil {
		row.Bookmarked = *patch.Bookmarked
	}
	if patch.Status != nil {
		switch *patch.Status {
		case types.ModuleInProgress:
			row.Status = types.ModuleInProgress
			if row.StartedAt == nil {
				row.StartedAt = &now
			}
		case types.ModuleCompleted:
			row.Status = types.ModuleCompleted
			row.Progress = 100
			if row.StartedAt == nil {
				row.StartedAt = &now
			}
			if row.CompletedAt == nil {
				row.CompletedAt = &now
			}
			if firstCompletion && module.CompletionPoints > 0 && row.PointsEarned == nil {
				pts := module.CompletionPoints
				row.PointsEarned = &pts
			}
		default:
			row.Status = *patch.Status
		}
	}
	row.LastAccessedAt = now

	if existing == nil {
		err = s.progress.Create(ctx, tx, row)
	} else {
		err = s.progress.Save(ctx, tx, row)
	}
	if err != nil {
		return nil, false, nil, fmt.Errorf("persist module progress: %w", err)
	}
	return row, firstCompletion, module, nil
}

func (s *progressService) TrackContentProgress(ctx context.Context, enrollmentID, moduleID, userID uuid.UUID, in ContentProgressInput) (*types.ModuleProgress, error) {
	if in.Progress < 0 || in.Progress > 100 {
		return nil, apierr.Validation("invalid_progress", "progress must be within [0,100], got %v", in.Progress)
	}
	if in.Duration < 0 {
		return nil, apierr.Validation("invalid_duration", "duration must be non-negative")
	}

	progress := in.Progress
	var status types.ModuleProgressStatus
	switch {
	case in.Completed || progress >= 100:
		status = types.ModuleCompleted
		progress = 100
	case progress > 0:
		status = types.ModuleInProgress
	default:
		status = types.ModuleNotStarted
	}

	return s.UpdateModuleProgress(ctx, enrollmentID, moduleID, userID, ProgressPatch{
		Status:         &status,
		Progress:       &progress,
		TimeSpentDelta: in.Duration,
	})
}

func (s *progressService) GetModuleProgress(ctx context.Context, userID, enrollmentID, moduleID uuid.UUID) (*types.ModuleProgress, error) {
	enrollment, module, err := s.loadScope(ctx, nil, enrollmentID, moduleID, userID)
	if err != nil {
		return nil, err
	}

	row, err := s.progress.GetByUserModuleEnrollment(ctx, nil, userID, moduleID, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("load module progress: %w", err)
	}
	if row == nil {
		// Not persisted until the first write.
		row = &types.ModuleProgress{
			UserID:       userID,
			ModuleID:     module.ID,
			EnrollmentID: enrollment.ID,
			Status:       types.ModuleNotStarted,
		}
	}
	return row, nil
}

func (s *progressService) ToggleBookmark(ctx context.Context, userID, enrollmentID, moduleID uuid.UUID) (*types.ModuleProgress, error) {
	var result *types.ModuleProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		enrollment, _, err := s.loadScope(ctx, tx, enrollmentID, moduleID, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		row, err := s.progress.GetByUserModuleEnrollment(ctx, tx, userID, moduleID, enrollment.ID)
		if err != nil {
			return fmt.Errorf("load module progress: %w", err)
		}
		if row == nil {
			row = &types.ModuleProgress{
				ID:             uuid.New(),
				UserID:         userID,
				ModuleID:       moduleID,
				EnrollmentID:   enrollment.ID,
				Status:         types.ModuleNotStarted,
				Bookmarked:     true,
				LastAccessedAt: now,
			}
			if err := s.progress.Create(ctx, tx, row); err != nil {
				return fmt.Errorf("create module progress: %w", err)
			}
		} else {
			row.Bookmarked = !row.Bookmarked
			row.LastAccessedAt = now
			if err := s.progress.Save(ctx, tx, row); err != nil {
				return fmt.Errorf("save module progress: %w", err)
			}
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *progressService) GetEnrollmentSummary(ctx context.Context, userID, enrollmentID uuid.UUID) (*EnrollmentProgressSummary, error) {
	enrollment, err := s.enrollments.GetByID(ctx, nil, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil || enrollment.UserID != userID {
		return nil, apierr.NotFound("enrollment_not_found", "enrollment %s not found", enrollmentID)
	}

	path, err := s.paths.GetByID(ctx, nil, enrollment.LearningPathID)
	if err != nil {
		return nil, fmt.Errorf("load learning path: %w", err)
	}

	modules, err := s.modules.GetByPathID(ctx, nil, enrollment.LearningPathID)
	if err != nil {
		return nil, fmt.Errorf("load path modules: %w", err)
	}
	rows, err := s.progress.GetByEnrollmentID(ctx, nil, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("load module progress: %w", err)
	}
	byModule := make(map[uuid.UUID]*types.ModuleProgress, len(rows))
	for _, row := range rows {
		byModule[row.ModuleID] = row
	}

	summary := &EnrollmentProgressSummary{
		Enrollment: enrollment,
		Path:       path,
		Modules:    make([]ModuleProgressEntry, 0, len(modules)),
	}
	for _, module := range modules {
		summary.Modules = append(summary.Modules, ModuleProgressEntry{
			Module:   module,
			Progress: byModule[module.ID],
		})
	}
	return summary, nil
}

func (s *progressService) GetUserOverview(ctx context.Context, userID uuid.UUID) (*UserProgressOverview, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", "user %s not found", userID)
	}

	// Streak counters are validated lazily; a stale streak is corrected
	// before it is reported.
	if err := s.streaks.ValidateStreak(ctx, nil, userID); err != nil {
		return nil, err
	}
	user, err = s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", "user %s not found", userID)
	}

	enrollments, err := s.enrollments.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}

	return &UserProgressOverview{
		User:          user,
		Level:         LevelProgressForPoints(user.TotalPoints),
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		Enrollments:   enrollments,
	}, nil
}
