package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/apierr"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/repos"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, pathID uuid.UUID) (*types.Enrollment, error)
	Drop(ctx context.Context, userID, enrollmentID uuid.UUID) (*types.Enrollment, error)
	// Recompute re-derives the enrollment's aggregate progress and status
	// from its module progress rows; it runs after every module progress
	// write, inside the caller's transaction.
	Recompute(ctx context.Context, tx *gorm.DB, enrollmentID, userID uuid.UUID) (*types.Enrollment, error)
}

type enrollmentService struct {
	db          *gorm.DB
	log         *logger.Logger
	enrollments repos.EnrollmentRepo
	paths       repos.LearningPathRepo
	modules     repos.ModuleRepo
	progress    repos.ModuleProgressRepo
	points      PointsService
	activities  ActivityService
	notifier    Notifier
	// Award for finishing a path that does not define its own
	// completion points.
	defaultPathPoints int
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	enrollments repos.EnrollmentRepo,
	paths repos.LearningPathRepo,
	modules repos.ModuleRepo,
	progress repos.ModuleProgressRepo,
	points PointsService,
	activities ActivityService,
	notifier Notifier,
	defaultPathPoints int,
) EnrollmentService {
	return &enrollmentService{
		db:                db,
		log:               baseLog.With("service", "EnrollmentService"),
		enrollments:       enrollments,
		paths:             paths,
		modules:           modules,
		progress:          progress,
		points:            points,
		activities:        activities,
		notifier:          notifier,
		defaultPathPoints: defaultPathPoints,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, pathID uuid.UUID) (*types.Enrollment, error) {
	var result *types.Enrollment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		path, err := s.paths.GetByID(ctx, tx, pathID)
		if err != nil {
			return fmt.Errorf("load learning path: %w", err)
		}
		if path == nil {
			return apierr.NotFound("path_not_found", "learning path %s not found", pathID)
		}

		now := time.Now().UTC()
		existing, err := s.enrollments.GetByUserAndPath(ctx, tx, userID, pathID)
		if err != nil {
			return fmt.Errorf("load enrollment: %w", err)
		}
		if existing != nil {
			if existing.Status != types.EnrollmentDropped {
				return apierr.Validation("already_enrolled", "user is already enrolled in %q", path.Title)
			}
			// Re-enrollment reuses the row: aggregate fields reset, module
			// progress rows are kept as they were.
			existing.Status = types.EnrollmentEnrolled
			existing.Progress = 0
			existing.FinalScore = nil
			existing.CompletedAt = nil
			existing.EnrolledAt = now
			existing.LastActivityAt = now
			if err := s.enrollments.Save(ctx, tx, existing); err != nil {
				return fmt.Errorf("save re-enrollment: %w", err)
			}
			result = existing
		} else {
			enrollment := &types.Enrollment{
				ID:             uuid.New(),
				UserID:         userID,
				LearningPathID: pathID,
				Status:         types.EnrollmentEnrolled,
				EnrolledAt:     now,
				LastActivityAt: now,
			}
			if err := s.enrollments.Create(ctx, tx, enrollment); err != nil {
				return fmt.Errorf("create enrollment: %w", err)
			}
			result = enrollment
		}

		if err := s.activities.Log(ctx, tx, userID, types.ActivityEnrolled,
			fmt.Sprintf("Enrolled in %q", path.Title),
			map[string]any{"learning_path_id": pathID.String(), "enrollment_id": result.ID.String()},
			0,
		); err != nil {
			return fmt.Errorf("log enrollment activity: %w", err)
		}
		s.notifier.Notify(ctx, userID, NotifyWelcome, map[string]any{
			"learning_path_id": pathID.String(),
			"title":            path.Title,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *enrollmentService) Drop(ctx context.Context, userID, enrollmentID uuid.UUID) (*types.Enrollment, error) {
	var result *types.Enrollment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		enrollment, err := s.enrollments.GetByID(ctx, tx, enrollmentID)
		if err != nil {
			return fmt.Errorf("load enrollment: %w", err)
		}
		if enrollment == nil || enrollment.UserID != userID {
			return apierr.NotFound("enrollment_not_found", "enrollment %s not found", enrollmentID)
		}
		if enrollment.Status == types.EnrollmentCompleted {
			return apierr.Validation("enrollment_completed", "a completed enrollment cannot be dropped")
		}

		enrollment.Status = types.EnrollmentDropped
		enrollment.LastActivityAt = time.Now().UTC()
		if err := s.enrollments.Save(ctx, tx, enrollment); err != nil {
			return fmt.Errorf("save dropped enrollment: %w", err)
		}
		s.notifier.Notify(ctx, userID, NotifyStatusUpdate, map[string]any{
			"enrollment_id": enrollment.ID.String(),
			"status":        string(types.EnrollmentDropped),
		})
		result = enrollment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *enrollmentService) Recompute(ctx context.Context, tx *gorm.DB, enrollmentID, userID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	enrollment, err := s.enrollments.GetByID(ctx, transaction, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil || enrollment.UserID != userID {
		return nil, apierr.NotFound("enrollment_not_found", "enrollment %s not found", enrollmentID)
	}
	if enrollment.Status == types.EnrollmentDropped {
		// A dropped enrollment keeps its aggregate frozen until re-enrollment.
		return enrollment, nil
	}

	totalModules, err := s.modules.CountByPathID(ctx, transaction, enrollment.LearningPathID)
	if err != nil {
		return nil, fmt.Errorf("count path modules: %w", err)
	}

	percentage := 0.0
	if totalModules > 0 {
		rows, err := s.progress.GetByEnrollmentID(ctx, transaction, enrollmentID)
		if err != nil {
			return nil, fmt.Errorf("load module progress: %w", err)
		}
		var sum float64
		for _, row := range rows {
			sum += row.Progress
		}
		percentage = sum / float64(totalModules)
	}
	if percentage > 100 {
		percentage = 100
	}
	percentage = round2(percentage)

	var status types.EnrollmentStatus
	switch {
	case percentage == 0:
		status = types.EnrollmentEnrolled
	case percentage < 100:
		status = types.EnrollmentInProgress
	default:
		status = types.EnrollmentCompleted
	}

	now := time.Now().UTC()
	firstCompletion := status == types.EnrollmentCompleted && enrollment.Status != types.EnrollmentCompleted

	enrollment.Progress = percentage
	enrollment.Status = status
	enrollment.LastActivityAt = now

	if firstCompletion {
		enrollment.CompletedAt = &now
		finalScore := percentage
		enrollment.FinalScore = &finalScore
	}

	if err := s.enrollments.Save(ctx, transaction, enrollment); err != nil {
		return nil, fmt.Errorf("save enrollment aggregate: %w", err)
	}

	if firstCompletion {
		path, err := s.paths.GetByID(ctx, transaction, enrollment.LearningPathID)
		if err != nil {
			return nil, fmt.Errorf("load path for completion: %w", err)
		}
		pathPoints := s.defaultPathPoints
		pathTitle := ""
		if path != nil {
			pathTitle = path.Title
			if path.CompletionPoints > 0 {
				pathPoints = path.CompletionPoints
			}
		}
		if err := s.points.Award(ctx, transaction, userID, pathPoints,
			types.SourcePathCompletion, enrollment.LearningPathID,
			fmt.Sprintf("Completed learning path %q", pathTitle),
		); err != nil {
			return nil, fmt.Errorf("award path completion points: %w", err)
		}
		if err := s.activities.Log(ctx, transaction, userID, types.ActivityPathCompleted,
			fmt.Sprintf("Completed %q", pathTitle),
			map[string]any{"learning_path_id": enrollment.LearningPathID.String(), "enrollment_id": enrollment.ID.String()},
			pathPoints,
		); err != nil {
			return nil, fmt.Errorf("log path completion activity: %w", err)
		}
		s.notifier.Notify(ctx, userID, NotifyPathCompletion, map[string]any{
			"learning_path_id": enrollment.LearningPathID.String(),
			"title":            pathTitle,
			"points":           pathPoints,
		})
	}
	return enrollment, nil
}
