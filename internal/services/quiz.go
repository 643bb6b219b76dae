package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/apierr"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/repos"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

// AttemptResult is the graded outcome returned to the caller; the
// persisted attempt row it reflects is immutable.
type AttemptResult struct {
	Attempt       *types.QuizAttempt     `json:"attempt"`
	Passed        bool                   `json:"passed"`
	Score         float64                `json:"score"`
	Percentage    float64                `json:"percentage"`
	PointsAwarded int                    `json:"points_awarded"`
	FirstPass     bool                   `json:"first_pass"`
	Results       []types.QuestionResult `json:"results"`
}

type QuizService interface {
	SubmitAttempt(ctx context.Context, userID, quizID, enrollmentID uuid.UUID, answers []string) (*AttemptResult, error)
	GetAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error)
}

type quizService struct {
	db          *gorm.DB
	log         *logger.Logger
	quizzes     repos.QuizRepo
	attempts    repos.QuizAttemptRepo
	enrollments repos.EnrollmentRepo
	modules     repos.ModuleRepo
	progress    repos.ModuleProgressRepo
	points      PointsService
	streaks     StreakService
	activities  ActivityService
	enrollment  EnrollmentService
	notifier    Notifier
}

func NewQuizService(
	db *gorm.DB,
	baseLog *logger.Logger,
	quizzes repos.QuizRepo,
	attempts repos.QuizAttemptRepo,
	enrollments repos.EnrollmentRepo,
	modules repos.ModuleRepo,
	progress repos.ModuleProgressRepo,
	points PointsService,
	streaks StreakService,
	activities ActivityService,
	enrollment EnrollmentService,
	notifier Notifier,
) QuizService {
	return &quizService{
		db:          db,
		log:         baseLog.With("service", "QuizService"),
		quizzes:     quizzes,
		attempts:    attempts,
		enrollments: enrollments,
		modules:     modules,
		progress:    progress,
		points:      points,
		streaks:     streaks,
		activities:  activities,
		enrollment:  enrollment,
		notifier:    notifier,
	}
}

func (s *quizService) SubmitAttempt(ctx context.Context, userID, quizID, enrollmentID uuid.UUID, answers []string) (*AttemptResult, error) {
	var result *AttemptResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		quiz, err := s.quizzes.GetByID(ctx, tx, quizID)
		if err != nil {
			return fmt.Errorf("load quiz: %w", err)
		}
		if quiz == nil {
			return apierr.NotFound("quiz_not_found", "quiz %s not found", quizID)
		}

		enrollment, err := s.enrollments.GetByID(ctx, tx, enrollmentID)
		if err != nil {
			return fmt.Errorf("load enrollment: %w", err)
		}
		if enrollment == nil || enrollment.UserID != userID {
			return apierr.NotFound("enrollment_not_found", "enrollment %s not found", enrollmentID)
		}
		if enrollment.Status == types.EnrollmentDropped {
			return apierr.Validation("enrollment_dropped", "enrollment %s has been dropped", enrollmentID)
		}

		module, err := s.modules.GetByID(ctx, tx, quiz.ModuleID)
		if err != nil {
			return fmt.Errorf("load quiz module: %w", err)
		}
		if module == nil || module.LearningPathID != enrollment.LearningPathID {
			return apierr.BadRequest("quiz_not_in_path", "quiz %s does not belong to the enrollment's learning path", quizID)
		}

		previous, err := s.attempts.CountByUserAndQuiz(ctx, tx, userID, quizID)
		if err != nil {
			return fmt.Errorf("count attempts: %w", err)
		}
		if quiz.MaxAttempts > 0 && previous >= int64(quiz.MaxAttempts) {
			return apierr.Validation("max_attempts_reached", "maximum of %d attempts reached for quiz %q", quiz.MaxAttempts, quiz.Title)
		}

		questions, err := s.quizzes.GetQuestionsByQuizID(ctx, tx, quizID)
		if err != nil {
			return fmt.Errorf("load quiz questions: %w", err)
		}
		if len(questions) == 0 {
			return apierr.BadRequest("quiz_has_no_questions", "quiz %q has no questions to grade", quiz.Title)
		}
		if len(answers) != len(questions) {
			return apierr.Validation("answer_count_mismatch", "expected %d answers, got %d", len(questions), len(answers))
		}

		correct := 0
		results := make([]types.QuestionResult, 0, len(questions))
		for i, q := range questions {
			ok := answers[i] == q.CorrectAnswer
			if ok {
				correct++
			}
			results = append(results, types.QuestionResult{
				QuestionIndex: i,
				QuestionID:    q.ID.String(),
				UserAnswer:    answers[i],
				CorrectAnswer: q.CorrectAnswer,
				Correct:       ok,
			})
		}

		percentage := round2(float64(correct) / float64(len(questions)) * 100)
		score := round2(percentage / 100 * float64(quiz.PointsAvailable))
		passed := percentage >= quiz.PassingScore

		rawAnswers, err := json.Marshal(answers)
		if err != nil {
			return fmt.Errorf("marshal answers: %w", err)
		}
		rawResults, err := json.Marshal(results)
		if err != nil {
			return fmt.Errorf("marshal detailed results: %w", err)
		}

		now := time.Now().UTC()
		attempt := &types.QuizAttempt{
			ID:              uuid.New(),
			UserID:          userID,
			QuizID:          quizID,
			EnrollmentID:    enrollment.ID,
			AttemptNumber:   int(previous) + 1,
			Score:           score,
			Percentage:      percentage,
			Passed:          passed,
			Answers:         datatypes.JSON(rawAnswers),
			DetailedResults: datatypes.JSON(rawResults),
			CompletedAt:     now,
			CreatedAt:       now,
		}
		if err := s.attempts.Create(ctx, tx, attempt); err != nil {
			return fmt.Errorf("create quiz attempt: %w", err)
		}

		firstPass := false
		pointsAwarded := 0
		if passed {
			passedBefore, err := s.attempts.HasPassedBefore(ctx, tx, userID, quizID, attempt.ID)
			if err != nil {
				return fmt.Errorf("check prior passes: %w", err)
			}
			firstPass = !passedBefore
		}
		if firstPass {
			pointsAwarded = int(math.Round(score))
		}

		if err := s.applyToModuleProgress(ctx, tx, enrollment, quiz, attempt, firstPass, pointsAwarded, now); err != nil {
			return err
		}

		if firstPass {
			if pointsAwarded > 0 {
				if err := s.points.Award(ctx, tx, userID, pointsAwarded,
					types.SourceQuizCompletion, quiz.ID,
					fmt.Sprintf("Passed quiz %q with %.0f%%", quiz.Title, percentage),
				); err != nil {
					return fmt.Errorf("award quiz points: %w", err)
				}
			}
			if err := s.activities.Log(ctx, tx, userID, types.ActivityQuizPassed,
				fmt.Sprintf("Passed %q", quiz.Title),
				map[string]any{
					"quiz_id":        quiz.ID.String(),
					"attempt_number": attempt.AttemptNumber,
					"percentage":     percentage,
				},
				pointsAwarded,
			); err != nil {
				return fmt.Errorf("log quiz pass activity: %w", err)
			}
			s.notifier.Notify(ctx, userID, NotifyAchievement, map[string]any{
				"quiz_id":    quiz.ID.String(),
				"title":      quiz.Title,
				"percentage": percentage,
				"points":     pointsAwarded,
			})
		} else if passed {
			// Passed again after an earlier pass: worth logging, worth nothing.
			if err := s.activities.Log(ctx, tx, userID, types.ActivityQuizPassed,
				fmt.Sprintf("Passed %q again", quiz.Title),
				map[string]any{
					"quiz_id":        quiz.ID.String(),
					"attempt_number": attempt.AttemptNumber,
					"percentage":     percentage,
					"is_revision":    true,
				},
				0,
			); err != nil {
				return fmt.Errorf("log quiz revision activity: %w", err)
			}
		}

		if _, err := s.enrollment.Recompute(ctx, tx, enrollment.ID, userID); err != nil {
			return err
		}
		// Every submission counts toward the day's quiz condition,
		// pass or fail.
		if err := s.streaks.RecordDailyActivity(ctx, tx, userID); err != nil {
			return fmt.Errorf("record streak activity: %w", err)
		}

		result = &AttemptResult{
			Attempt:       attempt,
			Passed:        passed,
			Score:         score,
			Percentage:    percentage,
			PointsAwarded: pointsAwarded,
			FirstPass:     firstPass,
			Results:       results,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyToModuleProgress folds the attempt into the module progress row:
// attempts counter, the pinned initial quiz score, and on a first pass
// the completed state.
func (s *quizService) applyToModuleProgress(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment, quiz *types.Quiz, attempt *types.QuizAttempt, firstPass bool, pointsAwarded int, now time.Time) error {
	row, err := s.progress.GetByUserModuleEnrollment(ctx, tx, attempt.UserID, quiz.ModuleID, enrollment.ID)
	if err != nil {
		return fmt.Errorf("load module progress: %w", err)
	}
	created := false
	if row == nil {
		created = true
		row = &types.ModuleProgress{
			ID:           uuid.New(),
			UserID:       attempt.UserID,
			ModuleID:     quiz.ModuleID,
			EnrollmentID: enrollment.ID,
			Status:       types.ModuleNotStarted,
		}
	}

	row.Attempts++
	if attempt.AttemptNumber == 1 && row.QuizScore == nil {
		qs := attempt.Score
		row.QuizScore = &qs
	}
	if row.StartedAt == nil {
		row.StartedAt = &now
	}
	if row.Status == types.ModuleNotStarted {
		row.Status = types.ModuleInProgress
	}

	if firstPass && row.Status != types.ModuleCompleted {
		row.Status = types.ModuleCompleted
		row.Progress = 100
		if row.CompletedAt == nil {
			row.CompletedAt = &now
		}
		if row.PointsEarned == nil {
			pts := pointsAwarded
			row.PointsEarned = &pts
		}
	}
	row.LastAccessedAt = now

	if created {
		if err := s.progress.Create(ctx, tx, row); err != nil {
			return fmt.Errorf("create module progress: %w", err)
		}
		return nil
	}
	if err := s.progress.Save(ctx, tx, row); err != nil {
		return fmt.Errorf("save module progress: %w", err)
	}
	return nil
}

func (s *quizService) GetAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error) {
	return s.attempts.GetByUserAndQuiz(ctx, nil, userID, quizID)
}
