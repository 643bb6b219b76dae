package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lumenlearn/lumen-backend/internal/db"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/repos"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

const testDefaultPathPoints = 500

// testEngine wires the full service stack against an in-memory sqlite
// database, mirroring the production wiring with a noop notifier.
type testEngine struct {
	db *gorm.DB

	users         repos.UserRepo
	paths         repos.LearningPathRepo
	modules       repos.ModuleRepo
	quizzes       repos.QuizRepo
	enrollments   repos.EnrollmentRepo
	progressRepo  repos.ModuleProgressRepo
	attempts      repos.QuizAttemptRepo
	transactions  repos.PointsTransactionRepo
	streakHistory repos.StreakHistoryRepo
	activities    repos.ActivityRepo

	activity   ActivityService
	points     PointsService
	streak     StreakService
	enrollment EnrollmentService
	progress   ProgressService
	quiz       QuizService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	log := logger.NewNop()
	notifier := NewNoopNotifier()

	e := &testEngine{
		db:            gdb,
		users:         repos.NewUserRepo(gdb, log),
		paths:         repos.NewLearningPathRepo(gdb, log),
		modules:       repos.NewModuleRepo(gdb, log),
		quizzes:       repos.NewQuizRepo(gdb, log),
		enrollments:   repos.NewEnrollmentRepo(gdb, log),
		progressRepo:  repos.NewModuleProgressRepo(gdb, log),
		attempts:      repos.NewQuizAttemptRepo(gdb, log),
		transactions:  repos.NewPointsTransactionRepo(gdb, log),
		streakHistory: repos.NewStreakHistoryRepo(gdb, log),
		activities:    repos.NewActivityRepo(gdb, log),
	}

	e.activity = NewActivityService(gdb, log, e.activities)
	e.points = NewPointsService(gdb, log, e.users, e.transactions, e.activity, notifier)
	e.streak = NewStreakService(gdb, log, e.users, e.streakHistory, e.progressRepo, e.attempts, e.activity, notifier)
	e.enrollment = NewEnrollmentService(gdb, log, e.enrollments, e.paths, e.modules, e.progressRepo, e.points, e.activity, notifier, testDefaultPathPoints)
	e.progress = NewProgressService(gdb, log, e.users, e.enrollments, e.paths, e.modules, e.progressRepo, e.quizzes, e.attempts, e.points, e.streak, e.activity, e.enrollment, notifier)
	e.quiz = NewQuizService(gdb, log, e.quizzes, e.attempts, e.enrollments, e.modules, e.progressRepo, e.points, e.streak, e.activity, e.enrollment, notifier)

	return e
}

// setClock pins the streak tracker's notion of "now".
func (e *testEngine) setClock(t *testing.T, at time.Time) {
	t.Helper()
	svc, ok := e.streak.(*streakService)
	if !ok {
		t.Fatalf("unexpected streak service type %T", e.streak)
	}
	svc.now = func() time.Time { return at }
}

func (e *testEngine) createUser(t *testing.T) *types.User {
	t.Helper()
	user := &types.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		FirstName:    "Test",
		LastName:     "Learner",
		CurrentLevel: 1,
	}
	if err := e.users.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEngine) createPath(t *testing.T, completionPoints int) *types.LearningPath {
	t.Helper()
	path := &types.LearningPath{
		ID:               uuid.New(),
		Title:            "Go Fundamentals",
		CompletionPoints: completionPoints,
		IsActive:         true,
	}
	if err := e.paths.Create(context.Background(), nil, path); err != nil {
		t.Fatalf("create path: %v", err)
	}
	return path
}

func (e *testEngine) createModule(t *testing.T, pathID uuid.UUID, position, points int) *types.Module {
	t.Helper()
	module := &types.Module{
		ID:               uuid.New(),
		LearningPathID:   pathID,
		Title:            fmt.Sprintf("Module %d", position),
		ContentType:      types.ContentText,
		Position:         position,
		CompletionPoints: points,
	}
	if err := e.modules.Create(context.Background(), nil, []*types.Module{module}); err != nil {
		t.Fatalf("create module: %v", err)
	}
	return module
}

func (e *testEngine) createQuiz(t *testing.T, moduleID uuid.UUID, passingScore float64, maxAttempts, pointsAvailable int, answerKey []string) *types.Quiz {
	t.Helper()
	quiz := &types.Quiz{
		ID:              uuid.New(),
		ModuleID:        moduleID,
		Title:           "Checkpoint Quiz",
		PassingScore:    passingScore,
		MaxAttempts:     maxAttempts,
		PointsAvailable: pointsAvailable,
	}
	if err := e.quizzes.Create(context.Background(), nil, quiz); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	questions := make([]*types.QuizQuestion, 0, len(answerKey))
	for i, answer := range answerKey {
		questions = append(questions, &types.QuizQuestion{
			ID:            uuid.New(),
			QuizID:        quiz.ID,
			Position:      i,
			Prompt:        fmt.Sprintf("Question %d", i+1),
			CorrectAnswer: answer,
		})
	}
	if err := e.quizzes.CreateQuestions(context.Background(), nil, questions); err != nil {
		t.Fatalf("create questions: %v", err)
	}
	return quiz
}

func (e *testEngine) enroll(t *testing.T, userID, pathID uuid.UUID) *types.Enrollment {
	t.Helper()
	enrollment, err := e.enrollment.Enroll(context.Background(), userID, pathID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	return enrollment
}

func (e *testEngine) completeModule(t *testing.T, enrollmentID, moduleID, userID uuid.UUID) *types.ModuleProgress {
	t.Helper()
	status := types.ModuleCompleted
	row, err := e.progress.UpdateModuleProgress(context.Background(), enrollmentID, moduleID, userID, ProgressPatch{Status: &status})
	if err != nil {
		t.Fatalf("complete module: %v", err)
	}
	return row
}
