package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lumenlearn/lumen-backend/internal/platform/apierr"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

func TestCompleteModuleAwardsPointsOnce(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	moduleA := e.createModule(t, path.ID, 0, 100)
	e.createModule(t, path.ID, 1, 100)
	enrollment := e.enroll(t, user.ID, path.ID)

	row := e.completeModule(t, enrollment.ID, moduleA.ID, user.ID)
	if row.Status != types.ModuleCompleted || row.Progress != 100 {
		t.Fatalf("status/progress = %s/%v, want COMPLETED/100", row.Status, row.Progress)
	}
	if row.PointsEarned == nil || *row.PointsEarned != 100 {
		t.Fatalf("points earned = %v, want 100", row.PointsEarned)
	}
	if row.CompletedAt == nil || row.StartedAt == nil {
		t.Fatal("expected started/completed timestamps")
	}

	// Completing again is a revision: no second award.
	again := e.completeModule(t, enrollment.ID, moduleA.ID, user.ID)
	if again.CompletedAt == nil || again.Status != types.ModuleCompleted {
		t.Fatal("revision must keep the module completed")
	}

	reloaded, err := e.users.GetByID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.TotalPoints != 100 {
		t.Fatalf("total points = %d, want 100 after revision", reloaded.TotalPoints)
	}

	transactions, err := e.points.Transactions(ctx, user.ID)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(transactions))
	}
}

func TestCompletionGateBlocksUnpassedQuiz(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)
	path := e.createPath(t, 0)
	module := e.createModule(t, path.ID, 0, 100)
	e.createQuiz(t, module.ID, 70, 0, 100, []string{"a"})
	enrollment := e.enroll(t, user.ID, path.ID)

	status := types.ModuleCompleted
	_, err := e.progress.UpdateModuleProgress(context.Background(), enrollment.ID, module.ID, user.ID, ProgressPatch{Status: &status})
	if err == nil {
		t.Fatal("expected completion to be gated on the quiz")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "quiz_not_passed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompletionAllowedAfterQuizPassed(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	module := e.createModule(t, path.ID, 0, 100)
	e.createModule(t, path.ID, 1, 0)
	quiz := e.createQuiz(t, module.ID, 50, 0, 0, []string{"a"})
	enrollment := e.enroll(t, user.ID, path.ID)

	if _, err := e.quiz.SubmitAttempt(ctx, user.ID, quiz.ID, enrollment.ID, []string{"a"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// The pass already completed the module; a manual complete is a
	// revision, not an error.
	row := e.completeModule(t, enrollment.ID, module.ID, user.ID)
	if row.Status != types.ModuleCompleted {
		t.Fatalf("status = %s, want COMPLETED", row.Status)
	}
}

func TestEnrollmentAggregateProgress(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	modules := []*types.Module{
		e.createModule(t, path.ID, 0, 0),
		e.createModule(t, path.ID, 1, 0),
		e.createModule(t, path.ID, 2, 0),
		e.createModule(t, path.ID, 3, 0),
	}
	enrollment := e.enroll(t, user.ID, path.ID)

	e.completeModule(t, enrollment.ID, modules[0].ID, user.ID)
	e.completeModule(t, enrollment.ID, modules[1].ID, user.ID)

	half := 50.0
	inProgress := types.ModuleInProgress
	if _, err := e.progress.UpdateModuleProgress(ctx, enrollment.ID, modules[2].ID, user.ID, ProgressPatch{
		Status:   &inProgress,
		Progress: &half,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	reloaded, err := e.enrollments.GetByID(ctx, nil, enrollment.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	if reloaded.Progress != 62.5 {
		t.Fatalf("aggregate progress = %v, want 62.5", reloaded.Progress)
	}
	if reloaded.Status != types.EnrollmentInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", reloaded.Status)
	}
}

func TestPathCompletionAwardsDefaultPointsOnce(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	moduleA := e.createModule(t, path.ID, 0, 100)
	moduleB := e.createModule(t, path.ID, 1, 100)
	enrollment := e.enroll(t, user.ID, path.ID)

	e.completeModule(t, enrollment.ID, moduleA.ID, user.ID)
	e.completeModule(t, enrollment.ID, moduleB.ID, user.ID)

	reloaded, err := e.enrollments.GetByID(ctx, nil, enrollment.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	if reloaded.Status != types.EnrollmentCompleted {
		t.Fatalf("status = %s, want COMPLETED", reloaded.Status)
	}
	if reloaded.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	if reloaded.FinalScore == nil || *reloaded.FinalScore != 100 {
		t.Fatalf("final score = %v, want 100", reloaded.FinalScore)
	}

	user2, err := e.users.GetByID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user2.TotalPoints != 700 {
		t.Fatalf("total points = %d, want 100+100+500", user2.TotalPoints)
	}

	// A revision on a completed path must not re-award.
	e.completeModule(t, enrollment.ID, moduleB.ID, user.ID)
	user3, err := e.users.GetByID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user3.TotalPoints != 700 {
		t.Fatalf("total points = %d after revision, want 700", user3.TotalPoints)
	}
}

func TestPathCompletionUsesPathPointsWhenSet(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 1000)
	module := e.createModule(t, path.ID, 0, 0)
	enrollment := e.enroll(t, user.ID, path.ID)

	e.completeModule(t, enrollment.ID, module.ID, user.ID)

	user2, err := e.users.GetByID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user2.TotalPoints != 1000 {
		t.Fatalf("total points = %d, want 1000 from path override", user2.TotalPoints)
	}
}

func TestTrackContentProgress(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	module := e.createModule(t, path.ID, 0, 0)
	e.createModule(t, path.ID, 1, 0)
	enrollment := e.enroll(t, user.ID, path.ID)

	row, err := e.progress.TrackContentProgress(ctx, enrollment.ID, module.ID, user.ID, ContentProgressInput{
		Progress: 40,
		Duration: 120,
	})
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if row.Status != types.ModuleInProgress || row.Progress != 40 || row.TimeSpent != 120 {
		t.Fatalf("row = %s/%v/%d, want IN_PROGRESS/40/120", row.Status, row.Progress, row.TimeSpent)
	}
	if row.StartedAt == nil {
		t.Fatal("expected started_at on first progress")
	}

	row, err = e.progress.TrackContentProgress(ctx, enrollment.ID, module.ID, user.ID, ContentProgressInput{
		Progress:  100,
		Duration:  60,
		Completed: true,
	})
	if err != nil {
		t.Fatalf("track completion: %v", err)
	}
	if row.Status != types.ModuleCompleted || row.TimeSpent != 180 {
		t.Fatalf("row = %s/%d, want COMPLETED/180", row.Status, row.TimeSpent)
	}
}

func TestToggleBookmark(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	module := e.createModule(t, path.ID, 0, 0)
	enrollment := e.enroll(t, user.ID, path.ID)

	row, err := e.progress.ToggleBookmark(ctx, user.ID, enrollment.ID, module.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !row.Bookmarked {
		t.Fatal("expected bookmark on")
	}

	row, err = e.progress.ToggleBookmark(ctx, user.ID, enrollment.ID, module.ID)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if row.Bookmarked {
		t.Fatal("expected bookmark off")
	}
}

func TestGetModuleProgressSynthesizesDefault(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	module := e.createModule(t, path.ID, 0, 0)
	enrollment := e.enroll(t, user.ID, path.ID)

	row, err := e.progress.GetModuleProgress(ctx, user.ID, enrollment.ID, module.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Status != types.ModuleNotStarted || row.Progress != 0 {
		t.Fatalf("row = %s/%v, want NOT_STARTED/0", row.Status, row.Progress)
	}

	// Reads must not persist the synthesized row.
	stored, err := e.progressRepo.GetByUserModuleEnrollment(ctx, nil, user.ID, module.ID, enrollment.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored != nil {
		t.Fatal("read created a progress row")
	}
}

func TestUpdateModuleProgressRejectsOutOfRange(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)
	path := e.createPath(t, 0)
	module := e.createModule(t, path.ID, 0, 0)
	enrollment := e.enroll(t, user.ID, path.ID)

	bad := 130.0
	_, err := e.progress.UpdateModuleProgress(context.Background(), enrollment.ID, module.ID, user.ID, ProgressPatch{Progress: &bad})
	if err == nil {
		t.Fatal("expected validation error for progress > 100")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "invalid_progress" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateModuleProgressModuleOutsidePath(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)
	pathA := e.createPath(t, 0)
	pathB := e.createPath(t, 0)
	e.createModule(t, pathA.ID, 0, 0)
	foreign := e.createModule(t, pathB.ID, 0, 0)
	enrollment := e.enroll(t, user.ID, pathA.ID)

	status := types.ModuleInProgress
	_, err := e.progress.UpdateModuleProgress(context.Background(), enrollment.ID, foreign.ID, user.ID, ProgressPatch{Status: &status})
	if err == nil {
		t.Fatal("expected rejection of module outside the path")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "module_not_in_path" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserOverviewUnknownUser(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.progress.GetUserOverview(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "user_not_found" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserOverviewEndToEnd(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	modules := []*types.Module{
		e.createModule(t, path.ID, 0, 100),
		e.createModule(t, path.ID, 1, 100),
		e.createModule(t, path.ID, 2, 100),
	}
	enrollment := e.enroll(t, user.ID, path.ID)

	for _, m := range modules {
		e.completeModule(t, enrollment.ID, m.ID, user.ID)
	}

	overview, err := e.progress.GetUserOverview(ctx, user.ID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.User.TotalPoints != 800 {
		t.Fatalf("total points = %d, want 3x100 + 500", overview.User.TotalPoints)
	}
	if overview.Level.Level != 1 {
		t.Fatalf("level = %d, want 1 at 800 points", overview.Level.Level)
	}
	if len(overview.Enrollments) != 1 || overview.Enrollments[0].Status != types.EnrollmentCompleted {
		t.Fatalf("enrollments = %+v, want one COMPLETED", overview.Enrollments)
	}

	summary, err := e.progress.GetEnrollmentSummary(ctx, user.ID, enrollment.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.Modules) != 3 {
		t.Fatalf("summary modules = %d, want 3", len(summary.Modules))
	}
	for _, entry := range summary.Modules {
		if entry.Progress == nil || entry.Progress.Status != types.ModuleCompleted {
			t.Fatalf("expected every module completed, got %+v", entry.Progress)
		}
	}
}
