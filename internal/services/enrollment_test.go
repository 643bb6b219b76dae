package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lumenlearn/lumen-backend/internal/platform/apierr"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

func TestEnrollCreatesEnrollment(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)

	enrollment := e.enroll(t, user.ID, path.ID)
	if enrollment.Status != types.EnrollmentEnrolled {
		t.Fatalf("status = %s, want ENROLLED", enrollment.Status)
	}
	if enrollment.Progress != 0 {
		t.Fatalf("progress = %v, want 0", enrollment.Progress)
	}

	activities, err := e.activity.Recent(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("activities: %v", err)
	}
	if len(activities) != 1 || activities[0].Type != types.ActivityEnrolled {
		t.Fatalf("expected one ENROLLED activity, got %+v", activities)
	}
}

func TestEnrollUnknownPath(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)

	_, err := e.enrollment.Enroll(context.Background(), user.ID, uuid.New())
	if err == nil {
		t.Fatal("expected path not found")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "path_not_found" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnrollTwiceRejected(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)
	path := e.createPath(t, 0)
	e.enroll(t, user.ID, path.ID)

	_, err := e.enrollment.Enroll(context.Background(), user.ID, path.ID)
	if err == nil {
		t.Fatal("expected duplicate enrollment rejection")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "already_enrolled" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropAndReEnrollResetsAggregates(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	module := e.createModule(t, path.ID, 0, 0)
	e.createModule(t, path.ID, 1, 0)
	enrollment := e.enroll(t, user.ID, path.ID)

	e.completeModule(t, enrollment.ID, module.ID, user.ID)

	dropped, err := e.enrollment.Drop(ctx, user.ID, enrollment.ID)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if dropped.Status != types.EnrollmentDropped {
		t.Fatalf("status = %s, want DROPPED", dropped.Status)
	}

	again, err := e.enrollment.Enroll(ctx, user.ID, path.ID)
	if err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
	if again.ID != enrollment.ID {
		t.Fatal("re-enrollment must reuse the existing row")
	}
	if again.Status != types.EnrollmentEnrolled || again.Progress != 0 {
		t.Fatalf("re-enrollment = %s/%v, want ENROLLED/0", again.Status, again.Progress)
	}
	if again.CompletedAt != nil || again.FinalScore != nil {
		t.Fatal("re-enrollment must clear completion fields")
	}

	// Module progress survives the drop/re-enroll cycle.
	row, err := e.progressRepo.GetByUserModuleEnrollment(ctx, nil, user.ID, module.ID, enrollment.ID)
	if err != nil || row == nil {
		t.Fatalf("load progress: %v", err)
	}
	if row.Status != types.ModuleCompleted {
		t.Fatalf("module status = %s, want COMPLETED preserved", row.Status)
	}
}

func TestDroppedEnrollmentRejectsProgressWrites(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	module := e.createModule(t, path.ID, 0, 0)
	quiz := e.createQuiz(t, module.ID, 70, 0, 100, []string{"a"})
	enrollment := e.enroll(t, user.ID, path.ID)

	if _, err := e.enrollment.Drop(ctx, user.ID, enrollment.ID); err != nil {
		t.Fatalf("drop: %v", err)
	}

	status := types.ModuleInProgress
	_, err := e.progress.UpdateModuleProgress(ctx, enrollment.ID, module.ID, user.ID, ProgressPatch{Status: &status})
	if err == nil {
		t.Fatal("expected progress write on dropped enrollment to be rejected")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "enrollment_dropped" {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = e.quiz.SubmitAttempt(ctx, user.ID, quiz.ID, enrollment.ID, []string{"a"})
	if err == nil {
		t.Fatal("expected quiz attempt on dropped enrollment to be rejected")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "enrollment_dropped" {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := e.enrollments.GetByID(ctx, nil, enrollment.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	if reloaded.Status != types.EnrollmentDropped {
		t.Fatalf("status = %s, want DROPPED untouched", reloaded.Status)
	}
}

func TestDropCompletedEnrollmentRejected(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := e.createUser(t)
	path := e.createPath(t, 0)
	module := e.createModule(t, path.ID, 0, 0)
	enrollment := e.enroll(t, user.ID, path.ID)

	e.completeModule(t, enrollment.ID, module.ID, user.ID)

	_, err := e.enrollment.Drop(ctx, user.ID, enrollment.ID)
	if err == nil {
		t.Fatal("expected completed enrollment to refuse dropping")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "enrollment_completed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropForeignEnrollmentRejected(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)
	other := e.createUser(t)
	path := e.createPath(t, 0)
	enrollment := e.enroll(t, user.ID, path.ID)

	_, err := e.enrollment.Drop(context.Background(), other.ID, enrollment.ID)
	if err == nil {
		t.Fatal("expected ownership rejection")
	}
	if apiErr, ok := apierr.From(err); !ok || apiErr.Code != "enrollment_not_found" {
		t.Fatalf("unexpected error: %v", err)
	}
}
