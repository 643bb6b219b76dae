package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlearn/lumen-backend/internal/types"
)

// Fixed calendar for streak tests: 2026-01-05 is a Monday.
var (
	streakMon  = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	streakTue  = streakMon.AddDate(0, 0, 1)
	streakWed  = streakMon.AddDate(0, 0, 2)
	streakFri  = streakMon.AddDate(0, 0, 4)
	streakSat  = streakMon.AddDate(0, 0, 5)
	streakMon2 = streakMon.AddDate(0, 0, 7)
)

// seedQualifyingDay inserts the raw rows the daily conditions count: one
// completed module and one submitted quiz attempt on the given day.
func (e *testEngine) seedQualifyingDay(t *testing.T, userID uuid.UUID, day time.Time) {
	t.Helper()
	e.seedCompletion(t, userID, day)
	e.seedAttempt(t, userID, day)
}

func (e *testEngine) seedCompletion(t *testing.T, userID uuid.UUID, day time.Time) {
	t.Helper()
	completedAt := day
	row := &types.ModuleProgress{
		ID:             uuid.New(),
		UserID:         userID,
		ModuleID:       uuid.New(),
		EnrollmentID:   uuid.New(),
		Status:         types.ModuleCompleted,
		Progress:       100,
		CompletedAt:    &completedAt,
		LastAccessedAt: day,
	}
	if err := e.progressRepo.Create(context.Background(), nil, row); err != nil {
		t.Fatalf("seed completion: %v", err)
	}
}

func (e *testEngine) seedAttempt(t *testing.T, userID uuid.UUID, day time.Time) {
	t.Helper()
	attempt := &types.QuizAttempt{
		ID:            uuid.New(),
		UserID:        userID,
		QuizID:        uuid.New(),
		EnrollmentID:  uuid.New(),
		AttemptNumber: 1,
		Percentage:    80,
		Passed:        true,
		CompletedAt:   day,
		CreatedAt:     day,
	}
	if err := e.attempts.Create(context.Background(), nil, attempt); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
}

func (e *testEngine) recordOn(t *testing.T, userID uuid.UUID, day time.Time) {
	t.Helper()
	e.setClock(t, day)
	if err := e.streak.RecordDailyActivity(context.Background(), nil, userID); err != nil {
		t.Fatalf("record daily activity: %v", err)
	}
}

func (e *testEngine) streakOf(t *testing.T, userID uuid.UUID) (int, int) {
	t.Helper()
	user, err := e.users.GetByID(context.Background(), nil, userID)
	if err != nil || user == nil {
		t.Fatalf("reload user: %v", err)
	}
	return user.CurrentStreak, user.LongestStreak
}

func TestStreakAdvancesOnQualifyingDay(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)

	e.seedQualifyingDay(t, user.ID, streakMon)
	e.recordOn(t, user.ID, streakMon)

	current, longest := e.streakOf(t, user.ID)
	if current != 1 || longest != 1 {
		t.Fatalf("streak = %d/%d, want 1/1", current, longest)
	}

	days, err := e.streak.Calendar(context.Background(), user.ID, streakMon, streakMon)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(days) != 1 || !days[0].Completed {
		t.Fatalf("expected one completed calendar day, got %+v", days)
	}
}

func TestStreakRequiresBothDailyConditions(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)

	// Module completed but no quiz attempt submitted.
	e.seedCompletion(t, user.ID, streakMon)
	e.recordOn(t, user.ID, streakMon)

	current, _ := e.streakOf(t, user.ID)
	if current != 0 {
		t.Fatalf("streak = %d, want 0", current)
	}

	days, err := e.streak.Calendar(context.Background(), user.ID, streakMon, streakMon)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(days) != 1 || days[0].Completed {
		t.Fatalf("expected an uncredited calendar day, got %+v", days)
	}
}

func TestStreakSameDayIdempotent(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)

	e.seedQualifyingDay(t, user.ID, streakMon)
	e.recordOn(t, user.ID, streakMon)
	e.recordOn(t, user.ID, streakMon)

	current, _ := e.streakOf(t, user.ID)
	if current != 1 {
		t.Fatalf("streak = %d, want 1", current)
	}

	days, err := e.streak.Calendar(context.Background(), user.ID, streakMon, streakMon)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(days) != 1 || days[0].ActivityCount != 2 {
		t.Fatalf("expected one day with two activities, got %+v", days)
	}
}

func TestStreakSurvivesWeekend(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)

	e.seedQualifyingDay(t, user.ID, streakFri)
	e.recordOn(t, user.ID, streakFri)
	e.seedQualifyingDay(t, user.ID, streakMon2)
	e.recordOn(t, user.ID, streakMon2)

	current, longest := e.streakOf(t, user.ID)
	if current != 2 || longest != 2 {
		t.Fatalf("streak = %d/%d, want 2/2", current, longest)
	}
}

func TestStreakBreaksOnMissedWorkingDay(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)

	e.seedQualifyingDay(t, user.ID, streakMon)
	e.recordOn(t, user.ID, streakMon)
	// Tuesday missed entirely.
	e.seedQualifyingDay(t, user.ID, streakWed)
	e.recordOn(t, user.ID, streakWed)

	current, longest := e.streakOf(t, user.ID)
	if current != 1 {
		t.Fatalf("streak = %d, want 1 after break", current)
	}
	if longest != 1 {
		t.Fatalf("longest = %d, want 1", longest)
	}
}

func TestWeekendActivityRecordedWithoutCredit(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)

	e.seedQualifyingDay(t, user.ID, streakFri)
	e.recordOn(t, user.ID, streakFri)

	// Saturday activity keeps the calendar honest but never credits.
	e.seedQualifyingDay(t, user.ID, streakSat)
	e.recordOn(t, user.ID, streakSat)

	current, _ := e.streakOf(t, user.ID)
	if current != 1 {
		t.Fatalf("streak = %d, want 1 after weekend activity", current)
	}

	days, err := e.streak.Calendar(context.Background(), user.ID, streakSat, streakSat)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(days) != 1 || days[0].Completed {
		t.Fatalf("expected uncredited saturday row, got %+v", days)
	}

	e.seedQualifyingDay(t, user.ID, streakMon2)
	e.recordOn(t, user.ID, streakMon2)
	current, _ = e.streakOf(t, user.ID)
	if current != 2 {
		t.Fatalf("streak = %d, want 2 after monday", current)
	}
}

func TestValidateStreakBreaksStaleStreak(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)

	e.seedQualifyingDay(t, user.ID, streakMon)
	e.recordOn(t, user.ID, streakMon)

	// Two working days later with nothing in between.
	e.setClock(t, streakWed.AddDate(0, 0, 1))
	if err := e.streak.ValidateStreak(context.Background(), nil, user.ID); err != nil {
		t.Fatalf("validate streak: %v", err)
	}

	current, longest := e.streakOf(t, user.ID)
	if current != 0 {
		t.Fatalf("streak = %d, want 0 after validation", current)
	}
	if longest != 1 {
		t.Fatalf("longest = %d, want 1 preserved", longest)
	}
}

func TestStreakConsecutiveWorkingDays(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t)

	e.seedQualifyingDay(t, user.ID, streakMon)
	e.recordOn(t, user.ID, streakMon)
	e.seedQualifyingDay(t, user.ID, streakTue)
	e.recordOn(t, user.ID, streakTue)

	current, longest := e.streakOf(t, user.ID)
	if current != 2 || longest != 2 {
		t.Fatalf("streak = %d/%d, want 2/2", current, longest)
	}
}
