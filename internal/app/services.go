package app

import (
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/services"
)

type Services struct {
	Notifier   services.Notifier
	Activity   services.ActivityService
	Points     services.PointsService
	Streak     services.StreakService
	Enrollment services.EnrollmentService
	Progress   services.ProgressService
	Quiz       services.QuizService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	var notifier services.Notifier
	if cfg.NotifierEnabled {
		redisNotifier, err := services.NewRedisNotifier(log)
		if err != nil {
			log.Warn("redis notifier unavailable, notifications disabled", "error", err)
			notifier = services.NewNoopNotifier()
		} else {
			notifier = redisNotifier
		}
	} else {
		notifier = services.NewNoopNotifier()
	}

	activity := services.NewActivityService(db, log, r.Activities)
	points := services.NewPointsService(db, log, r.Users, r.Transactions, activity, notifier)
	streak := services.NewStreakService(db, log, r.Users, r.StreakHistory, r.Progress, r.Attempts, activity, notifier)
	enrollment := services.NewEnrollmentService(db, log, r.Enrollments, r.LearningPaths, r.Modules, r.Progress, points, activity, notifier, cfg.PathCompletionPoints)
	progress := services.NewProgressService(db, log, r.Users, r.Enrollments, r.LearningPaths, r.Modules, r.Progress, r.Quizzes, r.Attempts, points, streak, activity, enrollment, notifier)
	quiz := services.NewQuizService(db, log, r.Quizzes, r.Attempts, r.Enrollments, r.Modules, r.Progress, points, streak, activity, enrollment, notifier)

	return Services{
		Notifier:   notifier,
		Activity:   activity,
		Points:     points,
		Streak:     streak,
		Enrollment: enrollment,
		Progress:   progress,
		Quiz:       quiz,
	}
}
