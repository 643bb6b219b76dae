package app

import (
	"github.com/lumenlearn/lumen-backend/internal/http/handlers"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Enrollment   *handlers.EnrollmentHandler
	Progress     *handlers.ProgressHandler
	Quiz         *handlers.QuizHandler
	Gamification *handlers.GamificationHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	return Handlers{
		Health:       handlers.NewHealthHandler(),
		Enrollment:   handlers.NewEnrollmentHandler(log, s.Enrollment, s.Progress),
		Progress:     handlers.NewProgressHandler(log, s.Progress),
		Quiz:         handlers.NewQuizHandler(log, s.Quiz),
		Gamification: handlers.NewGamificationHandler(log, s.Points, s.Streak, s.Activity),
	}
}
