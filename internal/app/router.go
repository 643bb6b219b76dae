package app

import (
	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/lumen-backend/internal/http/middleware"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/healthcheck", h.Health.HealthCheck)

	auth := middleware.NewAuthMiddleware(log, cfg.JWTSecretKey)

	api := r.Group("/api")
	api.Use(auth.RequireAuth())
	{
		// Enrollments
		api.POST("/enrollments", h.Enrollment.Enroll)
		api.GET("/enrollments/:id", h.Enrollment.GetSummary)
		api.DELETE("/enrollments/:id", h.Enrollment.Drop)

		// Module progress
		api.GET("/enrollments/:id/modules/:moduleId/progress", h.Progress.GetModuleProgress)
		api.PUT("/enrollments/:id/modules/:moduleId/progress", h.Progress.UpdateModuleProgress)
		api.POST("/enrollments/:id/modules/:moduleId/content-progress", h.Progress.TrackContentProgress)
		api.POST("/enrollments/:id/modules/:moduleId/bookmark", h.Progress.ToggleBookmark)

		// Quizzes
		api.POST("/quizzes/:id/attempts", h.Quiz.SubmitAttempt)
		api.GET("/quizzes/:id/attempts", h.Quiz.GetAttempts)

		// Me
		api.GET("/me/overview", h.Progress.GetUserOverview)
		api.GET("/me/level", h.Gamification.GetLevelProgress)
		api.GET("/me/points", h.Gamification.GetTransactions)
		api.GET("/me/streak/calendar", h.Gamification.GetStreakCalendar)
		api.GET("/me/activity", h.Gamification.GetRecentActivity)
	}

	return r
}
