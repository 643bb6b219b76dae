package app

import (
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/repos"
)

type Repos struct {
	Users         repos.UserRepo
	LearningPaths repos.LearningPathRepo
	Modules       repos.ModuleRepo
	Quizzes       repos.QuizRepo
	Enrollments   repos.EnrollmentRepo
	Progress      repos.ModuleProgressRepo
	Attempts      repos.QuizAttemptRepo
	Transactions  repos.PointsTransactionRepo
	StreakHistory repos.StreakHistoryRepo
	Activities    repos.ActivityRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Users:         repos.NewUserRepo(db, log),
		LearningPaths: repos.NewLearningPathRepo(db, log),
		Modules:       repos.NewModuleRepo(db, log),
		Quizzes:       repos.NewQuizRepo(db, log),
		Enrollments:   repos.NewEnrollmentRepo(db, log),
		Progress:      repos.NewModuleProgressRepo(db, log),
		Attempts:      repos.NewQuizAttemptRepo(db, log),
		Transactions:  repos.NewPointsTransactionRepo(db, log),
		StreakHistory: repos.NewStreakHistoryRepo(db, log),
		Activities:    repos.NewActivityRepo(db, log),
	}
}
