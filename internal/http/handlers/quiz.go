package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumenlearn/lumen-backend/internal/http/response"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/requestdata"
	"github.com/lumenlearn/lumen-backend/internal/services"
)

type QuizHandler struct {
	log  *logger.Logger
	quiz services.QuizService
}

func NewQuizHandler(log *logger.Logger, quiz services.QuizService) *QuizHandler {
	return &QuizHandler{
		log:  log.With("handler", "QuizHandler"),
		quiz: quiz,
	}
}

type submitAttemptRequest struct {
	EnrollmentID string   `json:"enrollment_id" binding:"required"`
	Answers      []string `json:"answers" binding:"required"`
}

// POST /api/quizzes/:id/attempts
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil || quizID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_quiz_id", err)
		return
	}

	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	enrollmentID, err := uuid.Parse(req.EnrollmentID)
	if err != nil || enrollmentID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", err)
		return
	}

	result, err := h.quiz.SubmitAttempt(c.Request.Context(), rd.UserID, quizID, enrollmentID, req.Answers)
	if err != nil {
		h.log.Error("SubmitAttempt failed", "error", err, "quiz_id", quizID, "enrollment_id", enrollmentID)
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, result)
}

// GET /api/quizzes/:id/attempts
func (h *QuizHandler) GetAttempts(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil || quizID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_quiz_id", err)
		return
	}

	attempts, err := h.quiz.GetAttempts(c.Request.Context(), rd.UserID, quizID)
	if err != nil {
		h.log.Error("GetAttempts failed", "error", err, "quiz_id", quizID)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": attempts})
}
