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

type EnrollmentHandler struct {
	log        *logger.Logger
	enrollment services.EnrollmentService
	progress   services.ProgressService
}

func NewEnrollmentHandler(log *logger.Logger, enrollment services.EnrollmentService, progress services.ProgressService) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:        log.With("handler", "EnrollmentHandler"),
		enrollment: enrollment,
		progress:   progress,
	}
}

type enrollRequest struct {
	LearningPathID string `json:"learning_path_id" binding:"required"`
}

// POST /api/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	pathID, err := uuid.Parse(req.LearningPathID)
	if err != nil || pathID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_path_id", err)
		return
	}

	enrollment, err := h.enrollment.Enroll(c.Request.Context(), rd.UserID, pathID)
	if err != nil {
		h.log.Error("Enroll failed", "error", err, "path_id", pathID)
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": enrollment})
}

// DELETE /api/enrollments/:id
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil || enrollmentID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", err)
		return
	}

	enrollment, err := h.enrollment.Drop(c.Request.Context(), rd.UserID, enrollmentID)
	if err != nil {
		h.log.Error("Drop failed", "error", err, "enrollment_id", enrollmentID)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollment": enrollment})
}

// GET /api/enrollments/:id
func (h *EnrollmentHandler) GetSummary(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil || enrollmentID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", err)
		return
	}

	summary, err := h.progress.GetEnrollmentSummary(c.Request.Context(), rd.UserID, enrollmentID)
	if err != nil {
		h.log.Error("GetSummary failed", "error", err, "enrollment_id", enrollmentID)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, summary)
}
