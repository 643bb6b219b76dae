package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumenlearn/lumen-backend/internal/http/response"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/requestdata"
	"github.com/lumenlearn/lumen-backend/internal/services"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		progress: progress,
	}
}

type updateProgressRequest struct {
	Status         *string  `json:"status"`
	Progress       *float64 `json:"progress"`
	TimeSpentDelta int      `json:"time_spent_delta"`
	Bookmarked     *bool    `json:"bookmarked"`
}

type trackContentRequest struct {
	Progress  float64 `json:"progress"`
	Duration  int     `json:"duration"`
	Completed bool    `json:"completed"`
}

func (h *ProgressHandler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil || enrollmentID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", err)
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	moduleID, err := uuid.Parse(c.Param("moduleId"))
	if err != nil || moduleID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_module_id", err)
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	return rd.UserID, enrollmentID, moduleID, true
}

// PUT /api/enrollments/:id/modules/:moduleId/progress
func (h *ProgressHandler) UpdateModuleProgress(c *gin.Context) {
	userID, enrollmentID, moduleID, ok := h.scope(c)
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	patch := services.ProgressPatch{
		Progress:       req.Progress,
		TimeSpentDelta: req.TimeSpentDelta,
		Bookmarked:     req.Bookmarked,
	}
	if req.Status != nil {
		status := types.ModuleProgressStatus(*req.Status)
		patch.Status = &status
	}

	row, err := h.progress.UpdateModuleProgress(c.Request.Context(), enrollmentID, moduleID, userID, patch)
	if err != nil {
		h.log.Error("UpdateModuleProgress failed", "error", err, "enrollment_id", enrollmentID, "module_id", moduleID)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

// POST /api/enrollments/:id/modules/:moduleId/content-progress
func (h *ProgressHandler) TrackContentProgress(c *gin.Context) {
	userID, enrollmentID, moduleID, ok := h.scope(c)
	if !ok {
		return
	}

	var req trackContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	row, err := h.progress.TrackContentProgress(c.Request.Context(), enrollmentID, moduleID, userID, services.ContentProgressInput{
		Progress:  req.Progress,
		Duration:  req.Duration,
		Completed: req.Completed,
	})
	if err != nil {
		h.log.Error("TrackContentProgress failed", "error", err, "enrollment_id", enrollmentID, "module_id", moduleID)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

// GET /api/enrollments/:id/modules/:moduleId/progress
func (h *ProgressHandler) GetModuleProgress(c *gin.Context) {
	userID, enrollmentID, moduleID, ok := h.scope(c)
	if !ok {
		return
	}

	row, err := h.progress.GetModuleProgress(c.Request.Context(), userID, enrollmentID, moduleID)
	if err != nil {
		h.log.Error("GetModuleProgress failed", "error", err, "enrollment_id", enrollmentID, "module_id", moduleID)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

// POST /api/enrollments/:id/modules/:moduleId/bookmark
func (h *ProgressHandler) ToggleBookmark(c *gin.Context) {
	userID, enrollmentID, moduleID, ok := h.scope(c)
	if !ok {
		return
	}

	row, err := h.progress.ToggleBookmark(c.Request.Context(), userID, enrollmentID, moduleID)
	if err != nil {
		h.log.Error("ToggleBookmark failed", "error", err, "enrollment_id", enrollmentID, "module_id", moduleID)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

// GET /api/me/overview
func (h *ProgressHandler) GetUserOverview(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	overview, err := h.progress.GetUserOverview(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("GetUserOverview failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, overview)
}
