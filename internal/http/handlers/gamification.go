package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumenlearn/lumen-backend/internal/http/response"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/requestdata"
	"github.com/lumenlearn/lumen-backend/internal/services"
)

// GamificationHandler exposes the points ledger, level progress, streak
// calendar, and the recent activity feed.
type GamificationHandler struct {
	log        *logger.Logger
	points     services.PointsService
	streaks    services.StreakService
	activities services.ActivityService
}

func NewGamificationHandler(
	log *logger.Logger,
	points services.PointsService,
	streaks services.StreakService,
	activities services.ActivityService,
) *GamificationHandler {
	return &GamificationHandler{
		log:        log.With("handler", "GamificationHandler"),
		points:     points,
		streaks:    streaks,
		activities: activities,
	}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// GET /api/me/level
func (h *GamificationHandler) GetLevelProgress(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	lp, err := h.points.GetLevelProgress(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("GetLevelProgress failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, lp)
}

// GET /api/me/points
func (h *GamificationHandler) GetTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	transactions, err := h.points.Transactions(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("GetTransactions failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transactions": transactions})
}

// GET /api/me/streak/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *GamificationHandler) GetStreakCalendar(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_from_date", err)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_to_date", err)
			return
		}
		to = parsed
	}

	days, err := h.streaks.Calendar(c.Request.Context(), userID, from, to)
	if err != nil {
		h.log.Error("GetStreakCalendar failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"days": days})
}

// GET /api/me/activity?limit=N
func (h *GamificationHandler) GetRecentActivity(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}

	activities, err := h.activities.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		h.log.Error("GetRecentActivity failed", "error", err)
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": activities})
}
