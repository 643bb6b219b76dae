package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/repos"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

type ActivityService interface {
	Log(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activityType types.ActivityType, description string, metadata map[string]any, pointsEarned int) error
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Activity, error)
}

type activityService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ActivityRepo
}

func NewActivityService(db *gorm.DB, baseLog *logger.Logger, repo repos.ActivityRepo) ActivityService {
	return &activityService{
		db:   db,
		log:  baseLog.With("service", "ActivityService"),
		repo: repo,
	}
}

func (s *activityService) Log(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activityType types.ActivityType, description string, metadata map[string]any, pointsEarned int) error {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}
	if userID == uuid.Nil {
		return nil
	}

	var meta datatypes.JSON
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			s.log.Warn("activity metadata marshal failed", "type", activityType, "error", err)
		} else {
			meta = datatypes.JSON(raw)
		}
	}

	return s.repo.Create(ctx, transaction, &types.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         activityType,
		Description:  description,
		Metadata:     meta,
		PointsEarned: pointsEarned,
		CreatedAt:    time.Now().UTC(),
	})
}

func (s *activityService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Activity, error) {
	return s.repo.GetRecentByUserID(ctx, nil, userID, limit)
}
