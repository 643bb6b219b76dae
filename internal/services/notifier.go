package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/lumenlearn/lumen-backend/internal/platform/envutil"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
)

const (
	NotifyWelcome          = "WELCOME"
	NotifyAchievement      = "ACHIEVEMENT"
	NotifyLevelUp          = "LEVEL_UP"
	NotifyModuleCompletion = "MODULE_COMPLETION"
	NotifyPathCompletion   = "PATH_COMPLETION"
	NotifyStreakMilestone  = "STREAK_MILESTONE"
	NotifyStatusUpdate     = "STATUS_UPDATE"
)

// Notifier hands notification intents to the delivery transport.
// Dispatch is fire-and-forget: implementations log failures and never
// surface them, so a broken transport cannot roll back engine state.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any)
}

type notificationEnvelope struct {
	UserID  uuid.UUID      `json:"user_id"`
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload,omitempty"`
	SentAt  time.Time      `json:"sent_at"`
}

type redisNotifier struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewRedisNotifier(log *logger.Logger) (Notifier, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := envutil.Str("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := envutil.Str("REDIS_NOTIFY_CHANNEL", "notifications")

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisNotifier{
		log:     log.With("service", "RedisNotifier"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (n *redisNotifier) Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) {
	if n == nil || n.rdb == nil || userID == uuid.Nil {
		return
	}
	raw, err := json.Marshal(notificationEnvelope{
		UserID:  userID,
		Kind:    kind,
		Payload: payload,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		n.log.Warn("notification marshal failed", "kind", kind, "error", err)
		return
	}
	if err := n.rdb.Publish(ctx, n.channel, raw).Err(); err != nil {
		n.log.Warn("notification publish failed", "kind", kind, "error", err)
	}
}

type noopNotifier struct{}

// NewNoopNotifier backs redis-less deployments and tests.
func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) {
}
