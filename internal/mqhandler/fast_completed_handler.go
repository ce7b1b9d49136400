package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/mq"
	"habitz/internal/repository"
	"habitz/pkg/logger"
	"habitz/pkg/util"
)

type FastCompletedHandler struct {
	repo    *repository.NotificationRepository
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewFastCompletedHandler(repo *repository.NotificationRepository, deduper *util.Deduper, logger *zap.Logger) *FastCompletedHandler {
	return &FastCompletedHandler{
		repo:    repo,
		deduper: deduper,
		logger:  logger,
	}
}

// HandleFastCompleted writes an in-app notification for a fast that hit its goal.
func (h *FastCompletedHandler) HandleFastCompleted(ctx context.Context, raw json.RawMessage) error {
	log := logger.WithTrace(ctx, h.logger)

	var p mq.FastCompletedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error("Failed to unmarshal fast completed payload", zap.Error(err))
		return err
	}

	if !h.deduper.AcquireOnce(ctx, "fast_notification", strconv.Itoa(p.FastID)) {
		return nil
	}

	notif := &model.Notification{
		UserID:  p.UserID,
		Type:    "fast_completed",
		Content: fmt.Sprintf("Fast complete: %.1f hours. Goal reached!", p.Hours),
	}

	if err := h.repo.Insert(ctx, notif); err != nil {
		log.Error("Failed to insert fast notification",
			zap.Int("fast_id", p.FastID),
			zap.Int("user_id", p.UserID),
			zap.Error(err),
		)
		return err
	}

	log.Info("Fast notification created",
		zap.Int("fast_id", p.FastID),
		zap.Int("user_id", p.UserID),
	)
	return nil
}
