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

type WorkoutCompletedHandler struct {
	repo    *repository.NotificationRepository
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewWorkoutCompletedHandler(repo *repository.NotificationRepository, deduper *util.Deduper, logger *zap.Logger) *WorkoutCompletedHandler {
	return &WorkoutCompletedHandler{
		repo:    repo,
		deduper: deduper,
		logger:  logger,
	}
}

// HandleWorkoutCompleted writes an in-app notification for a finished workout.
func (h *WorkoutCompletedHandler) HandleWorkoutCompleted(ctx context.Context, raw json.RawMessage) error {
	log := logger.WithTrace(ctx, h.logger)

	var p mq.WorkoutCompletedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error("Failed to unmarshal workout completed payload", zap.Error(err))
		return err
	}

	if !h.deduper.AcquireOnce(ctx, "workout_notification", strconv.Itoa(p.WorkoutLogID)) {
		return nil
	}

	notif := &model.Notification{
		UserID:  p.UserID,
		Type:    "workout_completed",
		Content: fmt.Sprintf("Workout complete: %s. Nice work!", p.Name),
	}

	if err := h.repo.Insert(ctx, notif); err != nil {
		log.Error("Failed to insert workout notification",
			zap.Int("workout_log_id", p.WorkoutLogID),
			zap.Int("user_id", p.UserID),
			zap.Error(err),
		)
		return err
	}

	log.Info("Workout notification created",
		zap.Int("workout_log_id", p.WorkoutLogID),
		zap.Int("user_id", p.UserID),
	)
	return nil
}
