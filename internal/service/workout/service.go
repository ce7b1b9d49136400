package workout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/mq"
)

var (
	ErrWorkoutNotFound  = errors.New("workout log not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrAlreadyCompleted = errors.New("workout already completed")
)

type WorkoutStore interface {
	InsertExercise(ctx context.Context, e *model.Exercise) error
	FindExerciseByID(ctx context.Context, id int) (*model.Exercise, error)
	ListExercises(ctx context.Context, userID int) ([]model.Exercise, error)
	UpdateExercise(ctx context.Context, e *model.Exercise) error
	InsertLog(ctx context.Context, w *model.WorkoutLog) error
	FindLogByID(ctx context.Context, id int) (*model.WorkoutLog, error)
	ListLogs(ctx context.Context, userID int, limit int) ([]model.WorkoutLog, error)
	Complete(ctx context.Context, id int) (time.Time, error)
	InsertSet(ctx context.Context, s *model.SetLog) error
	ListSetsForLog(ctx context.Context, workoutLogID int) ([]model.SetLog, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Service struct {
	workouts  WorkoutStore
	publisher EventPublisher
	logger    *zap.Logger
}

func NewService(workouts WorkoutStore, publisher EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		workouts:  workouts,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateExercise adds a user-owned exercise definition.
func (s *Service) CreateExercise(ctx context.Context, user *model.User, e *model.Exercise) error {
	e.UserID = user.ID
	return s.workouts.InsertExercise(ctx, e)
}

// ListExercises returns the user's exercises.
func (s *Service) ListExercises(ctx context.Context, user *model.User) ([]model.Exercise, error) {
	return s.workouts.ListExercises(ctx, user.ID)
}

// UpdateExercise renames an exercise the caller owns. Logged sets keep the
// name they were logged under.
func (s *Service) UpdateExercise(ctx context.Context, user *model.User, e *model.Exercise) error {
	existing, err := s.workouts.FindExerciseByID(ctx, e.ID)
	if err != nil || existing.UserID != user.ID {
		return ErrExerciseNotFound
	}
	e.UserID = user.ID
	return s.workouts.UpdateExercise(ctx, e)
}

// Start opens a workout session.
func (s *Service) Start(ctx context.Context, user *model.User, name, notes string) (*model.WorkoutLog, error) {
	log := &model.WorkoutLog{
		UserID: user.ID,
		Name:   name,
		Notes:  notes,
	}
	if err := s.workouts.InsertLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// LogSet records one performed set, copying the exercise's current name onto
// the row. Reps and weight are facts about what the user just did; the name
// copy keeps history readable even after the exercise is renamed.
func (s *Service) LogSet(ctx context.Context, user *model.User, workoutLogID, exerciseID, reps int, weightKg float64) (*model.SetLog, error) {
	log, err := s.workouts.FindLogByID(ctx, workoutLogID)
	if err != nil || log.UserID != user.ID {
		return nil, ErrWorkoutNotFound
	}
	if log.CompletedAt != nil {
		return nil, ErrAlreadyCompleted
	}

	exercise, err := s.workouts.FindExerciseByID(ctx, exerciseID)
	if err != nil || exercise.UserID != user.ID {
		return nil, ErrExerciseNotFound
	}

	existing, err := s.workouts.ListSetsForLog(ctx, workoutLogID)
	if err != nil {
		return nil, err
	}

	set := &model.SetLog{
		WorkoutLogID: workoutLogID,
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		SetNumber:    len(existing) + 1,
		Reps:         reps,
		WeightKg:     weightKg,
	}
	if err := s.workouts.InsertSet(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// Complete stamps the session finished and emits workout.completed. The
// timestamp comes back from the database so the habit predicate and the
// event agree on when it happened.
func (s *Service) Complete(ctx context.Context, user *model.User, workoutLogID int) (*model.WorkoutLog, error) {
	log, err := s.workouts.FindLogByID(ctx, workoutLogID)
	if err != nil || log.UserID != user.ID {
		return nil, ErrWorkoutNotFound
	}
	if log.CompletedAt != nil {
		return nil, ErrAlreadyCompleted
	}

	completedAt, err := s.workouts.Complete(ctx, workoutLogID)
	if err != nil {
		return nil, err
	}
	log.CompletedAt = &completedAt

	if s.publisher != nil {
		payload := mq.WorkoutCompletedPayload{
			WorkoutLogID: log.ID,
			UserID:       user.ID,
			Name:         log.Name,
			CompletedAt:  completedAt,
		}
		if err := s.publisher.Publish(ctx, mq.RoutingKeyWorkoutCompleted, payload); err != nil {
			// the workout is saved; a lost notification is not worth failing it
			s.logger.Error("Failed to publish workout.completed",
				zap.Int("workout_log_id", log.ID),
				zap.Error(err),
			)
		}
	}

	return log, nil
}

// SessionDetail is one session with its sets.
type SessionDetail struct {
	model.WorkoutLog
	Sets []model.SetLog `json:"sets"`
}

// Get returns one session with sets, scoped to the caller.
func (s *Service) Get(ctx context.Context, user *model.User, workoutLogID int) (*SessionDetail, error) {
	log, err := s.workouts.FindLogByID(ctx, workoutLogID)
	if err != nil || log.UserID != user.ID {
		return nil, ErrWorkoutNotFound
	}
	sets, err := s.workouts.ListSetsForLog(ctx, workoutLogID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{WorkoutLog: *log, Sets: sets}, nil
}

// History lists the user's sessions, newest first.
func (s *Service) History(ctx context.Context, user *model.User, limit int) ([]model.WorkoutLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.workouts.ListLogs(ctx, user.ID, limit)
}
