package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitz/internal/model"
)

type WorkoutRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewWorkoutRepository(db *pgxpool.Pool, logger *zap.Logger) *WorkoutRepository {
	return &WorkoutRepository{
		db:     db,
		logger: logger,
	}
}

// InsertExercise creates a user-owned exercise definition.
func (r *WorkoutRepository) InsertExercise(ctx context.Context, e *model.Exercise) error {
	query := `
        INSERT INTO exercises (user_id, name, muscle_group)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, e.UserID, e.Name, e.MuscleGroup).Scan(&e.ID, &e.CreatedAt)
}

// FindExerciseByID returns an exercise by id.
func (r *WorkoutRepository) FindExerciseByID(ctx context.Context, id int) (*model.Exercise, error) {
	query := `SELECT id, user_id, name, muscle_group, created_at FROM exercises WHERE id = $1`
	var e model.Exercise
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.UserID, &e.Name, &e.MuscleGroup, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListExercises returns a user's exercises.
func (r *WorkoutRepository) ListExercises(ctx context.Context, userID int) ([]model.Exercise, error) {
	query := `
        SELECT id, user_id, name, muscle_group, created_at
        FROM exercises
        WHERE user_id = $1
        ORDER BY name
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []model.Exercise
	for rows.Next() {
		var e model.Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.MuscleGroup, &e.CreatedAt); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// UpdateExercise renames an exercise. Set history is unaffected: set rows
// carry their own copy of the name.
func (r *WorkoutRepository) UpdateExercise(ctx context.Context, e *model.Exercise) error {
	query := `UPDATE exercises SET name = $2, muscle_group = $3 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, e.ID, e.Name, e.MuscleGroup)
	return err
}

// InsertLog starts a workout session.
func (r *WorkoutRepository) InsertLog(ctx context.Context, w *model.WorkoutLog) error {
	r.logger.Debug("Starting workout log",
		zap.Int("user_id", w.UserID),
		zap.String("name", w.Name),
	)

	query := `
        INSERT INTO workout_logs (user_id, name, notes)
        VALUES ($1, $2, $3)
        RETURNING id, started_at
    `
	return r.db.QueryRow(ctx, query, w.UserID, w.Name, w.Notes).Scan(&w.ID, &w.StartedAt)
}

// FindLogByID returns a workout log by id.
func (r *WorkoutRepository) FindLogByID(ctx context.Context, id int) (*model.WorkoutLog, error) {
	query := `
        SELECT id, user_id, name, started_at, completed_at, notes
        FROM workout_logs WHERE id = $1
    `
	var w model.WorkoutLog
	err := r.db.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.UserID, &w.Name, &w.StartedAt, &w.CompletedAt, &w.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListLogs returns a user's workout sessions, newest first.
func (r *WorkoutRepository) ListLogs(ctx context.Context, userID int, limit int) ([]model.WorkoutLog, error) {
	query := `
        SELECT id, user_id, name, started_at, completed_at, notes
        FROM workout_logs
        WHERE user_id = $1
        ORDER BY started_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.WorkoutLog
	for rows.Next() {
		var w model.WorkoutLog
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.StartedAt, &w.CompletedAt, &w.Notes); err != nil {
			return nil, err
		}
		logs = append(logs, w)
	}
	return logs, rows.Err()
}

// Complete stamps completed_at and returns the stamped time.
func (r *WorkoutRepository) Complete(ctx context.Context, id int) (time.Time, error) {
	query := `
        UPDATE workout_logs SET completed_at = NOW()
        WHERE id = $1 AND completed_at IS NULL
        RETURNING completed_at
    `
	var completedAt time.Time
	err := r.db.QueryRow(ctx, query, id).Scan(&completedAt)
	return completedAt, err
}

// InsertSet writes a set row with the snapshot exercise name the service
// resolved at log time.
func (r *WorkoutRepository) InsertSet(ctx context.Context, s *model.SetLog) error {
	query := `
        INSERT INTO set_logs (workout_log_id, exercise_id, exercise_name, set_number, reps, weight_kg)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, logged_at
    `
	return r.db.QueryRow(ctx, query,
		s.WorkoutLogID, s.ExerciseID, s.ExerciseName, s.SetNumber, s.Reps, s.WeightKg,
	).Scan(&s.ID, &s.LoggedAt)
}

// FindSetByID returns a set row.
func (r *WorkoutRepository) FindSetByID(ctx context.Context, id int) (*model.SetLog, error) {
	query := `
        SELECT id, workout_log_id, exercise_id, exercise_name, set_number, reps, weight_kg, logged_at
        FROM set_logs WHERE id = $1
    `
	var s model.SetLog
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.WorkoutLogID, &s.ExerciseID, &s.ExerciseName,
		&s.SetNumber, &s.Reps, &s.WeightKg, &s.LoggedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSetsForLog returns all sets of one workout session in order.
func (r *WorkoutRepository) ListSetsForLog(ctx context.Context, workoutLogID int) ([]model.SetLog, error) {
	query := `
        SELECT id, workout_log_id, exercise_id, exercise_name, set_number, reps, weight_kg, logged_at
        FROM set_logs
        WHERE workout_log_id = $1
        ORDER BY logged_at, set_number
    `
	rows, err := r.db.Query(ctx, query, workoutLogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []model.SetLog
	for rows.Next() {
		var s model.SetLog
		err := rows.Scan(
			&s.ID, &s.WorkoutLogID, &s.ExerciseID, &s.ExerciseName,
			&s.SetNumber, &s.Reps, &s.WeightKg, &s.LoggedAt,
		)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// HasCompletedOn reports whether the user finished a workout whose completion
// time falls on the given calendar date in the given zone.
func (r *WorkoutRepository) HasCompletedOn(ctx context.Context, userID int, tz string, day time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM workout_logs
            WHERE user_id = $1
              AND completed_at IS NOT NULL
              AND DATE(completed_at AT TIME ZONE $2) = $3::date
        )
    `
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, tz, day).Scan(&exists)
	return exists, err
}
