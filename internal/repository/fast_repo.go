package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitz/internal/model"
)

type FastRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFastRepository(db *pgxpool.Pool, logger *zap.Logger) *FastRepository {
	return &FastRepository{
		db:     db,
		logger: logger,
	}
}

const fastColumns = `id, user_id, started_at, target_hours, ended_at, completed, note, created_at`

func scanFast(row interface{ Scan(...any) error }) (*model.Fast, error) {
	var f model.Fast
	err := row.Scan(
		&f.ID, &f.UserID, &f.StartedAt, &f.TargetHours, &f.EndedAt,
		&f.Completed, &f.Note, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Insert starts a fast.
func (r *FastRepository) Insert(ctx context.Context, f *model.Fast) error {
	r.logger.Debug("Starting fast",
		zap.Int("user_id", f.UserID),
		zap.Int("target_hours", f.TargetHours),
	)

	query := `
        INSERT INTO fasts (user_id, started_at, target_hours, note)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, f.UserID, f.StartedAt, f.TargetHours, f.Note).
		Scan(&f.ID, &f.CreatedAt)
}

// FindByID returns a fast by id.
func (r *FastRepository) FindByID(ctx context.Context, id int) (*model.Fast, error) {
	query := `SELECT ` + fastColumns + ` FROM fasts WHERE id = $1`
	return scanFast(r.db.QueryRow(ctx, query, id))
}

// ActiveFast returns the user's running fast, or pgx.ErrNoRows when none.
func (r *FastRepository) ActiveFast(ctx context.Context, userID int) (*model.Fast, error) {
	query := `
        SELECT ` + fastColumns + `
        FROM fasts
        WHERE user_id = $1 AND ended_at IS NULL
        ORDER BY started_at DESC
        LIMIT 1
    `
	return scanFast(r.db.QueryRow(ctx, query, userID))
}

// End closes a fast. The completed flag is decided by the service from the
// elapsed time at the moment the user stops; it is never revisited later.
func (r *FastRepository) End(ctx context.Context, id int, endedAt time.Time, completed bool) error {
	query := `
        UPDATE fasts SET ended_at = $2, completed = $3
        WHERE id = $1 AND ended_at IS NULL
    `
	_, err := r.db.Exec(ctx, query, id, endedAt, completed)
	return err
}

// ListByUser returns a user's finished fasts, newest first.
func (r *FastRepository) ListByUser(ctx context.Context, userID int, limit int) ([]model.Fast, error) {
	query := `
        SELECT ` + fastColumns + `
        FROM fasts
        WHERE user_id = $1 AND ended_at IS NOT NULL
        ORDER BY started_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fasts []model.Fast
	for rows.Next() {
		f, err := scanFast(rows)
		if err != nil {
			return nil, err
		}
		fasts = append(fasts, *f)
	}
	return fasts, rows.Err()
}

// ListStartedBetween returns finished fasts whose start falls in [from, to),
// for the weekly and monthly progress views.
func (r *FastRepository) ListStartedBetween(ctx context.Context, userID int, from, to time.Time) ([]model.Fast, error) {
	query := `
        SELECT ` + fastColumns + `
        FROM fasts
        WHERE user_id = $1 AND ended_at IS NOT NULL
          AND started_at >= $2 AND started_at < $3
        ORDER BY started_at
    `
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fasts []model.Fast
	for rows.Next() {
		f, err := scanFast(rows)
		if err != nil {
			return nil, err
		}
		fasts = append(fasts, *f)
	}
	return fasts, rows.Err()
}

// HasCompletedOn reports whether the user has a completed fast whose end time
// falls on the given calendar date in the given zone. An unfinished or
// abandoned fast never counts, however long it ran.
func (r *FastRepository) HasCompletedOn(ctx context.Context, userID int, tz string, day time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM fasts
            WHERE user_id = $1
              AND completed
              AND ended_at IS NOT NULL
              AND DATE(ended_at AT TIME ZONE $2) = $3::date
        )
    `
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, tz, day).Scan(&exists)
	return exists, err
}
