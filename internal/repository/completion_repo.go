package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"habitz/internal/model"
)

type CompletionRepository struct {
	db *pgxpool.Pool
}

func NewCompletionRepository(db *pgxpool.Pool) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// IsDone reads the stored completion state for (habit, day). A missing row
// means not done.
func (r *CompletionRepository) IsDone(ctx context.Context, habitID int, day time.Time) (bool, error) {
	query := `SELECT done FROM habit_completions WHERE habit_id = $1 AND day = $2`
	var done bool
	err := r.db.QueryRow(ctx, query, habitID, day).Scan(&done)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return done, nil
}

// Upsert refreshes the cached state for an app-linked habit. Concurrent
// refreshes compute the same value from the same tracker data, so last
// writer wins is fine here.
func (r *CompletionRepository) Upsert(ctx context.Context, habitID, userID int, day time.Time, done bool) error {
	query := `
        INSERT INTO habit_completions (habit_id, user_id, day, done)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (habit_id, day) DO UPDATE SET done = EXCLUDED.done
    `
	_, err := r.db.Exec(ctx, query, habitID, userID, day, done)
	return err
}

// Toggle atomically flips the manual habit state for (habit, day) and returns
// the new value. A single statement, so two concurrent toggles always land on
// opposite states instead of both reading "not done" and both writing "done".
func (r *CompletionRepository) Toggle(ctx context.Context, habitID, userID int, day time.Time) (bool, error) {
	query := `
        INSERT INTO habit_completions (habit_id, user_id, day, done)
        VALUES ($1, $2, $3, TRUE)
        ON CONFLICT (habit_id, day) DO UPDATE SET done = NOT habit_completions.done
        RETURNING done
    `
	var done bool
	err := r.db.QueryRow(ctx, query, habitID, userID, day).Scan(&done)
	return done, err
}

// DoneDays returns the set of done dates for a habit within [from, to].
// The streak walk calls this a window at a time instead of pulling the
// habit's full history.
func (r *CompletionRepository) DoneDays(ctx context.Context, habitID int, from, to time.Time) (map[time.Time]bool, error) {
	query := `
        SELECT day FROM habit_completions
        WHERE habit_id = $1 AND done AND day BETWEEN $2 AND $3
    `
	rows, err := r.db.Query(ctx, query, habitID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make(map[time.Time]bool)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days[d.UTC()] = true
	}
	return days, rows.Err()
}

// RecordsForRange returns all completion rows for a user's habits within
// [from, to], keyed by habit then day. Keeps the calendar views to one query.
func (r *CompletionRepository) RecordsForRange(ctx context.Context, userID int, from, to time.Time) (map[int]map[time.Time]bool, error) {
	query := `
        SELECT habit_id, day, done FROM habit_completions
        WHERE user_id = $1 AND day BETWEEN $2 AND $3
    `
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[int]map[time.Time]bool)
	for rows.Next() {
		var c model.HabitCompletion
		if err := rows.Scan(&c.HabitID, &c.Day, &c.Done); err != nil {
			return nil, err
		}
		if records[c.HabitID] == nil {
			records[c.HabitID] = make(map[time.Time]bool)
		}
		records[c.HabitID][c.Day.UTC()] = c.Done
	}
	return records, rows.Err()
}
