package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitz/internal/model"
)

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{
		db:     db,
		logger: logger,
	}
}

const habitColumns = `id, user_id, name, description, habit_type, icon, color,
	sort_order, active, created_at`

func scanHabit(row interface{ Scan(...any) error }) (*model.Habit, error) {
	var h model.Habit
	err := row.Scan(
		&h.ID, &h.UserID, &h.Name, &h.Description, &h.HabitType,
		&h.Icon, &h.Color, &h.SortOrder, &h.Active, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Insert creates a habit definition.
func (r *HabitRepository) Insert(ctx context.Context, h *model.Habit) error {
	r.logger.Debug("Inserting habit",
		zap.Int("user_id", h.UserID),
		zap.String("name", h.Name),
		zap.String("habit_type", string(h.HabitType)),
	)

	query := `
        INSERT INTO habits (user_id, name, description, habit_type, icon, color, sort_order, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
        RETURNING id, active, created_at
    `
	return r.db.QueryRow(ctx, query,
		h.UserID, h.Name, h.Description, h.HabitType, h.Icon, h.Color, h.SortOrder,
	).Scan(&h.ID, &h.Active, &h.CreatedAt)
}

// InsertLinkedIfAbsent inserts an app-linked habit unless the user already has
// an active one of that type. The habits_linked_singleton index plus
// ON CONFLICT DO NOTHING makes the check-then-insert atomic: under a race,
// exactly one request inserts and the other sees no returned row.
func (r *HabitRepository) InsertLinkedIfAbsent(ctx context.Context, h *model.Habit) (bool, error) {
	query := `
        INSERT INTO habits (user_id, name, description, habit_type, icon, color, sort_order, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
        ON CONFLICT (user_id, habit_type) WHERE habit_type <> 'manual' AND active
        DO NOTHING
        RETURNING id, active, created_at
    `
	err := r.db.QueryRow(ctx, query,
		h.UserID, h.Name, h.Description, h.HabitType, h.Icon, h.Color, h.SortOrder,
	).Scan(&h.ID, &h.Active, &h.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindActiveByType returns the user's active habit of an app-linked type.
func (r *HabitRepository) FindActiveByType(ctx context.Context, userID int, habitType model.HabitType) (*model.Habit, error) {
	query := `
        SELECT ` + habitColumns + `
        FROM habits
        WHERE user_id = $1 AND habit_type = $2 AND active
    `
	return scanHabit(r.db.QueryRow(ctx, query, userID, habitType))
}

// FindByID returns a habit by id regardless of owner; callers check ownership.
func (r *HabitRepository) FindByID(ctx context.Context, id int) (*model.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`
	return scanHabit(r.db.QueryRow(ctx, query, id))
}

// ListActiveByUser returns the user's active habits in dashboard order.
func (r *HabitRepository) ListActiveByUser(ctx context.Context, userID int) ([]model.Habit, error) {
	query := `
        SELECT ` + habitColumns + `
        FROM habits
        WHERE user_id = $1 AND active
        ORDER BY sort_order, created_at
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// Update persists the user-editable habit fields.
func (r *HabitRepository) Update(ctx context.Context, h *model.Habit) error {
	query := `
        UPDATE habits
        SET name = $2, description = $3, icon = $4, color = $5, sort_order = $6
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, h.ID, h.Name, h.Description, h.Icon, h.Color, h.SortOrder)
	return err
}

// Archive soft-deletes a habit; completion history stays queryable.
func (r *HabitRepository) Archive(ctx context.Context, id int) error {
	query := `UPDATE habits SET active = FALSE WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
