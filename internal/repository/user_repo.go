package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"habitz/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, timezone, household_id,
	daily_calorie_goal, protein_goal_pct, carb_goal_pct, fat_goal_pct,
	default_fast_hours, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Timezone, &u.HouseholdID,
		&u.DailyCalorieGoal, &u.ProteinGoalPct, &u.CarbGoalPct, &u.FatGoalPct,
		&u.DefaultFastHours, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user with default goals and timezone.
func (r *UserRepository) CreateUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (email, username, password_hash, timezone, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRow(ctx, query, u.Email, u.Username, u.PasswordHash, u.Timezone))
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// FindByEmail returns a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// FindByID returns a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// UpdateSettings persists the user-editable goal and timezone fields.
func (r *UserRepository) UpdateSettings(ctx context.Context, u *model.User) error {
	query := `
        UPDATE users
        SET timezone = $2,
            daily_calorie_goal = $3,
            protein_goal_pct = $4,
            carb_goal_pct = $5,
            fat_goal_pct = $6,
            default_fast_hours = $7
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		u.ID, u.Timezone, u.DailyCalorieGoal,
		u.ProteinGoalPct, u.CarbGoalPct, u.FatGoalPct, u.DefaultFastHours,
	)
	return err
}

// SetHousehold links or unlinks a user's household membership.
func (r *UserRepository) SetHousehold(ctx context.Context, userID int, householdID *int) error {
	query := `UPDATE users SET household_id = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID, householdID)
	return err
}
