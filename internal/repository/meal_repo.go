package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"habitz/internal/model"
)

type MealRepository struct {
	db *pgxpool.Pool
}

func NewMealRepository(db *pgxpool.Pool) *MealRepository {
	return &MealRepository{db: db}
}

// InsertHousehold creates a household.
func (r *MealRepository) InsertHousehold(ctx context.Context, h *model.Household) error {
	query := `
        INSERT INTO households (name, created_by)
        VALUES ($1, $2)
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, h.Name, h.CreatedBy).Scan(&h.ID, &h.CreatedAt)
}

// FindHouseholdByID returns a household by id.
func (r *MealRepository) FindHouseholdByID(ctx context.Context, id int) (*model.Household, error) {
	query := `SELECT id, name, created_by, created_at FROM households WHERE id = $1`
	var h model.Household
	err := r.db.QueryRow(ctx, query, id).Scan(&h.ID, &h.Name, &h.CreatedBy, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// InsertInvite stores an invite token.
func (r *MealRepository) InsertInvite(ctx context.Context, inv *model.HouseholdInvite) error {
	query := `
        INSERT INTO household_invites (household_id, token, created_by, expires_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, inv.HouseholdID, inv.Token, inv.CreatedBy, inv.ExpiresAt).
		Scan(&inv.ID, &inv.CreatedAt)
}

// FindInviteByToken returns an invite by token.
func (r *MealRepository) FindInviteByToken(ctx context.Context, token string) (*model.HouseholdInvite, error) {
	query := `
        SELECT id, household_id, token, created_by, created_at, expires_at, accepted, accepted_by, accepted_at
        FROM household_invites WHERE token = $1
    `
	var inv model.HouseholdInvite
	err := r.db.QueryRow(ctx, query, token).Scan(
		&inv.ID, &inv.HouseholdID, &inv.Token, &inv.CreatedBy, &inv.CreatedAt,
		&inv.ExpiresAt, &inv.Accepted, &inv.AcceptedBy, &inv.AcceptedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// AcceptInvite marks an invite accepted by a user.
func (r *MealRepository) AcceptInvite(ctx context.Context, id, userID int) error {
	query := `
        UPDATE household_invites
        SET accepted = TRUE, accepted_by = $2, accepted_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id, userID)
	return err
}

// InsertMeal creates a household meal.
func (r *MealRepository) InsertMeal(ctx context.Context, m *model.Meal) error {
	query := `
        INSERT INTO meals (name, description, ingredients, category, household_id, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query,
		m.Name, m.Description, m.Ingredients, m.Category, m.HouseholdID, m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt)
}

// FindMealByID returns a meal by id.
func (r *MealRepository) FindMealByID(ctx context.Context, id int) (*model.Meal, error) {
	query := `
        SELECT id, name, description, ingredients, category, household_id, created_by, created_at
        FROM meals WHERE id = $1
    `
	var m model.Meal
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Description, &m.Ingredients, &m.Category,
		&m.HouseholdID, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMeals returns a household's meals.
func (r *MealRepository) ListMeals(ctx context.Context, householdID int) ([]model.Meal, error) {
	query := `
        SELECT id, name, description, ingredients, category, household_id, created_by, created_at
        FROM meals
        WHERE household_id = $1
        ORDER BY name
    `
	rows, err := r.db.Query(ctx, query, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		var m model.Meal
		err := rows.Scan(
			&m.ID, &m.Name, &m.Description, &m.Ingredients, &m.Category,
			&m.HouseholdID, &m.CreatedBy, &m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// InsertPlan schedules a meal on a date; duplicate slots are ignored.
func (r *MealRepository) InsertPlan(ctx context.Context, p *model.MealPlan) (bool, error) {
	query := `
        INSERT INTO meal_plans (household_id, meal_id, day, meal_type, created_by)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (household_id, day, meal_type, meal_id) DO NOTHING
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		p.HouseholdID, p.MealID, p.Day, p.MealType, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeletePlan removes one planned entry.
func (r *MealRepository) DeletePlan(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM meal_plans WHERE id = $1`, id)
	return err
}

// FindPlanByID returns one planned entry.
func (r *MealRepository) FindPlanByID(ctx context.Context, id int) (*model.MealPlan, error) {
	query := `
        SELECT mp.id, mp.household_id, mp.meal_id, m.name, mp.day, mp.meal_type, mp.created_by, mp.created_at
        FROM meal_plans mp JOIN meals m ON m.id = mp.meal_id
        WHERE mp.id = $1
    `
	var p model.MealPlan
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.HouseholdID, &p.MealID, &p.MealName, &p.Day, &p.MealType,
		&p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlansBetween returns a household's planned meals within [from, to].
func (r *MealRepository) ListPlansBetween(ctx context.Context, householdID int, from, to time.Time) ([]model.MealPlan, error) {
	query := `
        SELECT mp.id, mp.household_id, mp.meal_id, m.name, mp.day, mp.meal_type, mp.created_by, mp.created_at
        FROM meal_plans mp JOIN meals m ON m.id = mp.meal_id
        WHERE mp.household_id = $1 AND mp.day BETWEEN $2 AND $3
        ORDER BY mp.day, mp.meal_type
    `
	rows, err := r.db.Query(ctx, query, householdID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []model.MealPlan
	for rows.Next() {
		var p model.MealPlan
		err := rows.Scan(
			&p.ID, &p.HouseholdID, &p.MealID, &p.MealName, &p.Day, &p.MealType,
			&p.CreatedBy, &p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// HasPlanOn reports whether the household planned anything for the date.
func (r *MealRepository) HasPlanOn(ctx context.Context, householdID int, day time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM meal_plans WHERE household_id = $1 AND day = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, householdID, day).Scan(&exists)
	return exists, err
}
