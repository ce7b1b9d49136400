package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitz/internal/model"
)

type FoodRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFoodRepository(db *pgxpool.Pool, logger *zap.Logger) *FoodRepository {
	return &FoodRepository{
		db:     db,
		logger: logger,
	}
}

const foodItemColumns = `id, name, brand, source, calories, protein_g, carbs_g,
	fat_g, serving_size, serving_weight_g, created_at`

func scanFoodItem(row interface{ Scan(...any) error }) (*model.FoodItem, error) {
	var f model.FoodItem
	err := row.Scan(
		&f.ID, &f.Name, &f.Brand, &f.Source, &f.Calories, &f.ProteinG,
		&f.CarbsG, &f.FatG, &f.ServingSize, &f.ServingWeightG, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// InsertItem creates a food item.
func (r *FoodRepository) InsertItem(ctx context.Context, f *model.FoodItem) error {
	query := `
        INSERT INTO food_items (name, brand, source, calories, protein_g, carbs_g, fat_g, serving_size, serving_weight_g)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query,
		f.Name, f.Brand, f.Source, f.Calories, f.ProteinG, f.CarbsG, f.FatG,
		f.ServingSize, f.ServingWeightG,
	).Scan(&f.ID, &f.CreatedAt)
}

// FindItemByID returns a food item by id.
func (r *FoodRepository) FindItemByID(ctx context.Context, id int) (*model.FoodItem, error) {
	query := `SELECT ` + foodItemColumns + ` FROM food_items WHERE id = $1`
	return scanFoodItem(r.db.QueryRow(ctx, query, id))
}

// UpdateItem edits a food item's nutrition. This only affects future logs:
// existing log rows carry their own copied values.
func (r *FoodRepository) UpdateItem(ctx context.Context, f *model.FoodItem) error {
	query := `
        UPDATE food_items
        SET name = $2, brand = $3, calories = $4, protein_g = $5, carbs_g = $6, fat_g = $7, serving_size = $8
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		f.ID, f.Name, f.Brand, f.Calories, f.ProteinG, f.CarbsG, f.FatG, f.ServingSize,
	)
	return err
}

// SearchItems matches custom food items by name prefix or substring.
func (r *FoodRepository) SearchItems(ctx context.Context, q string, limit int) ([]model.FoodItem, error) {
	query := `
        SELECT ` + foodItemColumns + `
        FROM food_items
        WHERE source = 'custom' AND name ILIKE '%' || $1 || '%'
        ORDER BY name
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.FoodItem
	for rows.Next() {
		f, err := scanFoodItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

const foodLogColumns = `fl.id, fl.user_id, fl.food_item_id, fi.name, fl.meal_type,
	fl.servings, fl.logged_date, fl.logged_at, fl.calories, fl.protein_g, fl.carbs_g, fl.fat_g`

func scanFoodLog(row interface{ Scan(...any) error }) (*model.FoodLog, error) {
	var l model.FoodLog
	err := row.Scan(
		&l.ID, &l.UserID, &l.FoodItemID, &l.FoodName, &l.MealType,
		&l.Servings, &l.LoggedDate, &l.LoggedAt,
		&l.Calories, &l.ProteinG, &l.CarbsG, &l.FatG,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// InsertLog writes a food log row. The nutrition values arrive already
// multiplied out by the service; from here on they are frozen.
func (r *FoodRepository) InsertLog(ctx context.Context, l *model.FoodLog) error {
	r.logger.Debug("Inserting food log",
		zap.Int("user_id", l.UserID),
		zap.Int("food_item_id", l.FoodItemID),
		zap.Float64("servings", l.Servings),
	)

	query := `
        INSERT INTO food_logs (user_id, food_item_id, meal_type, servings, logged_date, calories, protein_g, carbs_g, fat_g)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, logged_at
    `
	return r.db.QueryRow(ctx, query,
		l.UserID, l.FoodItemID, l.MealType, l.Servings, l.LoggedDate,
		l.Calories, l.ProteinG, l.CarbsG, l.FatG,
	).Scan(&l.ID, &l.LoggedAt)
}

// FindLogByID returns a food log row with its item name joined in.
func (r *FoodRepository) FindLogByID(ctx context.Context, id int) (*model.FoodLog, error) {
	query := `
        SELECT ` + foodLogColumns + `
        FROM food_logs fl JOIN food_items fi ON fi.id = fl.food_item_id
        WHERE fl.id = $1
    `
	return scanFoodLog(r.db.QueryRow(ctx, query, id))
}

// ListLogsForDate returns a user's food log for one date in logging order.
func (r *FoodRepository) ListLogsForDate(ctx context.Context, userID int, day time.Time) ([]model.FoodLog, error) {
	query := `
        SELECT ` + foodLogColumns + `
        FROM food_logs fl JOIN food_items fi ON fi.id = fl.food_item_id
        WHERE fl.user_id = $1 AND fl.logged_date = $2
        ORDER BY fl.logged_at
    `
	rows, err := r.db.Query(ctx, query, userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.FoodLog
	for rows.Next() {
		l, err := scanFoodLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// UpdateLog rewrites the servings and the snapshot values of one log row.
// The service rescales from the row's own stored values, never from the
// current food item.
func (r *FoodRepository) UpdateLog(ctx context.Context, l *model.FoodLog) error {
	query := `
        UPDATE food_logs
        SET meal_type = $2, servings = $3, calories = $4, protein_g = $5, carbs_g = $6, fat_g = $7
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query,
		l.ID, l.MealType, l.Servings, l.Calories, l.ProteinG, l.CarbsG, l.FatG,
	)
	return err
}

// DeleteLog removes a log row.
func (r *FoodRepository) DeleteLog(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM food_logs WHERE id = $1`, id)
	return err
}

// TotalsForDate sums the snapshot columns for a user's date.
func (r *FoodRepository) TotalsForDate(ctx context.Context, userID int, day time.Time) (model.DailyTotals, error) {
	query := `
        SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(protein_g), 0),
               COALESCE(SUM(carbs_g), 0), COALESCE(SUM(fat_g), 0)
        FROM food_logs
        WHERE user_id = $1 AND logged_date = $2
    `
	var t model.DailyTotals
	err := r.db.QueryRow(ctx, query, userID, day).Scan(&t.Calories, &t.ProteinG, &t.CarbsG, &t.FatG)
	return t, err
}

// CaloriesForDate sums logged snapshot calories for a user's date.
func (r *FoodRepository) CaloriesForDate(ctx context.Context, userID int, day time.Time) (float64, error) {
	query := `
        SELECT COALESCE(SUM(calories), 0)
        FROM food_logs
        WHERE user_id = $1 AND logged_date = $2
    `
	var total float64
	err := r.db.QueryRow(ctx, query, userID, day).Scan(&total)
	return total, err
}

// RecentItems returns the distinct food items behind a user's latest logs,
// newest first, skipping one-off quick adds.
func (r *FoodRepository) RecentItems(ctx context.Context, userID int, limit int) ([]model.FoodItem, error) {
	query := `
        SELECT fi.id, fi.name, fi.brand, fi.source,
               fi.calories, fi.protein_g, fi.carbs_g, fi.fat_g, fi.serving_size,
               fi.serving_weight_g, fi.created_at, MAX(fl.logged_at) AS last_logged
        FROM food_logs fl JOIN food_items fi ON fi.id = fl.food_item_id
        WHERE fl.user_id = $1 AND fi.source <> 'quick_add'
        GROUP BY fi.id
        ORDER BY last_logged DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.FoodItem
	for rows.Next() {
		var f model.FoodItem
		var lastLogged time.Time
		err := rows.Scan(
			&f.ID, &f.Name, &f.Brand, &f.Source, &f.Calories, &f.ProteinG,
			&f.CarbsG, &f.FatG, &f.ServingSize, &f.ServingWeightG, &f.CreatedAt,
			&lastLogged,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
