package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates all tables and indexes if they don't exist. The partial
// unique index on habits makes "one app-linked habit per type per user" a
// storage-level guarantee rather than an application convention, which is
// what lets EnsureSingleton survive concurrent first-use requests.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			username VARCHAR(80) UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			timezone VARCHAR(50) NOT NULL DEFAULT 'America/New_York',
			household_id INTEGER,
			daily_calorie_goal INTEGER NOT NULL DEFAULT 2000,
			protein_goal_pct INTEGER NOT NULL DEFAULT 30,
			carb_goal_pct INTEGER NOT NULL DEFAULT 40,
			fat_goal_pct INTEGER NOT NULL DEFAULT 30,
			default_fast_hours INTEGER NOT NULL DEFAULT 16,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS habits (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			description VARCHAR(500) NOT NULL DEFAULT '',
			habit_type VARCHAR(20) NOT NULL DEFAULT 'manual',
			icon VARCHAR(10) NOT NULL DEFAULT '✓',
			color VARCHAR(7) NOT NULL DEFAULT '#4A90E2',
			sort_order INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// one active app-linked habit per type per user
		`CREATE UNIQUE INDEX IF NOT EXISTS habits_linked_singleton
			ON habits (user_id, habit_type)
			WHERE habit_type <> 'manual' AND active`,

		`CREATE TABLE IF NOT EXISTS habit_completions (
			id SERIAL PRIMARY KEY,
			habit_id INTEGER NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			day DATE NOT NULL,
			done BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (habit_id, day)
		)`,

		`CREATE TABLE IF NOT EXISTS food_items (
			id SERIAL PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			brand VARCHAR(200) NOT NULL DEFAULT '',
			source VARCHAR(20) NOT NULL,
			calories DOUBLE PRECISION NOT NULL,
			protein_g DOUBLE PRECISION NOT NULL DEFAULT 0,
			carbs_g DOUBLE PRECISION NOT NULL DEFAULT 0,
			fat_g DOUBLE PRECISION NOT NULL DEFAULT 0,
			serving_size VARCHAR(100) NOT NULL DEFAULT '',
			serving_weight_g DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS food_logs (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			food_item_id INTEGER NOT NULL REFERENCES food_items(id),
			meal_type VARCHAR(20) NOT NULL,
			servings DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			logged_date DATE NOT NULL,
			logged_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			calories DOUBLE PRECISION NOT NULL,
			protein_g DOUBLE PRECISION NOT NULL DEFAULT 0,
			carbs_g DOUBLE PRECISION NOT NULL DEFAULT 0,
			fat_g DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,

		`CREATE INDEX IF NOT EXISTS food_logs_user_date
			ON food_logs (user_id, logged_date)`,

		`CREATE TABLE IF NOT EXISTS exercises (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(120) NOT NULL,
			muscle_group VARCHAR(60) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS workout_logs (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(120) NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ,
			notes TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS set_logs (
			id SERIAL PRIMARY KEY,
			workout_log_id INTEGER NOT NULL REFERENCES workout_logs(id) ON DELETE CASCADE,
			exercise_id INTEGER NOT NULL REFERENCES exercises(id),
			exercise_name VARCHAR(120) NOT NULL,
			set_number INTEGER NOT NULL,
			reps INTEGER NOT NULL,
			weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
			logged_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS fasts (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			target_hours INTEGER NOT NULL DEFAULT 16,
			ended_at TIMESTAMPTZ,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			note VARCHAR(200) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS households (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_by INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS household_invites (
			id SERIAL PRIMARY KEY,
			household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
			token VARCHAR(64) NOT NULL UNIQUE,
			created_by INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL,
			accepted BOOLEAN NOT NULL DEFAULT FALSE,
			accepted_by INTEGER REFERENCES users(id),
			accepted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS meals (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			ingredients TEXT NOT NULL DEFAULT '',
			category VARCHAR(50) NOT NULL DEFAULT '',
			household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
			created_by INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS meal_plans (
			id SERIAL PRIMARY KEY,
			household_id INTEGER NOT NULL REFERENCES households(id) ON DELETE CASCADE,
			meal_id INTEGER NOT NULL REFERENCES meals(id) ON DELETE CASCADE,
			day DATE NOT NULL,
			meal_type VARCHAR(20) NOT NULL DEFAULT 'dinner',
			created_by INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (household_id, day, meal_type, meal_id)
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(40) NOT NULL,
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, q := range queries {
		if _, err := pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
