package model

import "time"

type HabitType string

const (
	HabitManual   HabitType = "manual"
	HabitWorkout  HabitType = "workout"
	HabitCalories HabitType = "calories"
	HabitFasting  HabitType = "fasting"
	HabitMeals    HabitType = "meals"
)

// Valid reports whether t is one of the known habit types.
func (t HabitType) Valid() bool {
	switch t {
	case HabitManual, HabitWorkout, HabitCalories, HabitFasting, HabitMeals:
		return true
	}
	return false
}

type Habit struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HabitType   HabitType `json:"habit_type"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	SortOrder   int       `json:"sort_order"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// HabitCompletion is one (habit, day) cell of the completion calendar.
// For manual habits the row is the source of truth; for app-linked habits it
// is a cache of the tracker predicate and can be rebuilt at any time.
type HabitCompletion struct {
	ID        int       `json:"id"`
	HabitID   int       `json:"habit_id"`
	UserID    int       `json:"user_id"`
	Day       time.Time `json:"day"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}
