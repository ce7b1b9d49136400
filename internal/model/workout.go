package model

import "time"

type Exercise struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscle_group,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type WorkoutLog struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Name        string     `json:"name"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// SetLog is one performed set. ExerciseName is copied from the exercise at
// log time; renaming or removing the exercise leaves old sets intact.
type SetLog struct {
	ID           int       `json:"id"`
	WorkoutLogID int       `json:"workout_log_id"`
	ExerciseID   int       `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	SetNumber    int       `json:"set_number"`
	Reps         int       `json:"reps"`
	WeightKg     float64   `json:"weight_kg"`
	LoggedAt     time.Time `json:"logged_at"`
}
