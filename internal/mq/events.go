package mq

import "time"

const (
	RoutingKeyWorkoutCompleted = "workout.completed"
	RoutingKeyFastCompleted    = "fast.completed"
)

type WorkoutCompletedPayload struct {
	WorkoutLogID int       `json:"workout_log_id"`
	UserID       int       `json:"user_id"`
	Name         string    `json:"name"`
	CompletedAt  time.Time `json:"completed_at"`
}

type FastCompletedPayload struct {
	FastID  int       `json:"fast_id"`
	UserID  int       `json:"user_id"`
	Hours   float64   `json:"hours"`
	EndedAt time.Time `json:"ended_at"`
}
