package habit

import (
	"context"
	"time"

	"habitz/internal/model"
	"habitz/internal/util"
)

// Each tracker exposes one narrow query to the habit app; the predicates
// below are the only cross-app seam. They are pure reads: calling one twice
// over unchanged tracker data gives the same answer twice.

type WorkoutSource interface {
	HasCompletedOn(ctx context.Context, userID int, tz string, day time.Time) (bool, error)
}

type CalorieSource interface {
	CaloriesForDate(ctx context.Context, userID int, day time.Time) (float64, error)
}

type FastSource interface {
	HasCompletedOn(ctx context.Context, userID int, tz string, day time.Time) (bool, error)
}

type MealSource interface {
	HasPlanOn(ctx context.Context, householdID int, day time.Time) (bool, error)
}

// Predicate answers "is this habit type complete for this user on this date".
// The date arrives resolved; predicates never consult the wall clock.
type Predicate interface {
	IsDone(ctx context.Context, user *model.User, day time.Time) (bool, error)
}

type workoutPredicate struct {
	src WorkoutSource
}

func (p workoutPredicate) IsDone(ctx context.Context, user *model.User, day time.Time) (bool, error) {
	return p.src.HasCompletedOn(ctx, user.ID, util.ZoneName(user.Timezone), day)
}

type caloriePredicate struct {
	src CalorieSource
}

// Done when the day's logged snapshot calories meet the goal. The threshold
// is inclusive, and a zero goal never counts as met.
func (p caloriePredicate) IsDone(ctx context.Context, user *model.User, day time.Time) (bool, error) {
	if user.DailyCalorieGoal <= 0 {
		return false, nil
	}
	total, err := p.src.CaloriesForDate(ctx, user.ID, day)
	if err != nil {
		return false, err
	}
	return total >= float64(user.DailyCalorieGoal), nil
}

type fastingPredicate struct {
	src FastSource
}

func (p fastingPredicate) IsDone(ctx context.Context, user *model.User, day time.Time) (bool, error) {
	return p.src.HasCompletedOn(ctx, user.ID, util.ZoneName(user.Timezone), day)
}

type mealsPredicate struct {
	src MealSource
}

func (p mealsPredicate) IsDone(ctx context.Context, user *model.User, day time.Time) (bool, error) {
	if user.HouseholdID == nil {
		return false, nil
	}
	return p.src.HasPlanOn(ctx, *user.HouseholdID, day)
}

// NewPredicates wires one predicate per app-linked habit type. Manual habits
// have no predicate: their completion record is the ground truth and the
// aggregator reads it directly.
func NewPredicates(w WorkoutSource, c CalorieSource, f FastSource, m MealSource) map[model.HabitType]Predicate {
	return map[model.HabitType]Predicate{
		model.HabitWorkout:  workoutPredicate{src: w},
		model.HabitCalories: caloriePredicate{src: c},
		model.HabitFasting:  fastingPredicate{src: f},
		model.HabitMeals:    mealsPredicate{src: m},
	}
}
