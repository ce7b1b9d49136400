package habit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitz/internal/model"
)

type fakeCalorieSource struct {
	totals map[time.Time]float64
}

func (f *fakeCalorieSource) CaloriesForDate(_ context.Context, _ int, day time.Time) (float64, error) {
	return f.totals[day], nil
}

type fakeMealSource struct {
	planned map[time.Time]bool
}

func (f *fakeMealSource) HasPlanOn(_ context.Context, _ int, day time.Time) (bool, error) {
	return f.planned[day], nil
}

func TestCaloriePredicate_InclusiveThreshold(t *testing.T) {
	today := day(2025, 9, 10)
	src := &fakeCalorieSource{totals: map[time.Time]float64{today: 1999}}
	pred := caloriePredicate{src: src}
	u := testUser() // goal 2000

	done, err := pred.IsDone(context.Background(), u, today)
	require.NoError(t, err)
	assert.False(t, done)

	src.totals[today] = 2000
	done, err = pred.IsDone(context.Background(), u, today)
	require.NoError(t, err)
	assert.True(t, done)

	src.totals[today] = 2500
	done, err = pred.IsDone(context.Background(), u, today)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestCaloriePredicate_ZeroGoalNeverDone(t *testing.T) {
	today := day(2025, 9, 10)
	src := &fakeCalorieSource{totals: map[time.Time]float64{today: 3000}}
	pred := caloriePredicate{src: src}

	u := testUser()
	u.DailyCalorieGoal = 0

	done, err := pred.IsDone(context.Background(), u, today)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestMealsPredicate_RequiresHousehold(t *testing.T) {
	today := day(2025, 9, 10)
	src := &fakeMealSource{planned: map[time.Time]bool{today: true}}
	pred := mealsPredicate{src: src}

	u := testUser()
	done, err := pred.IsDone(context.Background(), u, today)
	require.NoError(t, err)
	assert.False(t, done, "no household means no plan can exist for the user")

	hid := 7
	u.HouseholdID = &hid
	done, err = pred.IsDone(context.Background(), u, today)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestNewPredicates_NoManualEntry(t *testing.T) {
	preds := NewPredicates(nil, nil, nil, nil)
	assert.Len(t, preds, 4)
	_, ok := preds[model.HabitManual]
	assert.False(t, ok)
}
