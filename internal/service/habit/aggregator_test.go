package habit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitz/internal/model"
)

type fakeHabitStore struct {
	nextID int
	habits map[int]*model.Habit
}

func newFakeHabitStore() *fakeHabitStore {
	return &fakeHabitStore{nextID: 1, habits: make(map[int]*model.Habit)}
}

func (f *fakeHabitStore) Insert(_ context.Context, h *model.Habit) error {
	h.ID = f.nextID
	f.nextID++
	h.Active = true
	cp := *h
	f.habits[h.ID] = &cp
	return nil
}

func (f *fakeHabitStore) InsertLinkedIfAbsent(_ context.Context, h *model.Habit) (bool, error) {
	for _, existing := range f.habits {
		if existing.UserID == h.UserID && existing.HabitType == h.HabitType && existing.Active {
			return false, nil
		}
	}
	h.ID = f.nextID
	f.nextID++
	h.Active = true
	cp := *h
	f.habits[h.ID] = &cp
	return true, nil
}

func (f *fakeHabitStore) FindActiveByType(_ context.Context, userID int, habitType model.HabitType) (*model.Habit, error) {
	for _, h := range f.habits {
		if h.UserID == userID && h.HabitType == habitType && h.Active {
			cp := *h
			return &cp, nil
		}
	}
	return nil, errors.New("no rows")
}

func (f *fakeHabitStore) FindByID(_ context.Context, id int) (*model.Habit, error) {
	h, ok := f.habits[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	cp := *h
	return &cp, nil
}

func (f *fakeHabitStore) ListActiveByUser(_ context.Context, userID int) ([]model.Habit, error) {
	var out []model.Habit
	for id := 1; id < f.nextID; id++ {
		if h, ok := f.habits[id]; ok && h.UserID == userID && h.Active {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeHabitStore) Update(_ context.Context, h *model.Habit) error {
	existing, ok := f.habits[h.ID]
	if !ok {
		return errors.New("no rows")
	}
	h.Active = existing.Active
	cp := *h
	f.habits[h.ID] = &cp
	return nil
}

func (f *fakeHabitStore) Archive(_ context.Context, id int) error {
	h, ok := f.habits[id]
	if !ok {
		return errors.New("no rows")
	}
	h.Active = false
	return nil
}

type fakeCompletionStore struct {
	records map[int]map[time.Time]bool
	owners  map[int]int
}

func newFakeCompletionStore() *fakeCompletionStore {
	return &fakeCompletionStore{
		records: make(map[int]map[time.Time]bool),
		owners:  make(map[int]int),
	}
}

func (f *fakeCompletionStore) IsDone(_ context.Context, habitID int, day time.Time) (bool, error) {
	return f.records[habitID][day], nil
}

func (f *fakeCompletionStore) Upsert(_ context.Context, habitID, userID int, day time.Time, done bool) error {
	if f.records[habitID] == nil {
		f.records[habitID] = make(map[time.Time]bool)
	}
	f.records[habitID][day] = done
	f.owners[habitID] = userID
	return nil
}

func (f *fakeCompletionStore) Toggle(_ context.Context, habitID, userID int, day time.Time) (bool, error) {
	if f.records[habitID] == nil {
		f.records[habitID] = make(map[time.Time]bool)
	}
	f.records[habitID][day] = !f.records[habitID][day]
	f.owners[habitID] = userID
	return f.records[habitID][day], nil
}

func (f *fakeCompletionStore) DoneDays(_ context.Context, habitID int, from, to time.Time) (map[time.Time]bool, error) {
	out := make(map[time.Time]bool)
	for day, done := range f.records[habitID] {
		if done && !day.Before(from) && !day.After(to) {
			out[day] = true
		}
	}
	return out, nil
}

func (f *fakeCompletionStore) RecordsForRange(_ context.Context, userID int, from, to time.Time) (map[int]map[time.Time]bool, error) {
	out := make(map[int]map[time.Time]bool)
	for habitID, days := range f.records {
		if f.owners[habitID] != userID {
			continue
		}
		for day, done := range days {
			if day.Before(from) || day.After(to) {
				continue
			}
			if out[habitID] == nil {
				out[habitID] = make(map[time.Time]bool)
			}
			out[habitID][day] = done
		}
	}
	return out, nil
}

// stubPredicate reports a fixed set of done days.
type stubPredicate struct {
	doneDays map[time.Time]bool
}

func (p *stubPredicate) IsDone(_ context.Context, _ *model.User, day time.Time) (bool, error) {
	return p.doneDays[day], nil
}

func testUser() *model.User {
	return &model.User{
		ID:               1,
		Timezone:         "UTC",
		DailyCalorieGoal: 2000,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailySummary_CountsAndPct(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10)

	manual1 := &model.Habit{UserID: u.ID, Name: "Read", HabitType: model.HabitManual}
	manual2 := &model.Habit{UserID: u.ID, Name: "Meditate", HabitType: model.HabitManual}
	linked := &model.Habit{UserID: u.ID, Name: "Work out", HabitType: model.HabitWorkout}
	require.NoError(t, habits.Insert(context.Background(), manual1))
	require.NoError(t, habits.Insert(context.Background(), manual2))
	require.NoError(t, habits.Insert(context.Background(), linked))

	require.NoError(t, completions.Upsert(context.Background(), manual1.ID, u.ID, today, true))

	workout := &stubPredicate{doneDays: map[time.Time]bool{today: true}}
	agg := NewAggregator(habits, completions, map[model.HabitType]Predicate{
		model.HabitWorkout: workout,
	}, zap.NewNop())

	summary, err := agg.DailySummary(context.Background(), u, today)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 67, summary.Pct)
	assert.Equal(t, "2025-09-10", summary.Date)

	// the linked habit's result was written through to the record
	cached, err := completions.IsDone(context.Background(), linked.ID, today)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestDailySummary_NoHabits(t *testing.T) {
	agg := NewAggregator(newFakeHabitStore(), newFakeCompletionStore(), nil, zap.NewNop())

	summary, err := agg.DailySummary(context.Background(), testUser(), day(2025, 9, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Pct)
}

func TestDailySummary_RefreshesStaleCache(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10)

	linked := &model.Habit{UserID: u.ID, Name: "Work out", HabitType: model.HabitWorkout}
	require.NoError(t, habits.Insert(context.Background(), linked))

	workout := &stubPredicate{doneDays: map[time.Time]bool{}}
	agg := NewAggregator(habits, completions, map[model.HabitType]Predicate{
		model.HabitWorkout: workout,
	}, zap.NewNop())

	summary, err := agg.DailySummary(context.Background(), u, today)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Completed)

	// tracker data changed; the next summary must pick it up
	workout.doneDays[today] = true

	summary, err = agg.DailySummary(context.Background(), u, today)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Completed)

	cached, err := completions.IsDone(context.Background(), linked.ID, today)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestDailySummary_Idempotent(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10)

	manual := &model.Habit{UserID: u.ID, Name: "Read", HabitType: model.HabitManual}
	linked := &model.Habit{UserID: u.ID, Name: "Work out", HabitType: model.HabitWorkout}
	require.NoError(t, habits.Insert(context.Background(), manual))
	require.NoError(t, habits.Insert(context.Background(), linked))
	require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, today, true))

	workout := &stubPredicate{doneDays: map[time.Time]bool{today: true}}
	agg := NewAggregator(habits, completions, map[model.HabitType]Predicate{
		model.HabitWorkout: workout,
	}, zap.NewNop())

	// nothing changes between calls, so the summaries must match exactly
	first, err := agg.DailySummary(context.Background(), u, today)
	require.NoError(t, err)
	second, err := agg.DailySummary(context.Background(), u, today)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestToggleManual(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10)

	manual := &model.Habit{UserID: u.ID, Name: "Read", HabitType: model.HabitManual}
	require.NoError(t, habits.Insert(context.Background(), manual))

	agg := NewAggregator(habits, completions, nil, zap.NewNop())

	done, err := agg.ToggleManual(context.Background(), u, manual.ID, today)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = agg.ToggleManual(context.Background(), u, manual.ID, today)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestToggleManual_RejectsLinked(t *testing.T) {
	habits := newFakeHabitStore()
	u := testUser()

	linked := &model.Habit{UserID: u.ID, Name: "Work out", HabitType: model.HabitWorkout}
	require.NoError(t, habits.Insert(context.Background(), linked))

	agg := NewAggregator(habits, newFakeCompletionStore(), nil, zap.NewNop())

	_, err := agg.ToggleManual(context.Background(), u, linked.ID, day(2025, 9, 10))
	assert.ErrorIs(t, err, ErrNotManual)
}

func TestToggleManual_OtherUsersHabit(t *testing.T) {
	habits := newFakeHabitStore()

	other := &model.Habit{UserID: 99, Name: "Read", HabitType: model.HabitManual}
	require.NoError(t, habits.Insert(context.Background(), other))

	agg := NewAggregator(habits, newFakeCompletionStore(), nil, zap.NewNop())

	_, err := agg.ToggleManual(context.Background(), testUser(), other.ID, day(2025, 9, 10))
	assert.ErrorIs(t, err, ErrHabitNotFound)

	_, err = agg.ToggleManual(context.Background(), testUser(), 12345, day(2025, 9, 10))
	assert.ErrorIs(t, err, ErrHabitNotFound)
}

func TestStreak(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10)

	manual := &model.Habit{UserID: u.ID, Name: "Read", HabitType: model.HabitManual}
	require.NoError(t, habits.Insert(context.Background(), manual))

	for i := 1; i <= 3; i++ {
		require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, today.AddDate(0, 0, -i), true))
	}

	agg := NewAggregator(habits, completions, nil, zap.NewNop())

	// today not done yet: the run ending yesterday still counts
	streak, err := agg.Streak(context.Background(), manual.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, today, true))
	streak, err = agg.Streak(context.Background(), manual.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 4, streak)
}

func TestStreak_BrokenRun(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10)

	manual := &model.Habit{UserID: u.ID, Name: "Read", HabitType: model.HabitManual}
	require.NoError(t, habits.Insert(context.Background(), manual))

	// done today and three days ago, gap in between
	require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, today, true))
	require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, today.AddDate(0, 0, -3), true))

	agg := NewAggregator(habits, completions, nil, zap.NewNop())

	streak, err := agg.Streak(context.Background(), manual.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestStreak_LongerThanOneWindow(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10)

	manual := &model.Habit{UserID: u.ID, Name: "Read", HabitType: model.HabitManual}
	require.NoError(t, habits.Insert(context.Background(), manual))

	// a run past the query window, then a gap, then an older done day
	for i := 0; i < streakWindow+10; i++ {
		require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, today.AddDate(0, 0, -i), true))
	}
	require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, today.AddDate(0, 0, -(streakWindow+12)), true))

	agg := NewAggregator(habits, completions, nil, zap.NewNop())

	streak, err := agg.Streak(context.Background(), manual.ID, today)
	require.NoError(t, err)
	assert.Equal(t, streakWindow+10, streak)
}

func TestWeekly_TrailingSevenDays(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10) // a Wednesday

	manual := &model.Habit{UserID: u.ID, Name: "Read", HabitType: model.HabitManual}
	require.NoError(t, habits.Insert(context.Background(), manual))
	require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, today.AddDate(0, 0, -2), true))

	agg := NewAggregator(habits, completions, nil, zap.NewNop())

	days, err := agg.Weekly(context.Background(), u, today)
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Equal(t, "2025-09-04", days[0].Date)
	assert.Equal(t, "Thu", days[0].Label)
	assert.Equal(t, "2025-09-10", days[6].Date)
	assert.Equal(t, "Wed", days[6].Label)

	assert.Equal(t, 1, days[4].Completed) // Sep 8
	assert.Equal(t, 0, days[6].Completed)
}

func TestMonthly_ReadsCacheAndMasksFuture(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10)

	manual := &model.Habit{UserID: u.ID, Name: "Read", HabitType: model.HabitManual}
	require.NoError(t, habits.Insert(context.Background(), manual))

	require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, day(2025, 9, 5), true))
	// a stray record on a future date must not show up
	require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, day(2025, 9, 20), true))

	agg := NewAggregator(habits, completions, nil, zap.NewNop())

	days, err := agg.Monthly(context.Background(), u, 2025, time.September, today)
	require.NoError(t, err)
	require.Len(t, days, 30)

	// September 1st 2025 is a Monday
	assert.Equal(t, 0, days[0].WeekdayOffset)
	assert.Equal(t, 1, days[0].Day)

	assert.Equal(t, 1, days[4].Completed)
	assert.Equal(t, 100, days[4].Pct)

	assert.False(t, days[9].Future)
	assert.True(t, days[10].Future)
	assert.Equal(t, 0, days[19].Completed)
	assert.True(t, days[19].Future)
}

func TestMonthly_ThirtyDayMonthStartingWednesday(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2026, 4, 15)

	manual := &model.Habit{UserID: u.ID, Name: "Read", HabitType: model.HabitManual}
	require.NoError(t, habits.Insert(context.Background(), manual))
	require.NoError(t, completions.Upsert(context.Background(), manual.ID, u.ID, day(2026, 4, 3), true))

	agg := NewAggregator(habits, completions, nil, zap.NewNop())

	days, err := agg.Monthly(context.Background(), u, 2026, time.April, today)
	require.NoError(t, err)
	require.Len(t, days, 30)

	// April 1st 2026 is a Wednesday
	assert.Equal(t, 2, days[0].WeekdayOffset)
	assert.Equal(t, 1, days[4].Completed)
	assert.False(t, days[14].Future)
	assert.True(t, days[15].Future)
}

func TestMonthly_DoesNotRunPredicates(t *testing.T) {
	habits := newFakeHabitStore()
	completions := newFakeCompletionStore()
	u := testUser()
	today := day(2025, 9, 10)

	linked := &model.Habit{UserID: u.ID, Name: "Work out", HabitType: model.HabitWorkout}
	require.NoError(t, habits.Insert(context.Background(), linked))
	require.NoError(t, completions.Upsert(context.Background(), linked.ID, u.ID, day(2025, 9, 3), true))

	// no predicates wired; Monthly must answer from records alone
	agg := NewAggregator(habits, completions, nil, zap.NewNop())

	days, err := agg.Monthly(context.Background(), u, 2025, time.September, today)
	require.NoError(t, err)
	assert.Equal(t, 1, days[2].Completed)
}
