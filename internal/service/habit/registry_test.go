package habit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitz/internal/model"
)

func TestEnsureSingleton_CreatesOnce(t *testing.T) {
	registry := NewRegistry(newFakeHabitStore(), zap.NewNop())

	first, err := registry.EnsureSingleton(context.Background(), 1, model.HabitWorkout)
	require.NoError(t, err)
	assert.Equal(t, "Work out", first.Name)
	assert.Equal(t, model.HabitWorkout, first.HabitType)

	second, err := registry.EnsureSingleton(context.Background(), 1, model.HabitWorkout)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureSingleton_PerUser(t *testing.T) {
	registry := NewRegistry(newFakeHabitStore(), zap.NewNop())

	a, err := registry.EnsureSingleton(context.Background(), 1, model.HabitFasting)
	require.NoError(t, err)
	b, err := registry.EnsureSingleton(context.Background(), 2, model.HabitFasting)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEnsureSingleton_RejectsManualAndUnknown(t *testing.T) {
	registry := NewRegistry(newFakeHabitStore(), zap.NewNop())

	_, err := registry.EnsureSingleton(context.Background(), 1, model.HabitManual)
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = registry.EnsureSingleton(context.Background(), 1, model.HabitType("sleep"))
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestEnsureSingleton_RecreatableAfterArchive(t *testing.T) {
	store := newFakeHabitStore()
	registry := NewRegistry(store, zap.NewNop())

	first, err := registry.EnsureSingleton(context.Background(), 1, model.HabitCalories)
	require.NoError(t, err)
	require.NoError(t, registry.Archive(context.Background(), 1, first.ID))

	second, err := registry.EnsureSingleton(context.Background(), 1, model.HabitCalories)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestQuickAddLinked(t *testing.T) {
	registry := NewRegistry(newFakeHabitStore(), zap.NewNop())

	habits, err := registry.QuickAddLinked(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, habits, 4)

	types := make(map[model.HabitType]int)
	for _, h := range habits {
		types[h.HabitType] = h.ID
	}
	assert.Len(t, types, 4)

	// repeat call returns the same habits instead of duplicating
	again, err := registry.QuickAddLinked(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, again, 4)
	for _, h := range again {
		assert.Equal(t, types[h.HabitType], h.ID)
	}
}

func TestCreateManual_FillsDefaults(t *testing.T) {
	registry := NewRegistry(newFakeHabitStore(), zap.NewNop())

	h := &model.Habit{Name: "Read 20 pages"}
	require.NoError(t, registry.CreateManual(context.Background(), 1, h))

	assert.Equal(t, model.HabitManual, h.HabitType)
	assert.Equal(t, "✓", h.Icon)
	assert.Equal(t, "#4A90E2", h.Color)
	assert.NotZero(t, h.ID)
}

func TestUpdate_TypeNotEditable(t *testing.T) {
	store := newFakeHabitStore()
	registry := NewRegistry(store, zap.NewNop())

	h := &model.Habit{Name: "Read"}
	require.NoError(t, registry.CreateManual(context.Background(), 1, h))

	edit := &model.Habit{ID: h.ID, Name: "Read more", HabitType: model.HabitWorkout}
	require.NoError(t, registry.Update(context.Background(), 1, edit))

	saved, err := registry.Get(context.Background(), 1, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read more", saved.Name)
	assert.Equal(t, model.HabitManual, saved.HabitType)
}

func TestGet_OtherUsersHabit(t *testing.T) {
	registry := NewRegistry(newFakeHabitStore(), zap.NewNop())

	h := &model.Habit{Name: "Read"}
	require.NoError(t, registry.CreateManual(context.Background(), 1, h))

	_, err := registry.Get(context.Background(), 2, h.ID)
	assert.ErrorIs(t, err, ErrHabitNotFound)
}
