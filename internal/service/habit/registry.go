package habit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"habitz/internal/model"
)

type HabitStore interface {
	Insert(ctx context.Context, h *model.Habit) error
	InsertLinkedIfAbsent(ctx context.Context, h *model.Habit) (bool, error)
	FindActiveByType(ctx context.Context, userID int, habitType model.HabitType) (*model.Habit, error)
	FindByID(ctx context.Context, id int) (*model.Habit, error)
	ListActiveByUser(ctx context.Context, userID int) ([]model.Habit, error)
	Update(ctx context.Context, h *model.Habit) error
	Archive(ctx context.Context, id int) error
}

type CompletionStore interface {
	IsDone(ctx context.Context, habitID int, day time.Time) (bool, error)
	Upsert(ctx context.Context, habitID, userID int, day time.Time, done bool) error
	Toggle(ctx context.Context, habitID, userID int, day time.Time) (bool, error)
	DoneDays(ctx context.Context, habitID int, from, to time.Time) (map[time.Time]bool, error)
	RecordsForRange(ctx context.Context, userID int, from, to time.Time) (map[int]map[time.Time]bool, error)
}

// linkedDefaults are the display defaults for the four app-linked habits.
var linkedDefaults = []model.Habit{
	{Name: "Work out", HabitType: model.HabitWorkout, Icon: "🏋️", Color: "#E2844A"},
	{Name: "Hit calorie goal", HabitType: model.HabitCalories, Icon: "🔥", Color: "#E2C44A"},
	{Name: "Complete a fast", HabitType: model.HabitFasting, Icon: "⏱️", Color: "#4AE2B4"},
	{Name: "Plan meals", HabitType: model.HabitMeals, Icon: "🍽️", Color: "#4A90E2"},
}

// Registry owns the set of habit definitions a user tracks.
type Registry struct {
	habits HabitStore
	logger *zap.Logger
}

func NewRegistry(habits HabitStore, logger *zap.Logger) *Registry {
	return &Registry{
		habits: habits,
		logger: logger,
	}
}

// Active returns the user's non-archived habits in dashboard order.
func (r *Registry) Active(ctx context.Context, userID int) ([]model.Habit, error) {
	return r.habits.ListActiveByUser(ctx, userID)
}

// EnsureSingleton returns the user's active habit of an app-linked type,
// creating it when absent. The insert races through the storage-level unique
// index, so two concurrent first-use requests converge on one definition:
// the loser of the insert just reads back the winner's row.
func (r *Registry) EnsureSingleton(ctx context.Context, userID int, habitType model.HabitType) (*model.Habit, error) {
	if habitType == model.HabitManual || !habitType.Valid() {
		return nil, ErrInvalidType
	}

	h := defaultsFor(habitType)
	h.UserID = userID

	inserted, err := r.habits.InsertLinkedIfAbsent(ctx, &h)
	if err != nil {
		return nil, err
	}
	if inserted {
		r.logger.Info("Created app-linked habit",
			zap.Int("user_id", userID),
			zap.String("habit_type", string(habitType)),
			zap.Int("habit_id", h.ID),
		)
		return &h, nil
	}

	return r.habits.FindActiveByType(ctx, userID, habitType)
}

// QuickAddLinked creates whichever of the four app-linked habits the user
// doesn't have yet and returns the user's resulting set of them.
func (r *Registry) QuickAddLinked(ctx context.Context, userID int) ([]model.Habit, error) {
	var habits []model.Habit
	for i, def := range linkedDefaults {
		h := def
		h.UserID = userID
		h.SortOrder = i
		inserted, err := r.habits.InsertLinkedIfAbsent(ctx, &h)
		if err != nil {
			return nil, err
		}
		if !inserted {
			existing, err := r.habits.FindActiveByType(ctx, userID, def.HabitType)
			if err != nil {
				return nil, err
			}
			h = *existing
		}
		habits = append(habits, h)
	}
	return habits, nil
}

// CreateManual creates a user-defined habit. Manual habits are unconstrained:
// a user can track as many as they like.
func (r *Registry) CreateManual(ctx context.Context, userID int, h *model.Habit) error {
	h.UserID = userID
	h.HabitType = model.HabitManual
	if h.Icon == "" {
		h.Icon = "✓"
	}
	if h.Color == "" {
		h.Color = "#4A90E2"
	}
	return r.habits.Insert(ctx, h)
}

// Get returns a habit after checking it belongs to the caller.
func (r *Registry) Get(ctx context.Context, userID, habitID int) (*model.Habit, error) {
	h, err := r.habits.FindByID(ctx, habitID)
	if err != nil {
		return nil, ErrHabitNotFound
	}
	if h.UserID != userID {
		return nil, ErrHabitNotFound
	}
	return h, nil
}

// Update persists edits to a habit the caller owns. The type is not
// editable; flipping a manual habit to an app-linked type would bypass the
// singleton constraint.
func (r *Registry) Update(ctx context.Context, userID int, h *model.Habit) error {
	existing, err := r.Get(ctx, userID, h.ID)
	if err != nil {
		return err
	}
	h.UserID = existing.UserID
	h.HabitType = existing.HabitType
	return r.habits.Update(ctx, h)
}

// Archive soft-deletes a habit the caller owns, keeping completion history.
func (r *Registry) Archive(ctx context.Context, userID, habitID int) error {
	if _, err := r.Get(ctx, userID, habitID); err != nil {
		return err
	}
	return r.habits.Archive(ctx, habitID)
}

func defaultsFor(habitType model.HabitType) model.Habit {
	for _, def := range linkedDefaults {
		if def.HabitType == habitType {
			return def
		}
	}
	// unreachable for valid types; EnsureSingleton rejects the rest
	return model.Habit{HabitType: habitType}
}
