package habit

import "errors"

var (
	// ErrNotManual is returned when a toggle targets an app-linked habit.
	// App-linked completion is owned by the tracker predicates, not the user.
	ErrNotManual = errors.New("only manual habits can be toggled")

	// ErrHabitNotFound covers both a missing id and an id owned by another
	// user; callers cannot tell the two apart.
	ErrHabitNotFound = errors.New("habit not found")

	// ErrInvalidType is returned for unknown habit types or for asking the
	// singleton machinery to manage a manual habit.
	ErrInvalidType = errors.New("invalid habit type")
)
