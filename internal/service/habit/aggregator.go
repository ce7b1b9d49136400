package habit

import (
	"context"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/util"
	"habitz/pkg/metrics"
)

// HabitStatus is one habit's state within a day summary.
type HabitStatus struct {
	ID        int             `json:"id"`
	HabitType model.HabitType `json:"habit_type"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Color     string          `json:"color"`
	Done      bool            `json:"done"`
	Streak    int             `json:"streak,omitempty"`
}

// DaySummary is the canonical per-day completion result.
type DaySummary struct {
	Date      string        `json:"date"`
	Label     string        `json:"label,omitempty"`
	Habits    []HabitStatus `json:"habits"`
	Completed int           `json:"completed"`
	Total     int           `json:"total"`
	Pct       int           `json:"pct"`
}

// MonthDay is one cell of the monthly calendar.
type MonthDay struct {
	Date          string `json:"date"`
	Day           int    `json:"day"`
	WeekdayOffset int    `json:"weekday"` // Monday = 0
	Future        bool   `json:"future"`
	Completed     int    `json:"completed"`
	Total         int    `json:"total"`
	Pct           int    `json:"pct"`
}

// Aggregator produces per-day completion summaries and the rollups built on
// them. For app-linked habits it is a write-through cache refresher: each
// summary recomputes the predicate and upserts the completion record, so the
// record is always rebuildable from tracker data and never load-bearing.
type Aggregator struct {
	habits      HabitStore
	completions CompletionStore
	predicates  map[model.HabitType]Predicate
	logger      *zap.Logger
}

func NewAggregator(
	habits HabitStore,
	completions CompletionStore,
	predicates map[model.HabitType]Predicate,
	logger *zap.Logger,
) *Aggregator {
	return &Aggregator{
		habits:      habits,
		completions: completions,
		predicates:  predicates,
		logger:      logger,
	}
}

// DailySummary synchronizes and reports the user's habits for one date.
func (a *Aggregator) DailySummary(ctx context.Context, user *model.User, day time.Time) (*DaySummary, error) {
	return a.summarize(ctx, user, day, true)
}

func (a *Aggregator) summarize(ctx context.Context, user *model.User, day time.Time, withStreaks bool) (*DaySummary, error) {
	day = util.Midnight(day)

	habits, err := a.habits.ListActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{
		Date:   day.Format(util.DateLayout),
		Habits: make([]HabitStatus, 0, len(habits)),
	}

	for _, h := range habits {
		done, err := a.resolve(ctx, user, &h, day)
		if err != nil {
			return nil, err
		}

		status := HabitStatus{
			ID:        h.ID,
			HabitType: h.HabitType,
			Name:      h.Name,
			Icon:      h.Icon,
			Color:     h.Color,
			Done:      done,
		}
		if withStreaks {
			streak, err := a.Streak(ctx, h.ID, day)
			if err != nil {
				return nil, err
			}
			status.Streak = streak
		}

		if done {
			summary.Completed++
		}
		summary.Habits = append(summary.Habits, status)
	}

	summary.Total = len(summary.Habits)
	summary.Pct = pct(summary.Completed, summary.Total)
	return summary, nil
}

// resolve returns a habit's done state for the date. Manual habits read the
// completion record directly; it is the source of truth. App-linked habits
// run their tracker predicate and refresh the cached record with the result.
func (a *Aggregator) resolve(ctx context.Context, user *model.User, h *model.Habit, day time.Time) (bool, error) {
	if h.HabitType == model.HabitManual {
		return a.completions.IsDone(ctx, h.ID, day)
	}

	pred, ok := a.predicates[h.HabitType]
	if !ok {
		a.logger.Warn("No predicate for habit type",
			zap.String("habit_type", string(h.HabitType)),
			zap.Int("habit_id", h.ID),
		)
		return false, nil
	}

	done, err := pred.IsDone(ctx, user, day)
	if err != nil {
		return false, err
	}

	if err := a.completions.Upsert(ctx, h.ID, user.ID, day, done); err != nil {
		return false, err
	}
	metrics.HabitSyncTotal.WithLabelValues(string(h.HabitType), strconv.FormatBool(done)).Inc()

	return done, nil
}

// Weekly returns summaries for the trailing 7 days ending at today, oldest
// first, each labeled with its weekday abbreviation.
func (a *Aggregator) Weekly(ctx context.Context, user *model.User, today time.Time) ([]DaySummary, error) {
	today = util.Midnight(today)
	summaries := make([]DaySummary, 0, 7)

	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		s, err := a.summarize(ctx, user, day, false)
		if err != nil {
			return nil, err
		}
		s.Label = day.Format("Mon")
		summaries = append(summaries, *s)
	}
	return summaries, nil
}

// Monthly returns a calendar cell for every day of the month. It reads the
// completion records in one range query instead of re-running predicates;
// keeping that query cheap is why DailySummary writes the cache through.
// Days after today are reported as not done no matter what rows exist:
// future dates haven't been evaluated, whatever a stray record claims.
func (a *Aggregator) Monthly(ctx context.Context, user *model.User, year int, month time.Month, today time.Time) ([]MonthDay, error) {
	today = util.Midnight(today)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	habits, err := a.habits.ListActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	records, err := a.completions.RecordsForRange(ctx, user.ID, first, last)
	if err != nil {
		return nil, err
	}

	days := make([]MonthDay, 0, last.Day())
	for d := 1; d <= last.Day(); d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		cell := MonthDay{
			Date:          day.Format(util.DateLayout),
			Day:           d,
			WeekdayOffset: util.WeekdayOffset(day),
			Future:        day.After(today),
			Total:         len(habits),
		}

		if !cell.Future {
			for _, h := range habits {
				if records[h.ID][day] {
					cell.Completed++
				}
			}
		}
		cell.Pct = pct(cell.Completed, cell.Total)
		days = append(days, cell)
	}
	return days, nil
}

// ToggleManual atomically flips a manual habit's state for the date and
// returns the new value. App-linked habits are rejected: their records are
// caches owned by the predicates, and a user toggle would be overwritten by
// the next dashboard render anyway.
func (a *Aggregator) ToggleManual(ctx context.Context, user *model.User, habitID int, day time.Time) (bool, error) {
	h, err := a.habits.FindByID(ctx, habitID)
	if err != nil {
		return false, ErrHabitNotFound
	}
	if h.UserID != user.ID {
		return false, ErrHabitNotFound
	}
	if h.HabitType != model.HabitManual {
		return false, ErrNotManual
	}

	done, err := a.completions.Toggle(ctx, habitID, user.ID, util.Midnight(day))
	if err != nil {
		return false, err
	}

	a.logger.Debug("Toggled manual habit",
		zap.Int("habit_id", habitID),
		zap.Int("user_id", user.ID),
		zap.Bool("done", done),
	)
	return done, nil
}

// streakWindow is how many days each streak query covers. Runs longer than
// one window keep walking backward a window at a time.
const streakWindow = 90

// Streak counts consecutive done days ending at day. A day not yet done
// doesn't break the run; the walk then starts from the day before.
func (a *Aggregator) Streak(ctx context.Context, habitID int, day time.Time) (int, error) {
	cursor := util.Midnight(day)
	streak := 0

	for first := true; ; first = false {
		from := cursor.AddDate(0, 0, -(streakWindow - 1))
		done, err := a.completions.DoneDays(ctx, habitID, from, cursor)
		if err != nil {
			return 0, err
		}

		if first && !done[cursor] {
			cursor = cursor.AddDate(0, 0, -1)
		}
		for !cursor.Before(from) && done[cursor] {
			streak++
			cursor = cursor.AddDate(0, 0, -1)
		}
		if !cursor.Before(from) {
			return streak, nil
		}
	}
}

func pct(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
