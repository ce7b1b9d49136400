package fasting

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/mq"
	"habitz/internal/util"
)

var (
	ErrFastActive   = errors.New("a fast is already running")
	ErrNoActiveFast = errors.New("no active fast")
)

type FastStore interface {
	Insert(ctx context.Context, f *model.Fast) error
	FindByID(ctx context.Context, id int) (*model.Fast, error)
	ActiveFast(ctx context.Context, userID int) (*model.Fast, error)
	End(ctx context.Context, id int, endedAt time.Time, completed bool) error
	ListByUser(ctx context.Context, userID int, limit int) ([]model.Fast, error)
	ListStartedBetween(ctx context.Context, userID int, from, to time.Time) ([]model.Fast, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Service struct {
	fasts     FastStore
	publisher EventPublisher
	logger    *zap.Logger
}

func NewService(fasts FastStore, publisher EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		fasts:     fasts,
		publisher: publisher,
		logger:    logger,
	}
}

// Start opens a fast at now. Target defaults to the user's configured hours.
func (s *Service) Start(ctx context.Context, user *model.User, targetHours int, note string, now time.Time) (*model.Fast, error) {
	if _, err := s.fasts.ActiveFast(ctx, user.ID); err == nil {
		return nil, ErrFastActive
	}

	if targetHours <= 0 {
		targetHours = user.DefaultFastHours
	}
	fast := &model.Fast{
		UserID:      user.ID,
		StartedAt:   now,
		TargetHours: targetHours,
		Note:        note,
	}
	if err := s.fasts.Insert(ctx, fast); err != nil {
		return nil, err
	}
	return fast, nil
}

// Stop ends the running fast. Completed is decided here, once, from the
// elapsed time at the moment the user stops — the clock never promotes a
// fast to completed on its own.
func (s *Service) Stop(ctx context.Context, user *model.User, now time.Time) (*model.Fast, error) {
	fast, err := s.fasts.ActiveFast(ctx, user.ID)
	if err != nil {
		return nil, ErrNoActiveFast
	}

	completed := fast.DurationSeconds(now) >= fast.TargetSeconds()
	if err := s.fasts.End(ctx, fast.ID, now, completed); err != nil {
		return nil, err
	}
	fast.EndedAt = &now
	fast.Completed = completed

	s.logger.Info("Fast stopped",
		zap.Int("fast_id", fast.ID),
		zap.Int("user_id", user.ID),
		zap.Bool("completed", completed),
	)

	if completed && s.publisher != nil {
		payload := mq.FastCompletedPayload{
			FastID:  fast.ID,
			UserID:  user.ID,
			Hours:   fast.DurationSeconds(now) / 3600,
			EndedAt: now,
		}
		if err := s.publisher.Publish(ctx, mq.RoutingKeyFastCompleted, payload); err != nil {
			s.logger.Error("Failed to publish fast.completed",
				zap.Int("fast_id", fast.ID),
				zap.Error(err),
			)
		}
	}

	return fast, nil
}

// Current returns the running fast, or ErrNoActiveFast.
func (s *Service) Current(ctx context.Context, user *model.User) (*model.Fast, error) {
	fast, err := s.fasts.ActiveFast(ctx, user.ID)
	if err != nil {
		return nil, ErrNoActiveFast
	}
	return fast, nil
}

// History lists the user's finished fasts, newest first.
func (s *Service) History(ctx context.Context, user *model.User, limit int) ([]model.Fast, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.fasts.ListByUser(ctx, user.ID, limit)
}

// DayProgress is one day of a fasting progress view.
type DayProgress struct {
	Date          string  `json:"date"`
	Label         string  `json:"label,omitempty"`
	Day           int     `json:"day,omitempty"`
	WeekdayOffset int     `json:"weekday"`
	Hours         float64 `json:"hours"`
	Target        int     `json:"target"`
	Progress      float64 `json:"progress"`
	Exceeded      bool    `json:"exceeded"`
}

// WeeklyProgress returns per-day fasted hours for the Monday-based week
// containing anchor. Fasts are bucketed by the local date they started.
func (s *Service) WeeklyProgress(ctx context.Context, user *model.User, anchor time.Time) ([]DayProgress, error) {
	anchor = util.Midnight(anchor)
	monday := anchor.AddDate(0, 0, -util.WeekdayOffset(anchor))

	fasts, err := s.fasts.ListStartedBetween(ctx, user.ID, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	byDay := s.bucketByStartDay(user, fasts)

	target := user.DefaultFastHours
	days := make([]DayProgress, 0, 7)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		p := s.dayProgress(day, byDay[day], target)
		p.Label = day.Format("Mon")
		days = append(days, p)
	}
	return days, nil
}

// MonthlyProgress returns per-day fasted hours for every day of the month.
func (s *Service) MonthlyProgress(ctx context.Context, user *model.User, year int, month time.Month) ([]DayProgress, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	fasts, err := s.fasts.ListStartedBetween(ctx, user.ID, first, next)
	if err != nil {
		return nil, err
	}
	byDay := s.bucketByStartDay(user, fasts)

	target := user.DefaultFastHours
	days := make([]DayProgress, 0, util.DaysInMonth(year, month))
	for d := 1; d <= util.DaysInMonth(year, month); d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		p := s.dayProgress(day, byDay[day], target)
		p.Day = d
		days = append(days, p)
	}
	return days, nil
}

func (s *Service) bucketByStartDay(user *model.User, fasts []model.Fast) map[time.Time][]model.Fast {
	byDay := make(map[time.Time][]model.Fast)
	for _, f := range fasts {
		day := util.LocalDate(user.Timezone, f.StartedAt)
		byDay[day] = append(byDay[day], f)
	}
	return byDay
}

func (s *Service) dayProgress(day time.Time, fasts []model.Fast, target int) DayProgress {
	var hours float64
	for _, f := range fasts {
		// finished fasts only reach here; EndedAt is always set
		hours += f.DurationSeconds(*f.EndedAt) / 3600
	}

	progress := 0.0
	if target > 0 {
		progress = hours / float64(target)
		if progress > 1 {
			progress = 1
		}
	}
	return DayProgress{
		Date:          day.Format(util.DateLayout),
		WeekdayOffset: util.WeekdayOffset(day),
		Hours:         util.Round1(hours),
		Target:        target,
		Progress:      progress,
		Exceeded:      hours > float64(target),
	}
}
