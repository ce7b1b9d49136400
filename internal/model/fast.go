package model

import "time"

// Fast is one fasting window. Completed is only ever set by an explicit stop
// with enough elapsed time; it is never derived from the clock after the fact.
type Fast struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	StartedAt   time.Time  `json:"started_at"`
	TargetHours int        `json:"target_hours"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Completed   bool       `json:"completed"`
	Note        string     `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Active reports whether the fast is still running.
func (f *Fast) Active() bool {
	return f.EndedAt == nil
}

// DurationSeconds is the elapsed time of the fast, up to now when still active.
func (f *Fast) DurationSeconds(now time.Time) float64 {
	end := now
	if f.EndedAt != nil {
		end = *f.EndedAt
	}
	return end.Sub(f.StartedAt).Seconds()
}

func (f *Fast) TargetSeconds() float64 {
	return float64(f.TargetHours) * 3600
}

// ProgressPct is capped at 100.
func (f *Fast) ProgressPct(now time.Time) float64 {
	target := f.TargetSeconds()
	if target == 0 {
		return 100
	}
	pct := f.DurationSeconds(now) / target * 100
	if pct > 100 {
		return 100
	}
	return pct
}
