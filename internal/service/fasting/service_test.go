package fasting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/mq"
)

type fakeFastStore struct {
	nextID int
	fasts  map[int]*model.Fast
}

func newFakeFastStore() *fakeFastStore {
	return &fakeFastStore{nextID: 1, fasts: make(map[int]*model.Fast)}
}

func (f *fakeFastStore) Insert(_ context.Context, fast *model.Fast) error {
	fast.ID = f.nextID
	f.nextID++
	cp := *fast
	f.fasts[fast.ID] = &cp
	return nil
}

func (f *fakeFastStore) FindByID(_ context.Context, id int) (*model.Fast, error) {
	fast, ok := f.fasts[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	cp := *fast
	return &cp, nil
}

func (f *fakeFastStore) ActiveFast(_ context.Context, userID int) (*model.Fast, error) {
	for _, fast := range f.fasts {
		if fast.UserID == userID && fast.EndedAt == nil {
			cp := *fast
			return &cp, nil
		}
	}
	return nil, errors.New("no rows")
}

func (f *fakeFastStore) End(_ context.Context, id int, endedAt time.Time, completed bool) error {
	fast, ok := f.fasts[id]
	if !ok {
		return errors.New("no rows")
	}
	fast.EndedAt = &endedAt
	fast.Completed = completed
	return nil
}

func (f *fakeFastStore) ListByUser(_ context.Context, userID int, limit int) ([]model.Fast, error) {
	var out []model.Fast
	for id := f.nextID - 1; id >= 1; id-- {
		if fast, ok := f.fasts[id]; ok && fast.UserID == userID && fast.EndedAt != nil {
			out = append(out, *fast)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeFastStore) ListStartedBetween(_ context.Context, userID int, from, to time.Time) ([]model.Fast, error) {
	var out []model.Fast
	for id := 1; id < f.nextID; id++ {
		fast, ok := f.fasts[id]
		if !ok || fast.UserID != userID || fast.EndedAt == nil {
			continue
		}
		if fast.StartedAt.Before(from) || !fast.StartedAt.Before(to) {
			continue
		}
		out = append(out, *fast)
	}
	return out, nil
}

type capturingPublisher struct {
	routingKeys []string
	payloads    []any
}

func (p *capturingPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	p.payloads = append(p.payloads, payload)
	return nil
}

func testUser() *model.User {
	return &model.User{ID: 1, Timezone: "UTC", DefaultFastHours: 16}
}

func TestStart_DefaultsTargetHours(t *testing.T) {
	svc := NewService(newFakeFastStore(), nil, zap.NewNop())
	now := time.Date(2025, 9, 10, 20, 0, 0, 0, time.UTC)

	fast, err := svc.Start(context.Background(), testUser(), 0, "", now)
	require.NoError(t, err)
	assert.Equal(t, 16, fast.TargetHours)
	assert.True(t, fast.Active())
}

func TestStart_RejectsSecondFast(t *testing.T) {
	svc := NewService(newFakeFastStore(), nil, zap.NewNop())
	u := testUser()
	now := time.Date(2025, 9, 10, 20, 0, 0, 0, time.UTC)

	_, err := svc.Start(context.Background(), u, 16, "", now)
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), u, 16, "", now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrFastActive)
}

func TestStop_CompletedOnlyAtTarget(t *testing.T) {
	tests := []struct {
		name      string
		elapsed   time.Duration
		completed bool
	}{
		{"just short", 16*time.Hour - time.Minute, false},
		{"exactly at target", 16 * time.Hour, true},
		{"over target", 18 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakeFastStore(), nil, zap.NewNop())
			u := testUser()
			start := time.Date(2025, 9, 10, 20, 0, 0, 0, time.UTC)

			_, err := svc.Start(context.Background(), u, 16, "", start)
			require.NoError(t, err)

			fast, err := svc.Stop(context.Background(), u, start.Add(tt.elapsed))
			require.NoError(t, err)
			assert.Equal(t, tt.completed, fast.Completed)
			assert.False(t, fast.Active())
		})
	}
}

func TestStop_NoActiveFast(t *testing.T) {
	svc := NewService(newFakeFastStore(), nil, zap.NewNop())

	_, err := svc.Stop(context.Background(), testUser(), time.Now())
	assert.ErrorIs(t, err, ErrNoActiveFast)
}

func TestStop_PublishesOnlyWhenCompleted(t *testing.T) {
	store := newFakeFastStore()
	pub := &capturingPublisher{}
	svc := NewService(store, pub, zap.NewNop())
	u := testUser()
	start := time.Date(2025, 9, 10, 20, 0, 0, 0, time.UTC)

	// short fast: no event
	_, err := svc.Start(context.Background(), u, 16, "", start)
	require.NoError(t, err)
	_, err = svc.Stop(context.Background(), u, start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, pub.routingKeys)

	// full fast: one event
	_, err = svc.Start(context.Background(), u, 16, "", start.Add(3*time.Hour))
	require.NoError(t, err)
	stopped, err := svc.Stop(context.Background(), u, start.Add(20*time.Hour))
	require.NoError(t, err)

	require.Len(t, pub.routingKeys, 1)
	assert.Equal(t, mq.RoutingKeyFastCompleted, pub.routingKeys[0])
	payload, ok := pub.payloads[0].(mq.FastCompletedPayload)
	require.True(t, ok)
	assert.Equal(t, stopped.ID, payload.FastID)
	assert.InDelta(t, 17.0, payload.Hours, 0.001)
}

func TestStoppedEarlyStaysIncomplete(t *testing.T) {
	store := newFakeFastStore()
	svc := NewService(store, nil, zap.NewNop())
	u := testUser()
	start := time.Date(2025, 9, 10, 20, 0, 0, 0, time.UTC)

	_, err := svc.Start(context.Background(), u, 16, "", start)
	require.NoError(t, err)
	stopped, err := svc.Stop(context.Background(), u, start.Add(8*time.Hour))
	require.NoError(t, err)
	require.False(t, stopped.Completed)

	// more time passing changes nothing; completion was decided at stop
	saved, err := store.FindByID(context.Background(), stopped.ID)
	require.NoError(t, err)
	assert.False(t, saved.Completed)
	assert.Equal(t, 8*3600.0, saved.DurationSeconds(start.Add(48*time.Hour)))
}

func TestWeeklyProgress_Shape(t *testing.T) {
	store := newFakeFastStore()
	svc := NewService(store, nil, zap.NewNop())
	u := testUser()

	// a finished 17h fast started Tuesday evening
	start := time.Date(2025, 9, 9, 19, 0, 0, 0, time.UTC)
	_, err := svc.Start(context.Background(), u, 16, "", start)
	require.NoError(t, err)
	_, err = svc.Stop(context.Background(), u, start.Add(17*time.Hour))
	require.NoError(t, err)

	days, err := svc.WeeklyProgress(context.Background(), u, time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, days, 7)

	// Monday-based week: index 1 is Tuesday Sep 9
	assert.Equal(t, "2025-09-09", days[1].Date)
	assert.InDelta(t, 17.0, days[1].Hours, 0.001)
	assert.True(t, days[1].Exceeded)
	assert.Equal(t, 1.0, days[1].Progress)
	assert.Equal(t, 0.0, days[0].Hours)
}
