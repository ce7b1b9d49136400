package user

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/util"
)

type fakeUserStore struct {
	nextID    int
	users     map[int]*model.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[int]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) FindByID(_ context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UpdateSettings(_ context.Context, u *model.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

const testSecret = "test-secret"

func TestRegister_Defaults(t *testing.T) {
	svc := NewService(newFakeUserStore(), testSecret, zap.NewNop())

	u, err := svc.Register(context.Background(), "anna@example.com", "anna", "hunter2hunter2")
	require.NoError(t, err)

	assert.Equal(t, model.DefaultTimezone, u.Timezone)
	assert.Equal(t, 2000, u.DailyCalorieGoal)
	assert.Equal(t, 30, u.ProteinGoalPct)
	assert.Equal(t, 40, u.CarbGoalPct)
	assert.Equal(t, 30, u.FatGoalPct)
	assert.Equal(t, 16, u.DefaultFastHours)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)
	assert.True(t, util.CheckPassword("hunter2hunter2", u.PasswordHash))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserStore(), testSecret, zap.NewNop())

	_, err := svc.Register(context.Background(), "anna@example.com", "anna", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "anna@example.com", "other", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_RacingInsertHitsConstraint(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, testSecret, zap.NewNop())

	// a concurrent register wins between the email check and the insert
	store.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	_, err := svc.Register(context.Background(), "anna@example.com", "anna", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc := NewService(newFakeUserStore(), testSecret, zap.NewNop())

	registered, err := svc.Register(context.Background(), "anna@example.com", "anna", "hunter2hunter2")
	require.NoError(t, err)

	u, token, err := svc.Login(context.Background(), "anna@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	userID, err := util.ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := NewService(newFakeUserStore(), testSecret, zap.NewNop())

	_, err := svc.Register(context.Background(), "anna@example.com", "anna", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "anna@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateSettings(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, testSecret, zap.NewNop())

	u, err := svc.Register(context.Background(), "anna@example.com", "anna", "hunter2hunter2")
	require.NoError(t, err)

	tz := "Europe/Helsinki"
	goal := 1800
	fast := 18
	err = svc.UpdateSettings(context.Background(), u, SettingsUpdate{
		Timezone:         &tz,
		DailyCalorieGoal: &goal,
		DefaultFastHours: &fast,
	})
	require.NoError(t, err)

	saved, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Helsinki", saved.Timezone)
	assert.Equal(t, 1800, saved.DailyCalorieGoal)
	assert.Equal(t, 18, saved.DefaultFastHours)
}

func TestUpdateSettings_Validation(t *testing.T) {
	svc := NewService(newFakeUserStore(), testSecret, zap.NewNop())

	u, err := svc.Register(context.Background(), "anna@example.com", "anna", "hunter2hunter2")
	require.NoError(t, err)

	badTZ := "Not/A_Zone"
	err = svc.UpdateSettings(context.Background(), u, SettingsUpdate{Timezone: &badTZ})
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	over := 80
	err = svc.UpdateSettings(context.Background(), u, SettingsUpdate{ProteinGoalPct: &over})
	assert.ErrorIs(t, err, ErrInvalidGoals)

	negative := -1
	err = svc.UpdateSettings(context.Background(), u, SettingsUpdate{DailyCalorieGoal: &negative})
	assert.ErrorIs(t, err, ErrInvalidGoals)

	zeroFast := 0
	err = svc.UpdateSettings(context.Background(), u, SettingsUpdate{DefaultFastHours: &zeroFast})
	assert.ErrorIs(t, err, ErrInvalidGoals)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newFakeUserStore(), testSecret, zap.NewNop())

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
