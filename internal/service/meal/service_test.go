package meal

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

type fakeMealStore struct {
	nextID     int
	households map[int]*model.Household
	invites    map[int]*model.HouseholdInvite
	meals      map[int]*model.Meal
	plans      map[int]*model.MealPlan
}

func newFakeMealStore() *fakeMealStore {
	return &fakeMealStore{
		nextID:     1,
		households: make(map[int]*model.Household),
		invites:    make(map[int]*model.HouseholdInvite),
		meals:      make(map[int]*model.Meal),
		plans:      make(map[int]*model.MealPlan),
	}
}

func (f *fakeMealStore) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeMealStore) InsertHousehold(_ context.Context, h *model.Household) error {
	h.ID = f.id()
	cp := *h
	f.households[h.ID] = &cp
	return nil
}

func (f *fakeMealStore) FindHouseholdByID(_ context.Context, id int) (*model.Household, error) {
	h, ok := f.households[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	cp := *h
	return &cp, nil
}

func (f *fakeMealStore) InsertInvite(_ context.Context, inv *model.HouseholdInvite) error {
	inv.ID = f.id()
	cp := *inv
	f.invites[inv.ID] = &cp
	return nil
}

func (f *fakeMealStore) FindInviteByToken(_ context.Context, token string) (*model.HouseholdInvite, error) {
	for _, inv := range f.invites {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, errors.New("no rows")
}

func (f *fakeMealStore) AcceptInvite(_ context.Context, id, userID int) error {
	inv, ok := f.invites[id]
	if !ok {
		return errors.New("no rows")
	}
	inv.Accepted = true
	inv.AcceptedBy = &userID
	return nil
}

func (f *fakeMealStore) InsertMeal(_ context.Context, m *model.Meal) error {
	m.ID = f.id()
	cp := *m
	f.meals[m.ID] = &cp
	return nil
}

func (f *fakeMealStore) FindMealByID(_ context.Context, id int) (*model.Meal, error) {
	m, ok := f.meals[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMealStore) ListMeals(_ context.Context, householdID int) ([]model.Meal, error) {
	var out []model.Meal
	for id := 1; id < f.nextID; id++ {
		if m, ok := f.meals[id]; ok && m.HouseholdID == householdID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMealStore) InsertPlan(_ context.Context, p *model.MealPlan) (bool, error) {
	for _, existing := range f.plans {
		if existing.HouseholdID == p.HouseholdID && existing.Day.Equal(p.Day) &&
			existing.MealType == p.MealType && existing.MealID == p.MealID {
			return false, nil
		}
	}
	p.ID = f.id()
	cp := *p
	f.plans[p.ID] = &cp
	return true, nil
}

func (f *fakeMealStore) DeletePlan(_ context.Context, id int) error {
	delete(f.plans, id)
	return nil
}

func (f *fakeMealStore) FindPlanByID(_ context.Context, id int) (*model.MealPlan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeMealStore) ListPlansBetween(_ context.Context, householdID int, from, to time.Time) ([]model.MealPlan, error) {
	var out []model.MealPlan
	for id := 1; id < f.nextID; id++ {
		p, ok := f.plans[id]
		if !ok || p.HouseholdID != householdID {
			continue
		}
		if p.Day.Before(from) || p.Day.After(to) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeMealStore) HasPlanOn(_ context.Context, householdID int, day time.Time) (bool, error) {
	for _, p := range f.plans {
		if p.HouseholdID == householdID && p.Day.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserStore struct {
	households map[int]*int
}

func (f *fakeUserStore) SetHousehold(_ context.Context, userID int, householdID *int) error {
	if f.households == nil {
		f.households = make(map[int]*int)
	}
	f.households[userID] = householdID
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService() *Service {
	return NewService(newFakeMealStore(), &fakeUserStore{}, zap.NewNop())
}

func TestCreateHousehold(t *testing.T) {
	svc := newTestService()
	u := &model.User{ID: 1}

	h, err := svc.CreateHousehold(context.Background(), u, "Smith family")
	require.NoError(t, err)
	assert.NotZero(t, h.ID)
	require.NotNil(t, u.HouseholdID)
	assert.Equal(t, h.ID, *u.HouseholdID)

	_, err = svc.CreateHousehold(context.Background(), u, "Another")
	assert.ErrorIs(t, err, ErrHasHousehold)
}

func TestInviteAndJoin(t *testing.T) {
	svc := newTestService()
	owner := &model.User{ID: 1}
	joiner := &model.User{ID: 2}
	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

	created, err := svc.CreateHousehold(context.Background(), owner, "Smith family")
	require.NoError(t, err)

	inv, err := svc.CreateInvite(context.Background(), owner, now)
	require.NoError(t, err)
	assert.NotEmpty(t, inv.Token)
	assert.Equal(t, now.Add(7*24*time.Hour), inv.ExpiresAt)

	joined, err := svc.Join(context.Background(), joiner, inv.Token, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, created.ID, joined.ID)
	require.NotNil(t, joiner.HouseholdID)
	assert.Equal(t, created.ID, *joiner.HouseholdID)
}

func TestJoin_RejectsExpiredAndUsedInvites(t *testing.T) {
	svc := newTestService()
	owner := &model.User{ID: 1}
	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

	_, err := svc.CreateHousehold(context.Background(), owner, "Smith family")
	require.NoError(t, err)
	inv, err := svc.CreateInvite(context.Background(), owner, now)
	require.NoError(t, err)

	// expired
	late := &model.User{ID: 2}
	_, err = svc.Join(context.Background(), late, inv.Token, now.Add(8*24*time.Hour))
	assert.ErrorIs(t, err, ErrInviteInvalid)

	// consumed
	first := &model.User{ID: 3}
	_, err = svc.Join(context.Background(), first, inv.Token, now.Add(time.Hour))
	require.NoError(t, err)
	second := &model.User{ID: 4}
	_, err = svc.Join(context.Background(), second, inv.Token, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInviteInvalid)

	// bogus token
	_, err = svc.Join(context.Background(), second, "nope", now)
	assert.ErrorIs(t, err, ErrInviteInvalid)
}

func TestCreateMeal_RequiresHousehold(t *testing.T) {
	svc := newTestService()
	u := &model.User{ID: 1}

	err := svc.CreateMeal(context.Background(), u, &model.Meal{Name: "Tacos"})
	assert.ErrorIs(t, err, ErrNoHousehold)
}

func TestPlan_SnapshotsMealNameAndDeduplicates(t *testing.T) {
	store := newFakeMealStore()
	svc := NewService(store, &fakeUserStore{}, zap.NewNop())
	u := &model.User{ID: 1}

	_, err := svc.CreateHousehold(context.Background(), u, "Smith family")
	require.NoError(t, err)

	m := &model.Meal{Name: "Tacos"}
	require.NoError(t, svc.CreateMeal(context.Background(), u, m))

	p, err := svc.Plan(context.Background(), u, m.ID, day(2025, 9, 12), "dinner")
	require.NoError(t, err)
	assert.Equal(t, "Tacos", p.MealName)

	// planning the same slot twice is a no-op, not an error
	_, err = svc.Plan(context.Background(), u, m.ID, day(2025, 9, 12), "dinner")
	require.NoError(t, err)

	plans, err := svc.WeekPlans(context.Background(), u, day(2025, 9, 8))
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestPlan_RejectsForeignMeal(t *testing.T) {
	store := newFakeMealStore()
	svc := NewService(store, &fakeUserStore{}, zap.NewNop())

	alice := &model.User{ID: 1}
	bob := &model.User{ID: 2}
	_, err := svc.CreateHousehold(context.Background(), alice, "A")
	require.NoError(t, err)
	_, err = svc.CreateHousehold(context.Background(), bob, "B")
	require.NoError(t, err)

	m := &model.Meal{Name: "Tacos"}
	require.NoError(t, svc.CreateMeal(context.Background(), alice, m))

	_, err = svc.Plan(context.Background(), bob, m.ID, day(2025, 9, 12), "dinner")
	assert.ErrorIs(t, err, ErrMealNotFound)
}

func TestUnplan_ScopedToHousehold(t *testing.T) {
	store := newFakeMealStore()
	svc := NewService(store, &fakeUserStore{}, zap.NewNop())

	alice := &model.User{ID: 1}
	bob := &model.User{ID: 2}
	_, err := svc.CreateHousehold(context.Background(), alice, "A")
	require.NoError(t, err)
	_, err = svc.CreateHousehold(context.Background(), bob, "B")
	require.NoError(t, err)

	m := &model.Meal{Name: "Tacos"}
	require.NoError(t, svc.CreateMeal(context.Background(), alice, m))
	p, err := svc.Plan(context.Background(), alice, m.ID, day(2025, 9, 12), "dinner")
	require.NoError(t, err)

	err = svc.Unplan(context.Background(), bob, p.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	require.NoError(t, svc.Unplan(context.Background(), alice, p.ID))
}
