package meal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/util"
)

var (
	ErrNoHousehold   = errors.New("user has no household")
	ErrHasHousehold  = errors.New("user already belongs to a household")
	ErrMealNotFound  = errors.New("meal not found")
	ErrPlanNotFound  = errors.New("meal plan entry not found")
	ErrInviteInvalid = errors.New("invite is invalid or expired")
)

const inviteTTL = 7 * 24 * time.Hour

type MealStore interface {
	InsertHousehold(ctx context.Context, h *model.Household) error
	FindHouseholdByID(ctx context.Context, id int) (*model.Household, error)
	InsertInvite(ctx context.Context, inv *model.HouseholdInvite) error
	FindInviteByToken(ctx context.Context, token string) (*model.HouseholdInvite, error)
	AcceptInvite(ctx context.Context, id, userID int) error
	InsertMeal(ctx context.Context, m *model.Meal) error
	FindMealByID(ctx context.Context, id int) (*model.Meal, error)
	ListMeals(ctx context.Context, householdID int) ([]model.Meal, error)
	InsertPlan(ctx context.Context, p *model.MealPlan) (bool, error)
	DeletePlan(ctx context.Context, id int) error
	FindPlanByID(ctx context.Context, id int) (*model.MealPlan, error)
	ListPlansBetween(ctx context.Context, householdID int, from, to time.Time) ([]model.MealPlan, error)
	HasPlanOn(ctx context.Context, householdID int, day time.Time) (bool, error)
}

type UserStore interface {
	SetHousehold(ctx context.Context, userID int, householdID *int) error
}

type Service struct {
	meals  MealStore
	users  UserStore
	logger *zap.Logger
}

func NewService(meals MealStore, users UserStore, logger *zap.Logger) *Service {
	return &Service{
		meals:  meals,
		users:  users,
		logger: logger,
	}
}

// CreateHousehold creates a household and moves the creator into it.
func (s *Service) CreateHousehold(ctx context.Context, user *model.User, name string) (*model.Household, error) {
	if user.HouseholdID != nil {
		return nil, ErrHasHousehold
	}

	h := &model.Household{Name: name, CreatedBy: user.ID}
	if err := s.meals.InsertHousehold(ctx, h); err != nil {
		return nil, err
	}
	if err := s.users.SetHousehold(ctx, user.ID, &h.ID); err != nil {
		return nil, err
	}
	user.HouseholdID = &h.ID
	return h, nil
}

// CreateInvite issues a join token for the caller's household.
func (s *Service) CreateInvite(ctx context.Context, user *model.User, now time.Time) (*model.HouseholdInvite, error) {
	if user.HouseholdID == nil {
		return nil, ErrNoHousehold
	}

	inv := &model.HouseholdInvite{
		HouseholdID: *user.HouseholdID,
		Token:       uuid.NewString(),
		CreatedBy:   user.ID,
		ExpiresAt:   now.Add(inviteTTL),
	}
	if err := s.meals.InsertInvite(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Join moves the caller into the household behind a valid invite token.
func (s *Service) Join(ctx context.Context, user *model.User, token string, now time.Time) (*model.Household, error) {
	if user.HouseholdID != nil {
		return nil, ErrHasHousehold
	}

	inv, err := s.meals.FindInviteByToken(ctx, token)
	if err != nil || inv.Accepted || now.After(inv.ExpiresAt) {
		return nil, ErrInviteInvalid
	}

	if err := s.meals.AcceptInvite(ctx, inv.ID, user.ID); err != nil {
		return nil, err
	}
	if err := s.users.SetHousehold(ctx, user.ID, &inv.HouseholdID); err != nil {
		return nil, err
	}
	user.HouseholdID = &inv.HouseholdID

	s.logger.Info("User joined household",
		zap.Int("user_id", user.ID),
		zap.Int("household_id", inv.HouseholdID),
	)
	return s.meals.FindHouseholdByID(ctx, inv.HouseholdID)
}

// CreateMeal adds a meal to the caller's household collection.
func (s *Service) CreateMeal(ctx context.Context, user *model.User, m *model.Meal) error {
	if user.HouseholdID == nil {
		return ErrNoHousehold
	}
	m.HouseholdID = *user.HouseholdID
	m.CreatedBy = user.ID
	return s.meals.InsertMeal(ctx, m)
}

// ListMeals returns the household's meals.
func (s *Service) ListMeals(ctx context.Context, user *model.User) ([]model.Meal, error) {
	if user.HouseholdID == nil {
		return nil, ErrNoHousehold
	}
	return s.meals.ListMeals(ctx, *user.HouseholdID)
}

// Plan schedules a household meal on a date. Planning the same meal into the
// same slot twice is a no-op.
func (s *Service) Plan(ctx context.Context, user *model.User, mealID int, day time.Time, mealType string) (*model.MealPlan, error) {
	if user.HouseholdID == nil {
		return nil, ErrNoHousehold
	}

	m, err := s.meals.FindMealByID(ctx, mealID)
	if err != nil || m.HouseholdID != *user.HouseholdID {
		return nil, ErrMealNotFound
	}

	p := &model.MealPlan{
		HouseholdID: *user.HouseholdID,
		MealID:      m.ID,
		MealName:    m.Name,
		Day:         util.Midnight(day),
		MealType:    mealType,
		CreatedBy:   user.ID,
	}
	if _, err := s.meals.InsertPlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Unplan removes a planned entry from the caller's household.
func (s *Service) Unplan(ctx context.Context, user *model.User, planID int) error {
	if user.HouseholdID == nil {
		return ErrNoHousehold
	}
	p, err := s.meals.FindPlanByID(ctx, planID)
	if err != nil || p.HouseholdID != *user.HouseholdID {
		return ErrPlanNotFound
	}
	return s.meals.DeletePlan(ctx, planID)
}

// WeekPlans returns the household's planned meals for the 7 days from start.
func (s *Service) WeekPlans(ctx context.Context, user *model.User, start time.Time) ([]model.MealPlan, error) {
	if user.HouseholdID == nil {
		return nil, ErrNoHousehold
	}
	start = util.Midnight(start)
	return s.meals.ListPlansBetween(ctx, *user.HouseholdID, start, start.AddDate(0, 0, 6))
}
