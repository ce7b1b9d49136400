package calorie

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/util"
)

var (
	ErrFoodNotFound    = errors.New("food item not found")
	ErrLogNotFound     = errors.New("food log not found")
	ErrInvalidMealType = errors.New("invalid meal type")
	ErrInvalidServings = errors.New("servings must be positive")
)

type FoodStore interface {
	InsertItem(ctx context.Context, f *model.FoodItem) error
	FindItemByID(ctx context.Context, id int) (*model.FoodItem, error)
	UpdateItem(ctx context.Context, f *model.FoodItem) error
	SearchItems(ctx context.Context, q string, limit int) ([]model.FoodItem, error)
	InsertLog(ctx context.Context, l *model.FoodLog) error
	FindLogByID(ctx context.Context, id int) (*model.FoodLog, error)
	ListLogsForDate(ctx context.Context, userID int, day time.Time) ([]model.FoodLog, error)
	UpdateLog(ctx context.Context, l *model.FoodLog) error
	DeleteLog(ctx context.Context, id int) error
	TotalsForDate(ctx context.Context, userID int, day time.Time) (model.DailyTotals, error)
	RecentItems(ctx context.Context, userID int, limit int) ([]model.FoodItem, error)
}

type Service struct {
	foods  FoodStore
	logger *zap.Logger
}

func NewService(foods FoodStore, logger *zap.Logger) *Service {
	return &Service{
		foods:  foods,
		logger: logger,
	}
}

func validMealType(mealType string) bool {
	switch mealType {
	case "breakfast", "lunch", "dinner", "snack":
		return true
	}
	return false
}

// LogFood copies the item's current nutrition, multiplied by servings, onto
// a new log row. The row keeps those products forever: a later edit of the
// item changes what future logs record, never what past logs say.
func (s *Service) LogFood(ctx context.Context, user *model.User, foodItemID int, servings float64, mealType string, day time.Time) (*model.FoodLog, error) {
	if servings <= 0 {
		return nil, ErrInvalidServings
	}
	if !validMealType(mealType) {
		return nil, ErrInvalidMealType
	}

	item, err := s.foods.FindItemByID(ctx, foodItemID)
	if err != nil {
		return nil, ErrFoodNotFound
	}

	log := &model.FoodLog{
		UserID:     user.ID,
		FoodItemID: item.ID,
		FoodName:   item.Name,
		MealType:   mealType,
		Servings:   servings,
		LoggedDate: util.Midnight(day),
		Calories:   util.Round1(item.Calories * servings),
		ProteinG:   util.Round1(item.ProteinG * servings),
		CarbsG:     util.Round1(item.CarbsG * servings),
		FatG:       util.Round1(item.FatG * servings),
	}
	if err := s.foods.InsertLog(ctx, log); err != nil {
		return nil, err
	}

	s.logger.Info("Food logged",
		zap.Int("user_id", user.ID),
		zap.Int("food_item_id", item.ID),
		zap.Float64("calories", log.Calories),
		zap.String("date", log.LoggedDate.Format(util.DateLayout)),
	)
	return log, nil
}

// QuickAdd creates a one-off item and logs it in one step, for entries the
// user types in by hand.
func (s *Service) QuickAdd(ctx context.Context, user *model.User, name string, calories, proteinG, carbsG, fatG float64, mealType string, day time.Time) (*model.FoodLog, error) {
	if !validMealType(mealType) {
		return nil, ErrInvalidMealType
	}

	item := &model.FoodItem{
		Name:     name,
		Source:   "quick_add",
		Calories: util.Round1(calories),
		ProteinG: util.Round1(proteinG),
		CarbsG:   util.Round1(carbsG),
		FatG:     util.Round1(fatG),
	}
	if err := s.foods.InsertItem(ctx, item); err != nil {
		return nil, err
	}

	log := &model.FoodLog{
		UserID:     user.ID,
		FoodItemID: item.ID,
		FoodName:   item.Name,
		MealType:   mealType,
		Servings:   1,
		LoggedDate: util.Midnight(day),
		Calories:   item.Calories,
		ProteinG:   item.ProteinG,
		CarbsG:     item.CarbsG,
		FatG:       item.FatG,
	}
	if err := s.foods.InsertLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// UpdateLog edits servings or meal type on an existing row. New totals are
// rescaled from the row's own stored per-serving values, not from the live
// item, so the original snapshot stays authoritative.
func (s *Service) UpdateLog(ctx context.Context, user *model.User, logID int, servings *float64, mealType *string) (*model.FoodLog, error) {
	log, err := s.foods.FindLogByID(ctx, logID)
	if err != nil || log.UserID != user.ID {
		return nil, ErrLogNotFound
	}

	if servings != nil {
		if *servings <= 0 {
			return nil, ErrInvalidServings
		}
		perServing := model.DailyTotals{
			Calories: log.Calories / log.Servings,
			ProteinG: log.ProteinG / log.Servings,
			CarbsG:   log.CarbsG / log.Servings,
			FatG:     log.FatG / log.Servings,
		}
		log.Servings = *servings
		log.Calories = util.Round1(perServing.Calories * *servings)
		log.ProteinG = util.Round1(perServing.ProteinG * *servings)
		log.CarbsG = util.Round1(perServing.CarbsG * *servings)
		log.FatG = util.Round1(perServing.FatG * *servings)
	}
	if mealType != nil {
		if !validMealType(*mealType) {
			return nil, ErrInvalidMealType
		}
		log.MealType = *mealType
	}

	if err := s.foods.UpdateLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// DeleteLog removes a row the caller owns.
func (s *Service) DeleteLog(ctx context.Context, user *model.User, logID int) error {
	log, err := s.foods.FindLogByID(ctx, logID)
	if err != nil || log.UserID != user.ID {
		return ErrLogNotFound
	}
	return s.foods.DeleteLog(ctx, logID)
}

// CreateItem stores a reusable custom food.
func (s *Service) CreateItem(ctx context.Context, f *model.FoodItem) error {
	f.Source = "custom"
	f.Calories = util.Round1(f.Calories)
	f.ProteinG = util.Round1(f.ProteinG)
	f.CarbsG = util.Round1(f.CarbsG)
	f.FatG = util.Round1(f.FatG)
	return s.foods.InsertItem(ctx, f)
}

// UpdateItem edits a custom food. Only future logs see the change.
func (s *Service) UpdateItem(ctx context.Context, f *model.FoodItem) error {
	existing, err := s.foods.FindItemByID(ctx, f.ID)
	if err != nil {
		return ErrFoodNotFound
	}
	f.Source = existing.Source
	return s.foods.UpdateItem(ctx, f)
}

// Search matches custom foods by name.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]model.FoodItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.foods.SearchItems(ctx, q, limit)
}

// Recent returns the user's recently logged reusable items.
func (s *Service) Recent(ctx context.Context, user *model.User, limit int) ([]model.FoodItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.foods.RecentItems(ctx, user.ID, limit)
}

// DayEntry is the day view: entries plus running totals.
type DayEntry struct {
	Date    string            `json:"date"`
	Entries []model.FoodLog   `json:"entries"`
	Totals  model.DailyTotals `json:"totals"`
}

// DailyLog returns the user's log and totals for one date.
func (s *Service) DailyLog(ctx context.Context, user *model.User, day time.Time) (*DayEntry, error) {
	day = util.Midnight(day)
	entries, err := s.foods.ListLogsForDate(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}
	totals, err := s.foods.TotalsForDate(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}
	return &DayEntry{
		Date:    day.Format(util.DateLayout),
		Entries: entries,
		Totals:  totals,
	}, nil
}

// WeekDay is one day of the weekly nutrition summary.
type WeekDay struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	model.DailyTotals
}

// WeeklySummary returns totals for the trailing 7 days ending at endDay.
func (s *Service) WeeklySummary(ctx context.Context, user *model.User, endDay time.Time) ([]WeekDay, error) {
	endDay = util.Midnight(endDay)
	days := make([]WeekDay, 0, 7)

	for i := 6; i >= 0; i-- {
		day := endDay.AddDate(0, 0, -i)
		totals, err := s.foods.TotalsForDate(ctx, user.ID, day)
		if err != nil {
			return nil, err
		}
		days = append(days, WeekDay{
			Date:        day.Format(util.DateLayout),
			Label:       day.Format("Mon"),
			DailyTotals: totals,
		})
	}
	return days, nil
}
