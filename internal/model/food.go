package model

import "time"

type FoodItem struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand,omitempty"`
	Source         string    `json:"source"` // "custom" or "quick_add"
	Calories       float64   `json:"calories"`
	ProteinG       float64   `json:"protein_g"`
	CarbsG         float64   `json:"carbs_g"`
	FatG           float64   `json:"fat_g"`
	ServingSize    string    `json:"serving_size,omitempty"`
	ServingWeightG *float64  `json:"serving_weight_g,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// FoodLog is one logged serving. The nutrition columns are copied from the
// food item at insert time and never recomputed from it afterward, so
// editing an item does not rewrite history.
type FoodLog struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	FoodItemID int       `json:"food_item_id"`
	FoodName   string    `json:"food_name"`
	MealType   string    `json:"meal_type"` // breakfast, lunch, dinner, snack
	Servings   float64   `json:"servings"`
	LoggedDate time.Time `json:"logged_date"`
	LoggedAt   time.Time `json:"logged_at"`
	Calories   float64   `json:"calories"`
	ProteinG   float64   `json:"protein_g"`
	CarbsG     float64   `json:"carbs_g"`
	FatG       float64   `json:"fat_g"`
}

type DailyTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}
