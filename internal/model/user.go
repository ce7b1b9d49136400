package model

import "time"

const DefaultTimezone = "America/New_York"

type User struct {
	ID               int       `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	Timezone         string    `json:"timezone"`
	HouseholdID      *int      `json:"household_id,omitempty"`
	DailyCalorieGoal int       `json:"daily_calorie_goal"`
	ProteinGoalPct   int       `json:"protein_goal_pct"`
	CarbGoalPct      int       `json:"carb_goal_pct"`
	FatGoalPct       int       `json:"fat_goal_pct"`
	DefaultFastHours int       `json:"default_fast_hours"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProteinGoalG converts the protein percentage of the calorie goal to grams (4 kcal/g).
func (u *User) ProteinGoalG() int {
	return int(float64(u.DailyCalorieGoal)*float64(u.ProteinGoalPct)/100/4 + 0.5)
}

// CarbGoalG converts the carb percentage of the calorie goal to grams (4 kcal/g).
func (u *User) CarbGoalG() int {
	return int(float64(u.DailyCalorieGoal)*float64(u.CarbGoalPct)/100/4 + 0.5)
}

// FatGoalG converts the fat percentage of the calorie goal to grams (9 kcal/g).
func (u *User) FatGoalG() int {
	return int(float64(u.DailyCalorieGoal)*float64(u.FatGoalPct)/100/9 + 0.5)
}
