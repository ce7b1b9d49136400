package model

import "time"

type Household struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type HouseholdInvite struct {
	ID          int        `json:"id"`
	HouseholdID int        `json:"household_id"`
	Token       string     `json:"token"`
	CreatedBy   int        `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Accepted    bool       `json:"accepted"`
	AcceptedBy  *int       `json:"accepted_by,omitempty"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}

type Meal struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Ingredients string    `json:"ingredients,omitempty"`
	Category    string    `json:"category,omitempty"`
	HouseholdID int       `json:"household_id"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type MealPlan struct {
	ID          int       `json:"id"`
	HouseholdID int       `json:"household_id"`
	MealID      int       `json:"meal_id"`
	MealName    string    `json:"meal_name"`
	Day         time.Time `json:"day"`
	MealType    string    `json:"meal_type"` // breakfast, lunch, dinner
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
