package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"habitz/internal/model"
	"habitz/internal/service/calorie"
	"habitz/internal/util"
)

type CalorieHandler struct {
	calories *calorie.Service
}

func NewCalorieHandler(calories *calorie.Service) *CalorieHandler {
	return &CalorieHandler{calories: calories}
}

func (h *CalorieHandler) writeLogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, calorie.ErrFoodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "food item not found"})
	case errors.Is(err, calorie.ErrLogNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "food log not found"})
	case errors.Is(err, calorie.ErrInvalidMealType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal type"})
	case errors.Is(err, calorie.ErrInvalidServings):
		c.JSON(http.StatusBadRequest, gin.H{"error": "servings must be positive"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
	}
}

// LogFood handles POST /calories/logs
func (h *CalorieHandler) LogFood(c *gin.Context) {
	var req struct {
		FoodItemID int     `json:"food_item_id" binding:"required"`
		Servings   float64 `json:"servings" binding:"required"`
		MealType   string  `json:"meal_type" binding:"required"`
		Date       string  `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u := currentUser(c)
	day := util.UserToday(u, time.Now())
	if req.Date != "" {
		parsed, err := time.Parse(util.DateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	log, err := h.calories.LogFood(c.Request.Context(), u, req.FoodItemID, req.Servings, req.MealType, day)
	if err != nil {
		h.writeLogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

// QuickAdd handles POST /calories/quick_add
func (h *CalorieHandler) QuickAdd(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Calories float64 `json:"calories" binding:"required"`
		ProteinG float64 `json:"protein_g"`
		CarbsG   float64 `json:"carbs_g"`
		FatG     float64 `json:"fat_g"`
		MealType string  `json:"meal_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u := currentUser(c)
	log, err := h.calories.QuickAdd(c.Request.Context(), u, req.Name, req.Calories, req.ProteinG, req.CarbsG, req.FatG, req.MealType, util.UserToday(u, time.Now()))
	if err != nil {
		h.writeLogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

// UpdateLog handles PUT /calories/logs/:id
func (h *CalorieHandler) UpdateLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	var req struct {
		Servings *float64 `json:"servings"`
		MealType *string  `json:"meal_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	log, err := h.calories.UpdateLog(c.Request.Context(), currentUser(c), id, req.Servings, req.MealType)
	if err != nil {
		h.writeLogError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// DeleteLog handles DELETE /calories/logs/:id
func (h *CalorieHandler) DeleteLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	if err := h.calories.DeleteLog(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeLogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Daily handles GET /calories/daily
func (h *CalorieHandler) Daily(c *gin.Context) {
	u := currentUser(c)
	day, ok := queryDay(c, u)
	if !ok {
		return
	}

	entry, err := h.calories.DailyLog(c.Request.Context(), u, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load daily log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    entry.Date,
		"entries": entry.Entries,
		"totals":  entry.Totals,
		"goals": gin.H{
			"calories":  u.DailyCalorieGoal,
			"protein_g": u.ProteinGoalG(),
			"carbs_g":   u.CarbGoalG(),
			"fat_g":     u.FatGoalG(),
		},
	})
}

// Weekly handles GET /calories/weekly
func (h *CalorieHandler) Weekly(c *gin.Context) {
	u := currentUser(c)
	days, err := h.calories.WeeklySummary(c.Request.Context(), u, util.UserToday(u, time.Now()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build weekly summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "calorie_goal": u.DailyCalorieGoal})
}

// Search handles GET /calories/foods/search
func (h *CalorieHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}

	items, err := h.calories.Search(c.Request.Context(), q, 25)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Recent handles GET /calories/foods/recent
func (h *CalorieHandler) Recent(c *gin.Context) {
	items, err := h.calories.Recent(c.Request.Context(), currentUser(c), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent foods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateFood handles POST /calories/foods
func (h *CalorieHandler) CreateFood(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Brand       string   `json:"brand"`
		Calories    float64  `json:"calories" binding:"required"`
		ProteinG    float64  `json:"protein_g"`
		CarbsG      float64  `json:"carbs_g"`
		FatG        float64  `json:"fat_g"`
		ServingSize string   `json:"serving_size"`
		ServingWtG  *float64 `json:"serving_weight_g"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item := &model.FoodItem{
		Name:           req.Name,
		Brand:          req.Brand,
		Calories:       req.Calories,
		ProteinG:       req.ProteinG,
		CarbsG:         req.CarbsG,
		FatG:           req.FatG,
		ServingSize:    req.ServingSize,
		ServingWeightG: req.ServingWtG,
	}
	if err := h.calories.CreateItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create food"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateFood handles PUT /calories/foods/:id. Existing logs keep the values
// they were written with.
func (h *CalorieHandler) UpdateFood(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	var req struct {
		Name        string   `json:"name" binding:"required"`
		Brand       string   `json:"brand"`
		Calories    float64  `json:"calories" binding:"required"`
		ProteinG    float64  `json:"protein_g"`
		CarbsG      float64  `json:"carbs_g"`
		FatG        float64  `json:"fat_g"`
		ServingSize string   `json:"serving_size"`
		ServingWtG  *float64 `json:"serving_weight_g"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item := &model.FoodItem{
		ID:             id,
		Name:           req.Name,
		Brand:          req.Brand,
		Calories:       req.Calories,
		ProteinG:       req.ProteinG,
		CarbsG:         req.CarbsG,
		FatG:           req.FatG,
		ServingSize:    req.ServingSize,
		ServingWeightG: req.ServingWtG,
	}
	if err := h.calories.UpdateItem(c.Request.Context(), item); err != nil {
		h.writeLogError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
