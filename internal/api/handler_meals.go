package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"habitz/internal/model"
	"habitz/internal/service/meal"
	"habitz/internal/util"
)

type MealHandler struct {
	meals *meal.Service
}

func NewMealHandler(meals *meal.Service) *MealHandler {
	return &MealHandler{meals: meals}
}

func (h *MealHandler) writeMealError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, meal.ErrNoHousehold):
		c.JSON(http.StatusBadRequest, gin.H{"error": "join or create a household first"})
	case errors.Is(err, meal.ErrHasHousehold):
		c.JSON(http.StatusConflict, gin.H{"error": "already in a household"})
	case errors.Is(err, meal.ErrMealNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
	case errors.Is(err, meal.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "meal plan entry not found"})
	case errors.Is(err, meal.ErrInviteInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invite is invalid or expired"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
	}
}

// CreateHousehold handles POST /households
func (h *MealHandler) CreateHousehold(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	household, err := h.meals.CreateHousehold(c.Request.Context(), currentUser(c), req.Name)
	if err != nil {
		h.writeMealError(c, err)
		return
	}
	c.JSON(http.StatusCreated, household)
}

// CreateInvite handles POST /households/invites
func (h *MealHandler) CreateInvite(c *gin.Context) {
	inv, err := h.meals.CreateInvite(c.Request.Context(), currentUser(c), time.Now())
	if err != nil {
		h.writeMealError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": inv.Token, "expires_at": inv.ExpiresAt})
}

// Join handles POST /households/join
func (h *MealHandler) Join(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	household, err := h.meals.Join(c.Request.Context(), currentUser(c), req.Token, time.Now())
	if err != nil {
		h.writeMealError(c, err)
		return
	}
	c.JSON(http.StatusOK, household)
}

// CreateMeal handles POST /meals
func (h *MealHandler) CreateMeal(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Ingredients string `json:"ingredients"`
		Category    string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	m := &model.Meal{
		Name:        req.Name,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Category:    req.Category,
	}
	if err := h.meals.CreateMeal(c.Request.Context(), currentUser(c), m); err != nil {
		h.writeMealError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMeals handles GET /meals
func (h *MealHandler) ListMeals(c *gin.Context) {
	meals, err := h.meals.ListMeals(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeMealError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

// Plan handles POST /meals/plans
func (h *MealHandler) Plan(c *gin.Context) {
	var req struct {
		MealID   int    `json:"meal_id" binding:"required"`
		Date     string `json:"date" binding:"required"`
		MealType string `json:"meal_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	day, err := time.Parse(util.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	p, err := h.meals.Plan(c.Request.Context(), currentUser(c), req.MealID, day, req.MealType)
	if err != nil {
		h.writeMealError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Unplan handles DELETE /meals/plans/:id
func (h *MealHandler) Unplan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	if err := h.meals.Unplan(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeMealError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// WeekPlans handles GET /meals/plans
func (h *MealHandler) WeekPlans(c *gin.Context) {
	u := currentUser(c)
	start, ok := queryDay(c, u)
	if !ok {
		return
	}
	// week view starts on Monday
	start = start.AddDate(0, 0, -util.WeekdayOffset(start))

	plans, err := h.meals.WeekPlans(c.Request.Context(), u, start)
	if err != nil {
		h.writeMealError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"start": start.Format(util.DateLayout), "plans": plans})
}
