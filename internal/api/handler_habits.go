package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"habitz/internal/model"
	"habitz/internal/service/habit"
	"habitz/internal/util"
)

type HabitHandler struct {
	registry   *habit.Registry
	aggregator *habit.Aggregator
}

func NewHabitHandler(registry *habit.Registry, aggregator *habit.Aggregator) *HabitHandler {
	return &HabitHandler{
		registry:   registry,
		aggregator: aggregator,
	}
}

// Daily handles GET /habits/daily
func (h *HabitHandler) Daily(c *gin.Context) {
	u := currentUser(c)
	day, ok := queryDay(c, u)
	if !ok {
		return
	}

	summary, err := h.aggregator.DailySummary(c.Request.Context(), u, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build daily summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Weekly handles GET /habits/weekly
func (h *HabitHandler) Weekly(c *gin.Context) {
	u := currentUser(c)
	days, err := h.aggregator.Weekly(c.Request.Context(), u, util.UserToday(u, time.Now()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build weekly summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// Monthly handles GET /habits/monthly
func (h *HabitHandler) Monthly(c *gin.Context) {
	u := currentUser(c)
	today := util.UserToday(u, time.Now())

	year, month := today.Year(), today.Month()
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		month = time.Month(v)
	}

	days, err := h.aggregator.Monthly(c.Request.Context(), u, year, month, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build monthly summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": int(month), "days": days})
}

// List handles GET /habits
func (h *HabitHandler) List(c *gin.Context) {
	u := currentUser(c)
	habits, err := h.registry.Active(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list habits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

// Create handles POST /habits. Only manual habits can be created directly;
// app-linked habits go through /habits/linked.
func (h *HabitHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
		SortOrder   int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u := currentUser(c)
	habitRow := &model.Habit{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		SortOrder:   req.SortOrder,
	}
	if err := h.registry.CreateManual(c.Request.Context(), u.ID, habitRow); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create habit"})
		return
	}
	c.JSON(http.StatusCreated, habitRow)
}

// CreateLinked handles POST /habits/linked
func (h *HabitHandler) CreateLinked(c *gin.Context) {
	var req struct {
		HabitType string `json:"habit_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u := currentUser(c)
	habitRow, err := h.registry.EnsureSingleton(c.Request.Context(), u.ID, model.HabitType(req.HabitType))
	if err != nil {
		if errors.Is(err, habit.ErrInvalidType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown habit type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create habit"})
		return
	}
	c.JSON(http.StatusOK, habitRow)
}

// QuickAdd handles POST /habits/quick_add
func (h *HabitHandler) QuickAdd(c *gin.Context) {
	u := currentUser(c)
	habits, err := h.registry.QuickAddLinked(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add habits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

// Update handles PUT /habits/:id
func (h *HabitHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
		SortOrder   int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u := currentUser(c)
	habitRow := &model.Habit{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		SortOrder:   req.SortOrder,
	}
	if err := h.registry.Update(c.Request.Context(), u.ID, habitRow); err != nil {
		if errors.Is(err, habit.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update habit"})
		return
	}
	c.JSON(http.StatusOK, habitRow)
}

// Archive handles DELETE /habits/:id
func (h *HabitHandler) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	u := currentUser(c)
	if err := h.registry.Archive(c.Request.Context(), u.ID, id); err != nil {
		if errors.Is(err, habit.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive habit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "archived"})
}

// Toggle handles POST /habits/:id/toggle
func (h *HabitHandler) Toggle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	u := currentUser(c)
	day, ok := queryDay(c, u)
	if !ok {
		return
	}

	done, err := h.aggregator.ToggleManual(c.Request.Context(), u, id, day)
	if err != nil {
		switch {
		case errors.Is(err, habit.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, habit.ErrNotManual):
			c.JSON(http.StatusBadRequest, gin.H{"error": "only manual habits can be toggled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle habit"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit_id": id,
		"date":     day.Format(util.DateLayout),
		"done":     done,
	})
}
