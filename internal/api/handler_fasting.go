package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"habitz/internal/service/fasting"
	"habitz/internal/util"
)

type FastingHandler struct {
	fasts *fasting.Service
}

func NewFastingHandler(fasts *fasting.Service) *FastingHandler {
	return &FastingHandler{fasts: fasts}
}

// Start handles POST /fasts
func (h *FastingHandler) Start(c *gin.Context) {
	var req struct {
		TargetHours int    `json:"target_hours"`
		Note        string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	fast, err := h.fasts.Start(c.Request.Context(), currentUser(c), req.TargetHours, req.Note, time.Now())
	if err != nil {
		if errors.Is(err, fasting.ErrFastActive) {
			c.JSON(http.StatusConflict, gin.H{"error": "a fast is already running"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start fast"})
		return
	}
	c.JSON(http.StatusCreated, fast)
}

// Stop handles POST /fasts/stop
func (h *FastingHandler) Stop(c *gin.Context) {
	fast, err := h.fasts.Stop(c.Request.Context(), currentUser(c), time.Now())
	if err != nil {
		if errors.Is(err, fasting.ErrNoActiveFast) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active fast"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stop fast"})
		return
	}
	c.JSON(http.StatusOK, fast)
}

// Current handles GET /fasts/current
func (h *FastingHandler) Current(c *gin.Context) {
	fast, err := h.fasts.Current(c.Request.Context(), currentUser(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active fast"})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"fast":             fast,
		"elapsed_seconds":  fast.DurationSeconds(now),
		"target_seconds":   fast.TargetSeconds(),
		"progress_percent": fast.ProgressPct(now),
	})
}

// History handles GET /fasts
func (h *FastingHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	fasts, err := h.fasts.History(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fasts": fasts})
}

// Weekly handles GET /fasts/weekly
func (h *FastingHandler) Weekly(c *gin.Context) {
	u := currentUser(c)
	days, err := h.fasts.WeeklyProgress(c.Request.Context(), u, util.UserToday(u, time.Now()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build weekly progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// Monthly handles GET /fasts/monthly
func (h *FastingHandler) Monthly(c *gin.Context) {
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

	days, err := h.fasts.MonthlyProgress(c.Request.Context(), u, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build monthly progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": int(month), "days": days})
}
