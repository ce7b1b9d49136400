package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"habitz/internal/model"
	"habitz/internal/service/workout"
)

type WorkoutHandler struct {
	workouts *workout.Service
}

func NewWorkoutHandler(workouts *workout.Service) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

// CreateExercise handles POST /workouts/exercises
func (h *WorkoutHandler) CreateExercise(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		MuscleGroup string `json:"muscle_group"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	e := &model.Exercise{Name: req.Name, MuscleGroup: req.MuscleGroup}
	if err := h.workouts.CreateExercise(c.Request.Context(), currentUser(c), e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create exercise"})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ListExercises handles GET /workouts/exercises
func (h *WorkoutHandler) ListExercises(c *gin.Context) {
	exercises, err := h.workouts.ListExercises(c.Request.Context(), currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list exercises"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": exercises})
}

// UpdateExercise handles PUT /workouts/exercises/:id. Sets already logged
// keep the name they were logged under.
func (h *WorkoutHandler) UpdateExercise(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exercise id"})
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		MuscleGroup string `json:"muscle_group"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	e := &model.Exercise{ID: id, Name: req.Name, MuscleGroup: req.MuscleGroup}
	if err := h.workouts.UpdateExercise(c.Request.Context(), currentUser(c), e); err != nil {
		if errors.Is(err, workout.ErrExerciseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "exercise not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update exercise"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// Start handles POST /workouts
func (h *WorkoutHandler) Start(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	log, err := h.workouts.Start(c.Request.Context(), currentUser(c), req.Name, req.Notes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start workout"})
		return
	}
	c.JSON(http.StatusCreated, log)
}

// LogSet handles POST /workouts/:id/sets
func (h *WorkoutHandler) LogSet(c *gin.Context) {
	workoutLogID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workout id"})
		return
	}

	var req struct {
		ExerciseID int     `json:"exercise_id" binding:"required"`
		Reps       int     `json:"reps" binding:"required"`
		WeightKg   float64 `json:"weight_kg"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	set, err := h.workouts.LogSet(c.Request.Context(), currentUser(c), workoutLogID, req.ExerciseID, req.Reps, req.WeightKg)
	if err != nil {
		switch {
		case errors.Is(err, workout.ErrWorkoutNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "workout log not found"})
		case errors.Is(err, workout.ErrExerciseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "exercise not found"})
		case errors.Is(err, workout.ErrAlreadyCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "workout already completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log set"})
		}
		return
	}
	c.JSON(http.StatusCreated, set)
}

// Complete handles POST /workouts/:id/complete
func (h *WorkoutHandler) Complete(c *gin.Context) {
	workoutLogID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workout id"})
		return
	}

	log, err := h.workouts.Complete(c.Request.Context(), currentUser(c), workoutLogID)
	if err != nil {
		switch {
		case errors.Is(err, workout.ErrWorkoutNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "workout log not found"})
		case errors.Is(err, workout.ErrAlreadyCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "workout already completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete workout"})
		}
		return
	}
	c.JSON(http.StatusOK, log)
}

// Get handles GET /workouts/:id
func (h *WorkoutHandler) Get(c *gin.Context) {
	workoutLogID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workout id"})
		return
	}

	detail, err := h.workouts.Get(c.Request.Context(), currentUser(c), workoutLogID)
	if err != nil {
		if errors.Is(err, workout.ErrWorkoutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "workout log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load workout"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// History handles GET /workouts
func (h *WorkoutHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	logs, err := h.workouts.History(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workouts": logs})
}
