package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"habitz/internal/service/user"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *AuthHandler,
	habitHandler *HabitHandler,
	calorieHandler *CalorieHandler,
	workoutHandler *WorkoutHandler,
	fastingHandler *FastingHandler,
	mealHandler *MealHandler,
	notificationHandler *NotificationHandler,
	users *user.Service,
	rdb *redis.Client,
	jwtSecret string,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware())
	r.Use(RateLimitMiddleware(rdb, logger))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret), LoadUser(users))
	{
		auth.GET("/me", authHandler.Me)
		auth.PUT("/me/settings", authHandler.UpdateSettings)

		auth.GET("/habits", habitHandler.List)
		auth.POST("/habits", habitHandler.Create)
		auth.POST("/habits/linked", habitHandler.CreateLinked)
		auth.POST("/habits/quick_add", habitHandler.QuickAdd)
		auth.GET("/habits/daily", habitHandler.Daily)
		auth.GET("/habits/weekly", habitHandler.Weekly)
		auth.GET("/habits/monthly", habitHandler.Monthly)
		auth.PUT("/habits/:id", habitHandler.Update)
		auth.DELETE("/habits/:id", habitHandler.Archive)
		auth.POST("/habits/:id/toggle", habitHandler.Toggle)

		auth.POST("/calories/logs", calorieHandler.LogFood)
		auth.POST("/calories/quick_add", calorieHandler.QuickAdd)
		auth.PUT("/calories/logs/:id", calorieHandler.UpdateLog)
		auth.DELETE("/calories/logs/:id", calorieHandler.DeleteLog)
		auth.GET("/calories/daily", calorieHandler.Daily)
		auth.GET("/calories/weekly", calorieHandler.Weekly)
		auth.GET("/calories/foods/search", calorieHandler.Search)
		auth.GET("/calories/foods/recent", calorieHandler.Recent)
		auth.POST("/calories/foods", calorieHandler.CreateFood)
		auth.PUT("/calories/foods/:id", calorieHandler.UpdateFood)

		auth.GET("/workouts", workoutHandler.History)
		auth.POST("/workouts", workoutHandler.Start)
		auth.GET("/workouts/exercises", workoutHandler.ListExercises)
		auth.POST("/workouts/exercises", workoutHandler.CreateExercise)
		auth.PUT("/workouts/exercises/:id", workoutHandler.UpdateExercise)
		auth.GET("/workouts/:id", workoutHandler.Get)
		auth.POST("/workouts/:id/sets", workoutHandler.LogSet)
		auth.POST("/workouts/:id/complete", workoutHandler.Complete)

		auth.GET("/fasts", fastingHandler.History)
		auth.POST("/fasts", fastingHandler.Start)
		auth.POST("/fasts/stop", fastingHandler.Stop)
		auth.GET("/fasts/current", fastingHandler.Current)
		auth.GET("/fasts/weekly", fastingHandler.Weekly)
		auth.GET("/fasts/monthly", fastingHandler.Monthly)

		auth.POST("/households", mealHandler.CreateHousehold)
		auth.POST("/households/invites", mealHandler.CreateInvite)
		auth.POST("/households/join", mealHandler.Join)
		auth.GET("/meals", mealHandler.ListMeals)
		auth.POST("/meals", mealHandler.CreateMeal)
		auth.GET("/meals/plans", mealHandler.WeekPlans)
		auth.POST("/meals/plans", mealHandler.Plan)
		auth.DELETE("/meals/plans/:id", mealHandler.Unplan)

		auth.GET("/notifications", notificationHandler.List)
		auth.POST("/notifications/:id/read", notificationHandler.MarkRead)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
