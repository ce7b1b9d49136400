package main

import (
	"context"

	"go.uber.org/zap"

	"habitz/internal/api"
	"habitz/internal/config"
	"habitz/internal/db"
	"habitz/internal/mq"
	redisclient "habitz/internal/redis"
	"habitz/internal/repository"
	"habitz/internal/service/calorie"
	"habitz/internal/service/fasting"
	"habitz/internal/service/habit"
	"habitz/internal/service/meal"
	"habitz/internal/service/user"
	"habitz/internal/service/workout"
	"habitz/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.Migrate(context.Background(), dbConn); err != nil {
		log.Fatal("DB migration failed", zap.Error(err))
	}

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("MQ publisher initialization failed", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(dbConn)
	habitRepo := repository.NewHabitRepository(dbConn, log)
	completionRepo := repository.NewCompletionRepository(dbConn)
	foodRepo := repository.NewFoodRepository(dbConn, log)
	workoutRepo := repository.NewWorkoutRepository(dbConn, log)
	fastRepo := repository.NewFastRepository(dbConn, log)
	mealRepo := repository.NewMealRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Services
	userService := user.NewService(userRepo, cfg.JWT.Secret, log)
	calorieService := calorie.NewService(foodRepo, log)
	workoutService := workout.NewService(workoutRepo, publisher, log)
	fastingService := fasting.NewService(fastRepo, publisher, log)
	mealService := meal.NewService(mealRepo, userRepo, log)

	registry := habit.NewRegistry(habitRepo, log)
	predicates := habit.NewPredicates(workoutRepo, foodRepo, fastRepo, mealRepo)
	aggregator := habit.NewAggregator(habitRepo, completionRepo, predicates, log)

	// Handlers
	authHandler := api.NewAuthHandler(userService)
	habitHandler := api.NewHabitHandler(registry, aggregator)
	calorieHandler := api.NewCalorieHandler(calorieService)
	workoutHandler := api.NewWorkoutHandler(workoutService)
	fastingHandler := api.NewFastingHandler(fastingService)
	mealHandler := api.NewMealHandler(mealService)
	notificationHandler := api.NewNotificationHandler(notificationRepo)

	router := api.NewRouter(
		authHandler,
		habitHandler,
		calorieHandler,
		workoutHandler,
		fastingHandler,
		mealHandler,
		notificationHandler,
		userService,
		rdb,
		cfg.JWT.Secret,
		log,
	)

	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
