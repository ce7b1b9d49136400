package main

import (
	"time"

	"go.uber.org/zap"

	"habitz/internal/config"
	"habitz/internal/db"
	"habitz/internal/mq"
	"habitz/internal/mqhandler"
	redisclient "habitz/internal/redis"
	"habitz/internal/repository"
	"habitz/pkg/logger"
	"habitz/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting worker service...")

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour, log)

	notificationRepo := repository.NewNotificationRepository(dbConn)
	workoutHandler := mqhandler.NewWorkoutCompletedHandler(notificationRepo, deduper, log)
	fastHandler := mqhandler.NewFastCompletedHandler(notificationRepo, deduper, log)

	// Consumer for workout.completed
	workoutConsumer, err := mq.NewConsumer(cfg.MQ.URL, "workout.completed.notify.q", mq.RoutingKeyWorkoutCompleted, log)
	if err != nil {
		log.Fatal("failed to init workout consumer", zap.Error(err))
	}
	workoutConsumer.SetHandler(workoutHandler.HandleWorkoutCompleted)
	go func() {
		log.Info("Starting workout consumer", zap.String("queue", "workout.completed.notify.q"))
		if err := workoutConsumer.StartConsuming(); err != nil {
			log.Fatal("workout consumer failed", zap.Error(err))
		}
	}()
	defer workoutConsumer.Close()

	// Consumer for fast.completed
	fastConsumer, err := mq.NewConsumer(cfg.MQ.URL, "fast.completed.notify.q", mq.RoutingKeyFastCompleted, log)
	if err != nil {
		log.Fatal("failed to init fast consumer", zap.Error(err))
	}
	fastConsumer.SetHandler(fastHandler.HandleFastCompleted)
	go func() {
		log.Info("Starting fast consumer", zap.String("queue", "fast.completed.notify.q"))
		if err := fastConsumer.StartConsuming(); err != nil {
			log.Fatal("fast consumer failed", zap.Error(err))
		}
	}()
	defer fastConsumer.Close()

	log.Info("All consumers started, worker is ready to process messages")

	select {}
}
