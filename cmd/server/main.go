package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ridgeworks/config"
	"ridgeworks/internal/database"
	"ridgeworks/internal/feed"
	"ridgeworks/internal/jobs"
	"ridgeworks/internal/repository"
	"ridgeworks/internal/router"
	"ridgeworks/internal/service"
	"ridgeworks/pkg/cloudinary"
	"ridgeworks/pkg/logger"
	"ridgeworks/pkg/mailer"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		zlog.Fatalw("database", "err", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatalw("migrate", "err", err)
	}
	database.SeedAdmin(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zlog.Warnw("redis unavailable, change feed disabled", "addr", cfg.Redis.Addr, "err", err)
		rdb.Close()
		rdb = nil
	}

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		zlog.Fatalw("cloudinary", "err", err)
	}

	var mail mailer.Mailer
	if cfg.Email.Enabled {
		sesMailer, err := mailer.NewSESMailer(context.Background(), cfg.Email.AWSRegion, cfg.Email.From)
		if err != nil {
			zlog.Warnw("ses unavailable, email disabled", "err", err)
		} else {
			mail = sesMailer
		}
	}

	engine, hub := router.Setup(cfg, db, rdb, cloud, mail, zlog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if rdb != nil {
		sub := feed.NewSubscriber(rdb, hub, zlog)
		go sub.Run(ctx)
	}

	contractRepo := repository.NewContractRepository(db)
	clientRepo := repository.NewClientRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)
	var feedPub service.FeedPublisher
	if rdb != nil {
		feedPub = feed.NewPublisher(rdb, zlog)
	}
	dispatcher := service.NewDispatcher(notifRepo, userRepo, emailLogRepo, mail, feedPub, zlog)
	runner := jobs.NewRunner(db, rdb, contractRepo, clientRepo, dispatcher, zlog)
	if err := runner.Start(); err != nil {
		zlog.Fatalw("cron", "err", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		zlog.Infow("server listening", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatalw("listen", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Infow("shutting down")

	runner.Stop()
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatalw("server shutdown", "err", err)
	}
	zlog.Infow("server stopped")
}
