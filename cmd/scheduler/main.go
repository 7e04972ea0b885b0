package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/hvac-backend/internal/app"
	"github.com/unclebandit/hvac-backend/internal/config"
	"github.com/unclebandit/hvac-backend/internal/db"
	"github.com/unclebandit/hvac-backend/internal/logger"
	"github.com/unclebandit/hvac-backend/internal/mailer"
	"github.com/unclebandit/hvac-backend/internal/queue"
	"github.com/unclebandit/hvac-backend/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	log := logger.WithComponent("scheduler")

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer conn.Close()

	// Reminders are sent directly, so the queue is never published to here.
	a, err := app.New(cfg, conn, queue.NewInMemoryQueue(), mailer.NewSender(cfg.Email))
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}

	s := scheduler.New(log, 30*time.Minute)
	if err := scheduler.Register(s, cfg.Schedule.Cleanup, a.Cleanup(), cfg.Schedule.Reminders, a.Reminders()); err != nil {
		log.WithError(err).Fatal("invalid schedule")
	}
	s.Start()
	log.Info("scheduler running")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down, waiting for running tasks")
	s.Stop()
}
