package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/hvac-backend/internal/app"
	"github.com/unclebandit/hvac-backend/internal/config"
	"github.com/unclebandit/hvac-backend/internal/db"
	"github.com/unclebandit/hvac-backend/internal/logger"
	"github.com/unclebandit/hvac-backend/internal/mailer"
	"github.com/unclebandit/hvac-backend/internal/queue"
)

// consume attaches the email handler to the email_sends topic.
func consume(q queue.Queue, handle func(payload []byte) error) error {
	return q.Subscribe(queue.EmailSendsTopic, handle)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	log := logger.WithComponent("worker")

	if cfg.Queue.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the worker")
	}

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer conn.Close()

	q, err := queue.DialAMQP(cfg.Queue.AMQPURL)
	if err != nil {
		log.WithError(err).Fatal("rabbitmq unavailable")
	}
	defer q.Close()

	a, err := app.New(cfg, conn, q, mailer.NewSender(cfg.Email))
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}
	if err := consume(q, a.EmailWorker().Handle); err != nil {
		log.WithError(err).Fatal("failed to register consumer")
	}
	log.WithField("topic", queue.EmailSendsTopic).Info("worker running, waiting for messages")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down")
	case err := <-q.NotifyClose():
		log.WithField("reason", err).Error("rabbitmq connection closed")
		os.Exit(1)
	}
}
