// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
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
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	log := logger.WithComponent("server")
	log.Info(cfg.String())

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer conn.Close()

	if err := db.MigrateUp(conn); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}

	// With a broker configured, cmd/worker delivers email. Otherwise the
	// server delivers in-process.
	var q queue.Queue
	var mem *queue.InMemoryQueue
	if cfg.Queue.AMQPURL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.Queue.AMQPURL)
		if err != nil {
			log.WithError(err).Fatal("rabbitmq unavailable")
		}
		defer amqpQueue.Close()
		q = amqpQueue
	} else {
		mem = queue.NewInMemoryQueue()
		q = mem
	}

	a, err := app.New(cfg, conn, q, mailer.NewSender(cfg.Email))
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}
	if mem != nil {
		if err := mem.Subscribe(queue.EmailSendsTopic, a.EmailWorker().Handle); err != nil {
			log.WithError(err).Fatal("subscribe email worker")
		}
		log.Info("no AMQP_URL set, delivering email in-process")
	}

	router, limiter := a.Router()
	stop := make(chan struct{})
	limiter.StartCleanup(time.Minute, stop)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	close(stop)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if mem != nil {
		mem.Wait()
	}
}
