// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/unclebandit/hvac-backend/internal/app"
	"github.com/unclebandit/hvac-backend/internal/config"
	"github.com/unclebandit/hvac-backend/internal/db"
	"github.com/unclebandit/hvac-backend/internal/logger"
	"github.com/unclebandit/hvac-backend/internal/mailer"
	"github.com/unclebandit/hvac-backend/internal/queue"
	"github.com/unclebandit/hvac-backend/internal/seed"
)

func main() {
	dir := flag.String("dir", "seed", "directory of *.yaml seed files")
	migrateFirst := flag.Bool("migrate", true, "apply pending migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	log := logger.WithComponent("seeder")

	data, err := seed.LoadDir(*dir)
	if err != nil {
		log.WithError(err).Fatal("failed to load seed files")
	}

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer conn.Close()

	if *migrateFirst {
		if err := db.MigrateUp(conn); err != nil {
			log.WithError(err).Fatal("migrations failed")
		}
	}

	a, err := app.New(cfg, conn, queue.NewInMemoryQueue(), mailer.LogSender{})
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := seed.Store{Settings: a.Settings, Services: a.Services, Testimonials: a.Testimonials, Users: a.Users}
	if _, err := seed.Apply(ctx, store, data, os.Getenv("SEED_ADMIN_PASSWORD"), log); err != nil {
		log.WithError(err).Fatal("seeding failed")
	}
	log.Info("database seeding completed successfully")
}
