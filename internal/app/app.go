// internal/app/app.go
package app

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/hvac-backend/internal/auth"
	"github.com/unclebandit/hvac-backend/internal/config"
	"github.com/unclebandit/hvac-backend/internal/controller"
	"github.com/unclebandit/hvac-backend/internal/handler"
	"github.com/unclebandit/hvac-backend/internal/logger"
	"github.com/unclebandit/hvac-backend/internal/mailer"
	"github.com/unclebandit/hvac-backend/internal/middleware"
	"github.com/unclebandit/hvac-backend/internal/queue"
	"github.com/unclebandit/hvac-backend/internal/repository"
	"github.com/unclebandit/hvac-backend/internal/service"
)

// App holds the repositories and services shared by the binaries.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Queue  queue.Queue
	Sender mailer.Sender
	Tokens *auth.TokenManager

	Users           *repository.UserRepository
	Customers       *repository.CustomerRepository
	Equipment       *repository.EquipmentRepository
	Services        *repository.ServiceRepository
	Blog            *repository.BlogRepository
	Testimonials    *repository.TestimonialRepository
	ServiceRequests *repository.ServiceRequestRepository
	Settings        *repository.SettingsRepository
	EmailLogs       *repository.EmailLogRepository
	Technicians     *repository.TechnicianRepository
	Jobs            *repository.JobRepository
	Inventory       *repository.InventoryRepository
	Estimates       *repository.EstimateRepository
	Invoices        *repository.InvoiceRepository
	Dispatch        *repository.DispatchRepository
	Timesheets      *repository.TimesheetRepository
	Reports         *repository.ReportRepository
	Maintenance     *repository.MaintenanceRepository

	Email *service.EmailService
}

// New wires repositories over conn. q carries outbound email; sender is
// used by the email worker and the reminder job.
func New(cfg *config.Config, conn *sql.DB, q queue.Queue, sender mailer.Sender) (*App, error) {
	templates, err := mailer.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	a := &App{
		Config: cfg,
		DB:     conn,
		Queue:  q,
		Sender: sender,
		Tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiresIn),

		Users:           &repository.UserRepository{DB: conn},
		Customers:       &repository.CustomerRepository{DB: conn},
		Equipment:       &repository.EquipmentRepository{DB: conn},
		Services:        &repository.ServiceRepository{DB: conn},
		Blog:            &repository.BlogRepository{DB: conn},
		Testimonials:    &repository.TestimonialRepository{DB: conn},
		ServiceRequests: &repository.ServiceRequestRepository{DB: conn},
		Settings:        &repository.SettingsRepository{DB: conn},
		EmailLogs:       &repository.EmailLogRepository{DB: conn},
		Technicians:     &repository.TechnicianRepository{DB: conn},
		Jobs:            &repository.JobRepository{DB: conn},
		Inventory:       &repository.InventoryRepository{DB: conn},
		Estimates:       &repository.EstimateRepository{DB: conn},
		Invoices:        &repository.InvoiceRepository{DB: conn},
		Dispatch:        &repository.DispatchRepository{DB: conn},
		Timesheets:      &repository.TimesheetRepository{DB: conn},
		Reports:         &repository.ReportRepository{DB: sqlx.NewDb(conn, "postgres")},
		Maintenance:     &repository.MaintenanceRepository{DB: conn},
	}

	a.Email = &service.EmailService{
		Queue:        q,
		Templates:    templates,
		CompanyEmail: cfg.Email.From,
		CompanyPhone: cfg.Email.CompanyPhone,
		FrontendURL:  cfg.FrontendURL,
	}
	return a, nil
}

// EmailWorker consumes the email_sends topic.
func (a *App) EmailWorker() *service.EmailWorker {
	return service.NewEmailWorker(a.Sender, a.EmailLogs, logger.WithComponent("email-worker"))
}

func (a *App) Cleanup() *service.CleanupService {
	return &service.CleanupService{Repo: a.Maintenance, Log: logger.WithComponent("cleanup")}
}

func (a *App) Reminders() *service.ReminderService {
	return service.NewReminderService(a.Maintenance, a.Email, a.Sender, a.EmailLogs, logger.WithComponent("reminders"))
}

func (a *App) AuthService() *service.AuthService {
	return &service.AuthService{Users: a.Users, Tokens: a.Tokens}
}

// Controllers builds every HTTP controller.
func (a *App) Controllers() handler.Controllers {
	log := logger.WithComponent("api")
	return handler.Controllers{
		Auth: &controller.AuthController{Service: a.AuthService()},
		Customers: &controller.CustomerController{
			Repo:    a.Customers,
			Details: &service.CustomerService{Customers: a.Customers, Equipment: a.Equipment},
		},
		Equipment:    &controller.EquipmentController{Repo: a.Equipment},
		Services:     &controller.ServiceController{Repo: a.Services},
		Blog:         &controller.BlogController{Repo: a.Blog},
		Testimonials: &controller.TestimonialController{Repo: a.Testimonials},
		ServiceRequests: &controller.ServiceRequestController{
			Repo:     a.ServiceRequests,
			Workflow: &service.ServiceRequestService{Requests: a.ServiceRequests, Mailer: a.Email, Log: log},
		},
		Settings:    &controller.SettingsController{Repo: a.Settings},
		Email:       &controller.EmailController{Mailer: a.Email, LogRepo: a.EmailLogs},
		Technicians: &controller.TechnicianController{Repo: a.Technicians},
		Jobs: &controller.JobController{
			Repo:     a.Jobs,
			Workflow: &service.JobService{Jobs: a.Jobs},
		},
		Inventory: &controller.InventoryController{
			Repo:  a.Inventory,
			Stock: &service.InventoryService{Inventory: a.Inventory},
		},
		Estimates: &controller.EstimateController{
			Repo:     a.Estimates,
			Workflow: &service.EstimateService{Estimates: a.Estimates, Mailer: a.Email, Log: log},
		},
		Invoices: &controller.InvoiceController{
			Repo:     a.Invoices,
			Workflow: &service.InvoiceService{Invoices: a.Invoices, Mailer: a.Email, Log: log},
		},
		Dispatch: &controller.DispatchController{
			Repo:       a.Dispatch,
			Dispatcher: &service.DispatchService{Dispatch: a.Dispatch},
		},
		Timesheets: &controller.TimesheetController{Repo: a.Timesheets},
		Reports:    &controller.ReportController{Reports: &service.ReportService{Reports: a.Reports}},
	}
}

// Router returns the HTTP handler and the rate limiter so the caller can
// run its cleanup loop.
func (a *App) Router() (http.Handler, *middleware.RateLimiter) {
	limiter := middleware.NewRateLimiter(a.Config.RateLimit.Requests, a.Config.RateLimit.Window)
	h := handler.NewRouter(a.Controllers(), handler.Options{
		Tokens:         a.Tokens,
		AllowedOrigins: []string{a.Config.FrontendURL},
		RateLimiter:    limiter,
		Version:        a.Config.Version,
		RequestTimeout: 60 * time.Second,
	})
	return h, limiter
}
