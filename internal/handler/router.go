// internal/handler/router.go
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/hvac-backend/internal/controller"
	"github.com/unclebandit/hvac-backend/internal/metrics"
	"github.com/unclebandit/hvac-backend/internal/middleware"
)

// Controllers groups every HTTP controller mounted under /api.
type Controllers struct {
	Auth            *controller.AuthController
	Customers       *controller.CustomerController
	Equipment       *controller.EquipmentController
	Services        *controller.ServiceController
	Blog            *controller.BlogController
	Testimonials    *controller.TestimonialController
	ServiceRequests *controller.ServiceRequestController
	Settings        *controller.SettingsController
	Email           *controller.EmailController
	Technicians     *controller.TechnicianController
	Jobs            *controller.JobController
	Inventory       *controller.InventoryController
	Estimates       *controller.EstimateController
	Invoices        *controller.InvoiceController
	Dispatch        *controller.DispatchController
	Timesheets      *controller.TimesheetController
	Reports         *controller.ReportController
}

type Options struct {
	Tokens         middleware.TokenParser
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
	Version        string
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP surface. Public routes come first in each
// group; everything else needs a bearer token and some routes also need
// the admin role.
func NewRouter(c Controllers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.NewCORS(opts.AllowedOrigins...).Handler)
	r.Use(metrics.InstrumentHandler)
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	authn := middleware.Authenticate(opts.Tokens)
	admin := middleware.RequireAdmin

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Handler)
		}

		r.Get("/health", controller.Health(opts.Version))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", c.Auth.Login)
			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.With(admin).Post("/register", c.Auth.Register)
				r.Get("/profile", c.Auth.Profile)
				r.Put("/profile", c.Auth.UpdateProfile)
				r.Put("/change-password", c.Auth.ChangePassword)
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", c.Customers.List)
			r.Post("/", c.Customers.Create)
			r.Get("/due-maintenance", c.Customers.DueMaintenance)
			r.Post("/service-history", c.Customers.AddServiceHistory)
			r.Get("/{id}", c.Customers.Get)
			r.Put("/{id}", c.Customers.Update)
			r.With(admin).Delete("/{id}", c.Customers.Delete)
		})

		r.Route("/equipment", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", c.Equipment.List)
			r.Post("/", c.Equipment.Create)
			r.Get("/due-maintenance", c.Equipment.DueMaintenance)
			r.Get("/{id}", c.Equipment.Get)
			r.Put("/{id}", c.Equipment.Update)
			r.With(admin).Delete("/{id}", c.Equipment.Delete)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", c.Services.List)
			r.Get("/{id}", c.Services.Get)
			r.Group(func(r chi.Router) {
				r.Use(authn, admin)
				r.Post("/", c.Services.Create)
				r.Put("/{id}", c.Services.Update)
				r.Delete("/{id}", c.Services.Delete)
			})
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", c.Blog.List)
			r.Get("/slug/{slug}", c.Blog.GetBySlug)
			r.Get("/{id}", c.Blog.Get)
			r.Group(func(r chi.Router) {
				r.Use(authn, admin)
				r.Post("/", c.Blog.Create)
				r.Put("/{id}", c.Blog.Update)
				r.Delete("/{id}", c.Blog.Delete)
			})
		})

		r.Route("/testimonials", func(r chi.Router) {
			r.Get("/", c.Testimonials.List)
			r.Get("/{id}", c.Testimonials.Get)
			r.Post("/", c.Testimonials.Create)
			r.Group(func(r chi.Router) {
				r.Use(authn, admin)
				r.Put("/{id}", c.Testimonials.Update)
				r.Patch("/{id}/approve", c.Testimonials.Approve)
				r.Delete("/{id}", c.Testimonials.Delete)
			})
		})

		r.Route("/service-requests", func(r chi.Router) {
			r.Post("/", c.ServiceRequests.Create)
			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/", c.ServiceRequests.List)
				r.Get("/{id}", c.ServiceRequests.Get)
				r.Patch("/{id}", c.ServiceRequests.Update)
				r.With(admin).Delete("/{id}", c.ServiceRequests.Delete)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", c.Settings.All)
			r.Get("/pages", c.Settings.Pages)
			r.Get("/pages/{pageId}", c.Settings.Page)
			r.Get("/{key}", c.Settings.Get)
			r.Group(func(r chi.Router) {
				r.Use(authn, admin)
				r.Put("/", c.Settings.Update)
				r.Put("/pages/{pageId}", c.Settings.UpdatePage)
			})
		})

		r.Route("/email", func(r chi.Router) {
			r.Post("/contact", c.Email.Contact)
			r.Group(func(r chi.Router) {
				r.Use(authn, admin)
				r.Post("/send-reminder", c.Email.SendReminder)
				r.Get("/logs", c.Email.Logs)
			})
		})

		r.Route("/technicians", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", c.Technicians.List)
			r.Post("/", c.Technicians.Create)
			r.Get("/{id}", c.Technicians.Get)
			r.Put("/{id}", c.Technicians.Update)
			r.With(admin).Delete("/{id}", c.Technicians.Delete)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", c.Jobs.List)
			r.Post("/", c.Jobs.Create)
			r.Get("/{id}", c.Jobs.Get)
			r.Put("/{id}", c.Jobs.Update)
			r.Patch("/{id}/status", c.Jobs.UpdateStatus)
			r.With(admin).Delete("/{id}", c.Jobs.Delete)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", c.Inventory.List)
			r.Post("/", c.Inventory.Create)
			r.Get("/categories", c.Inventory.Categories)
			r.Get("/low-stock", c.Inventory.LowStock)
			r.With(admin).Post("/import", c.Inventory.Import)
			r.Get("/{id}", c.Inventory.Get)
			r.Put("/{id}", c.Inventory.Update)
			r.Patch("/{id}/stock", c.Inventory.AdjustStock)
			r.With(admin).Delete("/{id}", c.Inventory.Delete)
		})

		r.Route("/estimates", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", c.Estimates.List)
			r.Post("/", c.Estimates.Create)
			r.Get("/{id}", c.Estimates.Get)
			r.Put("/{id}", c.Estimates.Update)
			r.Post("/{id}/send", c.Estimates.Send)
			r.Post("/{id}/convert", c.Estimates.Convert)
			r.Delete("/{id}", c.Estimates.Delete)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", c.Invoices.List)
			r.Post("/", c.Invoices.Create)
			r.Get("/{id}", c.Invoices.Get)
			r.Put("/{id}", c.Invoices.Update)
			r.Post("/{id}/send", c.Invoices.Send)
			r.Post("/{id}/payments", c.Invoices.AddPayment)
			r.Delete("/{id}", c.Invoices.Delete)
		})

		r.Route("/dispatch", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", c.Dispatch.Board)
			r.Post("/", c.Dispatch.Create)
			r.Patch("/{id}/status", c.Dispatch.UpdateStatus)
		})

		r.Route("/timesheets", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", c.Timesheets.List)
			r.Post("/", c.Timesheets.ClockIn)
			r.Patch("/{id}/clock-out", c.Timesheets.ClockOut)
			r.With(admin).Patch("/{id}/approve", c.Timesheets.Approve)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(authn)
			r.Get("/dashboard", c.Reports.Dashboard)
			r.Get("/revenue", c.Reports.Revenue())
			r.Get("/revenue/export", c.Reports.ExportRevenue)
			r.Get("/technicians", c.Reports.Technicians())
			r.Get("/jobs", c.Reports.Jobs())
			r.Get("/services", c.Reports.Services())
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Route not found"}`))
	})

	return r
}
