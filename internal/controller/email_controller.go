package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/unclebandit/hvac-backend/internal/repository"
	"github.com/unclebandit/hvac-backend/internal/service"
)

// Mailer queues the outbound emails exposed over HTTP.
type Mailer interface {
	Contact(ctx context.Context, in service.ContactInput) error
	ManualReminder(ctx context.Context, in service.ReminderInput) error
}

type EmailController struct {
	Mailer  Mailer
	LogRepo repository.EmailLogRepositoryInterface
}

func (c *EmailController) Contact(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Mailer.Contact(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Message sent successfully")
}

func (c *EmailController) SendReminder(w http.ResponseWriter, r *http.Request) {
	var in service.ReminderInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Mailer.ManualReminder(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Email sent successfully")
}

// Logs lists delivery attempts, newest first, optionally by email type.
func (c *EmailController) Logs(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logs, total, err := c.LogRepo.List(r.Context(), r.URL.Query().Get("type"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "logs", logs, page, total)
}

// Health reports liveness with the build version.
func Health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   version,
		})
	}
}
