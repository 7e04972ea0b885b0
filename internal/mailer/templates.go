package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/unclebandit/hvac-backend/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	TplServiceRequestReceived = "service_request_received"
	TplAppointmentConfirmed   = "appointment_confirmed"
	TplContactRelay           = "contact_relay"
	TplContactConfirmation    = "contact_confirmation"
	TplManualReminder         = "manual_reminder"
	TplMaintenanceReminder    = "maintenance_reminder"
	TplEstimateSent           = "estimate_sent"
	TplInvoiceSent            = "invoice_sent"
)

type ServiceRequestData struct {
	CustomerName  string
	ServiceType   string
	PreferredDate time.Time
	PreferredTime string
	CompanyPhone  string
}

type AppointmentData struct {
	CustomerName  string
	ServiceType   string
	ScheduledDate time.Time
	Technician    string
	CompanyPhone  string
}

type ContactData struct {
	Name         string
	Email        string
	Phone        string
	Subject      string
	Message      string
	CompanyPhone string
}

type ManualReminderData struct {
	CustomerName string
	Message      string
}

type MaintenanceReminderData struct {
	CustomerName    string
	EquipmentType   string
	LastServiceDate *time.Time
	BookingURL      string
	CompanyPhone    string
}

// DocumentData renders an estimate or invoice summary.
type DocumentData struct {
	CustomerName   string
	Number         string
	Title          string
	Items          []model.LineItem
	Subtotal       float64
	DiscountAmount float64
	TaxAmount      float64
	Total          float64
	BalanceDue     float64
	ValidUntil     *time.Time
	DueDate        *time.Time
	CompanyPhone   string
}

var funcs = template.FuncMap{
	"date":  formatDate,
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"lines": func(s string) []string {
		return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	},
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("January 2, 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("January 2, 2006")
	}
	return ""
}

// Templates holds the parsed email bodies.
type Templates struct {
	t *template.Template
}

func LoadTemplates() (*Templates, error) {
	t, err := template.New("email").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Templates{t: t}, nil
}

// Render executes a named template into an HTML string.
func (t *Templates) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	blankPattern = regexp.MustCompile(`\n\s*\n+`)
)

// PlainText derives the text/plain alternative from an HTML body.
func PlainText(body string) string {
	text := strings.ReplaceAll(body, "<br>", "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(blankPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
