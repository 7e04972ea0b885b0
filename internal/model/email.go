// internal/model/email.go
package model

import "time"

type EmailType string

const (
	EmailConfirmation EmailType = "confirmation"
	EmailAppointment  EmailType = "appointment"
	EmailContact      EmailType = "contact"
	EmailReminder     EmailType = "reminder"
	EmailMaintenance  EmailType = "maintenance_reminder"
	EmailEstimate     EmailType = "estimate"
	EmailInvoice      EmailType = "invoice"
)

// EmailMessage is a rendered email waiting on the email_sends queue.
type EmailMessage struct {
	ID         string    `json:"id"`
	Type       EmailType `json:"type"`
	To         string    `json:"to"`
	ToName     string    `json:"toName,omitempty"`
	ReplyTo    string    `json:"replyTo,omitempty"`
	Subject    string    `json:"subject"`
	HTML       string    `json:"html"`
	Text       string    `json:"text"`
	CustomerID *int      `json:"customerId,omitempty"`
	QueuedAt   time.Time `json:"queuedAt"`
}

const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog is a delivery attempt recorded after a send.
type EmailLog struct {
	ID             int       `db:"id" json:"id"`
	CustomerID     *int      `db:"customer_id" json:"customerId"`
	RecipientEmail string    `db:"recipient_email" json:"recipientEmail"`
	RecipientName  *string   `db:"recipient_name" json:"recipientName"`
	Subject        string    `db:"subject" json:"subject"`
	EmailType      EmailType `db:"email_type" json:"emailType"`
	Status         string    `db:"status" json:"status"`
	ErrorMessage   *string   `db:"error_message" json:"errorMessage"`
	SentAt         time.Time `db:"sent_at" json:"sentAt"`
}

// ReminderCandidate is a customer eligible for the annual maintenance email.
type ReminderCandidate struct {
	CustomerID      int
	FirstName       string
	LastName        string
	Email           string
	LastServiceDate *time.Time
	EquipmentTypes  string
}

// CleanupResult holds the row counts removed by the retention job.
type CleanupResult struct {
	EmailLogsDeleted         int64 `json:"emailLogsDeleted"`
	CancelledRequestsDeleted int64 `json:"cancelledRequestsDeleted"`
	CompletedRequestsDeleted int64 `json:"completedRequestsDeleted"`
	TablesAnalyzed           int   `json:"tablesAnalyzed"`
}

// ReminderResult summarises one maintenance reminder sweep.
type ReminderResult struct {
	Candidates int `json:"candidates"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}
