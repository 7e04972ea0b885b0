// internal/service/email_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/hvac-backend/internal/mailer"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/queue"
)

// EmailService renders transactional emails and hands them to the queue.
// Delivery and logging happen in EmailWorker.
type EmailService struct {
	Queue        queue.Queue
	Templates    *mailer.Templates
	CompanyEmail string
	CompanyPhone string
	FrontendURL  string
	Now          func() time.Time
}

type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

type ReminderInput struct {
	To           string `json:"to" validate:"required,email"`
	CustomerName string `json:"customerName"`
	Subject      string `json:"subject" validate:"required"`
	Message      string `json:"message" validate:"required"`
}

func (s *EmailService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// build renders tpl into a message addressed to "to".
func (s *EmailService) build(kind model.EmailType, to, toName, subject, tpl string, data any) (model.EmailMessage, error) {
	body, err := s.Templates.Render(tpl, data)
	if err != nil {
		return model.EmailMessage{}, err
	}
	return model.EmailMessage{
		ID:       uuid.NewString(),
		Type:     kind,
		To:       to,
		ToName:   toName,
		Subject:  subject,
		HTML:     body,
		Text:     mailer.PlainText(body),
		QueuedAt: s.now(),
	}, nil
}

func (s *EmailService) enqueue(msg model.EmailMessage) error {
	if err := s.Queue.Publish(queue.EmailSendsTopic, msg); err != nil {
		return fmt.Errorf("enqueue %s email to %s: %w", msg.Type, msg.To, err)
	}
	return nil
}

func (s *EmailService) ServiceRequestReceived(_ context.Context, sr *model.ServiceRequest) error {
	data := mailer.ServiceRequestData{
		CustomerName:  sr.CustomerName,
		ServiceType:   sr.ServiceType,
		PreferredDate: sr.PreferredDate,
		PreferredTime: deref(sr.PreferredTime),
		CompanyPhone:  s.CompanyPhone,
	}
	msg, err := s.build(model.EmailConfirmation, sr.Email, sr.CustomerName,
		"Service Request Received - HVAC Company", mailer.TplServiceRequestReceived, data)
	if err != nil {
		return err
	}
	return s.enqueue(msg)
}

func (s *EmailService) AppointmentConfirmed(_ context.Context, sr *model.ServiceRequest) error {
	if sr.ScheduledDate == nil {
		return fmt.Errorf("service request %d has no scheduled date", sr.ID)
	}
	data := mailer.AppointmentData{
		CustomerName:  sr.CustomerName,
		ServiceType:   sr.ServiceType,
		ScheduledDate: *sr.ScheduledDate,
		Technician:    deref(sr.AssignedTechnician),
		CompanyPhone:  s.CompanyPhone,
	}
	msg, err := s.build(model.EmailAppointment, sr.Email, sr.CustomerName,
		"Service Appointment Confirmed - HVAC Company", mailer.TplAppointmentConfirmed, data)
	if err != nil {
		return err
	}
	return s.enqueue(msg)
}

// Contact relays a contact form to the company inbox and confirms receipt
// to the sender.
func (s *EmailService) Contact(_ context.Context, in ContactInput) error {
	subject := strings.TrimSpace(in.Subject)
	data := mailer.ContactData{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Subject:      subject,
		Message:      in.Message,
		CompanyPhone: s.CompanyPhone,
	}

	relaySubject := "Contact Form: New Message"
	if subject != "" {
		relaySubject = "Contact Form: " + subject
	}
	relay, err := s.build(model.EmailContact, s.CompanyEmail, "", relaySubject, mailer.TplContactRelay, data)
	if err != nil {
		return err
	}
	relay.ReplyTo = in.Email

	confirm, err := s.build(model.EmailContact, in.Email, in.Name,
		"We received your message - HVAC Company", mailer.TplContactConfirmation, data)
	if err != nil {
		return err
	}

	if err := s.enqueue(relay); err != nil {
		return err
	}
	return s.enqueue(confirm)
}

func (s *EmailService) ManualReminder(_ context.Context, in ReminderInput) error {
	data := mailer.ManualReminderData{CustomerName: in.CustomerName, Message: in.Message}
	msg, err := s.build(model.EmailReminder, in.To, in.CustomerName, in.Subject, mailer.TplManualReminder, data)
	if err != nil {
		return err
	}
	return s.enqueue(msg)
}

func (s *EmailService) EstimateSent(_ context.Context, e *model.Estimate, items []model.EstimateItem) error {
	if e.CustomerEmail == nil || *e.CustomerEmail == "" {
		return fmt.Errorf("estimate %s has no customer email", e.EstimateNumber)
	}
	lines := make([]model.LineItem, len(items))
	for i, it := range items {
		lines[i] = it.LineItem
	}
	data := mailer.DocumentData{
		CustomerName:   deref(e.CustomerName),
		Number:         e.EstimateNumber,
		Title:          e.Title,
		Items:          lines,
		Subtotal:       e.Subtotal,
		DiscountAmount: e.DiscountAmount,
		TaxAmount:      e.TaxAmount,
		Total:          e.Total,
		ValidUntil:     e.ValidUntil,
		CompanyPhone:   s.CompanyPhone,
	}
	msg, err := s.build(model.EmailEstimate, *e.CustomerEmail, deref(e.CustomerName),
		fmt.Sprintf("Your Estimate %s - HVAC Company", e.EstimateNumber), mailer.TplEstimateSent, data)
	if err != nil {
		return err
	}
	msg.CustomerID = &e.CustomerID
	return s.enqueue(msg)
}

func (s *EmailService) InvoiceSent(_ context.Context, inv *model.Invoice, items []model.InvoiceItem) error {
	if inv.CustomerEmail == nil || *inv.CustomerEmail == "" {
		return fmt.Errorf("invoice %s has no customer email", inv.InvoiceNumber)
	}
	lines := make([]model.LineItem, len(items))
	for i, it := range items {
		lines[i] = it.LineItem
	}
	data := mailer.DocumentData{
		CustomerName:   deref(inv.CustomerName),
		Number:         inv.InvoiceNumber,
		Items:          lines,
		Subtotal:       inv.Subtotal,
		DiscountAmount: inv.DiscountAmount,
		TaxAmount:      inv.TaxAmount,
		Total:          inv.Total,
		BalanceDue:     inv.BalanceDue,
		DueDate:        inv.DueDate,
		CompanyPhone:   s.CompanyPhone,
	}
	msg, err := s.build(model.EmailInvoice, *inv.CustomerEmail, deref(inv.CustomerName),
		fmt.Sprintf("Invoice %s - HVAC Company", inv.InvoiceNumber), mailer.TplInvoiceSent, data)
	if err != nil {
		return err
	}
	msg.CustomerID = &inv.CustomerID
	return s.enqueue(msg)
}

// MaintenanceReminder renders the annual reminder for c without queueing it.
func (s *EmailService) MaintenanceReminder(c model.ReminderCandidate) (model.EmailMessage, error) {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	data := mailer.MaintenanceReminderData{
		CustomerName:    name,
		EquipmentType:   c.EquipmentTypes,
		LastServiceDate: c.LastServiceDate,
		BookingURL:      strings.TrimRight(s.FrontendURL, "/") + "/book-service",
		CompanyPhone:    s.CompanyPhone,
	}
	msg, err := s.build(model.EmailMaintenance, c.Email, name,
		MaintenanceReminderSubject, mailer.TplMaintenanceReminder, data)
	if err != nil {
		return model.EmailMessage{}, err
	}
	msg.CustomerID = &c.CustomerID
	return msg, nil
}

const MaintenanceReminderSubject = "Time for Your Annual HVAC Maintenance!"

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
