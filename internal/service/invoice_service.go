package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type InvoiceService struct {
	Invoices repository.InvoiceRepositoryInterface
	Mailer   DocumentMailer
	Log      *logrus.Entry
	Now      func() time.Time
}

func (s *InvoiceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *InvoiceService) price(inv *model.Invoice, items []model.LineItem) {
	if inv.DiscountType == "" {
		inv.DiscountType = model.DiscountFixed
	}
	inv.ApplyTotals(CalculateTotals(items, inv.Discount, inv.DiscountType, inv.TaxRate))
}

func (s *InvoiceService) Create(ctx context.Context, inv *model.Invoice, items []model.LineItem) error {
	now := s.now()
	if inv.IssueDate.IsZero() {
		inv.IssueDate = now
	}
	inv.AmountPaid = 0
	inv.Status = model.InvoiceDraft
	inv.InvoiceNumber = newNumber(InvoicePrefix, now)
	s.price(inv, items)
	return s.Invoices.Create(ctx, inv, items)
}

// Update reprices the invoice. The stored amount paid is kept and the
// balance recomputed from it. Partial and paid follow from payments only, and
// an omitted status leaves the stored one in place.
func (s *InvoiceService) Update(ctx context.Context, inv *model.Invoice, items []model.LineItem) error {
	if inv.Status == model.InvoicePartial || inv.Status == model.InvoicePaid {
		return appErrors.NewValidation("status", "Status "+string(inv.Status)+" is set by recording payments")
	}
	if inv.IssueDate.IsZero() {
		inv.IssueDate = s.now()
	}
	s.price(inv, items)
	return s.Invoices.Update(ctx, inv, items)
}

// Get returns the invoice with its items and payments.
func (s *InvoiceService) Get(ctx context.Context, id int) (*model.Invoice, error) {
	inv, err := s.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Items, err = s.Invoices.Items(ctx, id); err != nil {
		return nil, err
	}
	if inv.Payments, err = s.Invoices.Payments(ctx, id); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) Send(ctx context.Context, id int) (*model.Invoice, error) {
	inv, err := s.Invoices.MarkSent(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Items, err = s.Invoices.Items(ctx, id); err != nil {
		return nil, err
	}
	if err := s.Mailer.InvoiceSent(ctx, inv, inv.Items); err != nil {
		s.Log.WithError(err).WithField("invoice", inv.InvoiceNumber).Warn("invoice email not queued")
	}
	return inv, nil
}

// RecordPayment applies p to its invoice and returns the updated invoice.
func (s *InvoiceService) RecordPayment(ctx context.Context, p *model.Payment) (*model.Invoice, error) {
	if p.Amount <= 0 {
		return nil, appErrors.NewValidation("amount", "Amount must be greater than 0")
	}
	inv, err := s.Invoices.GetByID(ctx, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvoiceVoid {
		return nil, appErrors.NewConflict("Invoice %s is void", inv.InvoiceNumber)
	}

	now := s.now()
	if p.PaymentDate.IsZero() {
		p.PaymentDate = now
	}
	p.Amount = model.RoundMoney(p.Amount)
	p.PaymentNumber = newNumber(PaymentPrefix, now)

	updated, err := s.Invoices.AddPayment(ctx, p)
	if err != nil {
		return nil, err
	}
	if updated.Payments, err = s.Invoices.Payments(ctx, p.InvoiceID); err != nil {
		return nil, err
	}
	return updated, nil
}
