package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// DocumentMailer is the part of EmailService used by estimates and invoices.
type DocumentMailer interface {
	EstimateSent(ctx context.Context, e *model.Estimate, items []model.EstimateItem) error
	InvoiceSent(ctx context.Context, inv *model.Invoice, items []model.InvoiceItem) error
}

type EstimateService struct {
	Estimates repository.EstimateRepositoryInterface
	Mailer    DocumentMailer
	Log       *logrus.Entry
	Now       func() time.Time
}

func (s *EstimateService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *EstimateService) price(e *model.Estimate, items []model.LineItem) {
	if e.DiscountType == "" {
		e.DiscountType = model.DiscountFixed
	}
	e.ApplyTotals(CalculateTotals(items, e.Discount, e.DiscountType, e.TaxRate))
}

func (s *EstimateService) Create(ctx context.Context, e *model.Estimate, items []model.LineItem) error {
	s.price(e, items)
	e.EstimateNumber = newNumber(EstimatePrefix, s.now())
	e.Status = model.EstimateDraft
	return s.Estimates.Create(ctx, e, items)
}

// Update reprices the estimate. An omitted status leaves the stored one.
func (s *EstimateService) Update(ctx context.Context, e *model.Estimate, items []model.LineItem) error {
	s.price(e, items)
	return s.Estimates.Update(ctx, e, items)
}

// Get returns the estimate with its items.
func (s *EstimateService) Get(ctx context.Context, id int) (*model.Estimate, error) {
	e, err := s.Estimates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Items, err = s.Estimates.Items(ctx, id); err != nil {
		return nil, err
	}
	return e, nil
}

// Send marks the estimate sent and queues it to the customer.
func (s *EstimateService) Send(ctx context.Context, id int) (*model.Estimate, error) {
	e, err := s.Estimates.MarkSent(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Items, err = s.Estimates.Items(ctx, id); err != nil {
		return nil, err
	}
	if err := s.Mailer.EstimateSent(ctx, e, e.Items); err != nil {
		s.Log.WithError(err).WithField("estimate", e.EstimateNumber).Warn("estimate email not queued")
	}
	return e, nil
}

// Convert turns an estimate into a scheduled job for the same customer and
// approves the estimate.
func (s *EstimateService) Convert(ctx context.Context, id int) (*model.Job, error) {
	e, err := s.Estimates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.JobID != nil {
		return nil, appErrors.NewConflict("Estimate %s has already been converted", e.EstimateNumber)
	}
	if e.Status == model.EstimateDeclined || e.Status == model.EstimateExpired {
		return nil, appErrors.NewConflict("Estimate %s is %s and cannot be converted", e.EstimateNumber, e.Status)
	}

	job := &model.Job{
		JobNumber:   newNumber(JobPrefix, s.now()),
		CustomerID:  e.CustomerID,
		ServiceType: e.Title,
		Description: e.Description,
		Priority:    model.PriorityNormal,
		Status:      model.JobScheduled,
		Notes:       e.Notes,
	}
	if err := s.Estimates.Convert(ctx, id, job); err != nil {
		return nil, err
	}
	return job, nil
}
