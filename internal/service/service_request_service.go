package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// RequestMailer is the part of EmailService used by service requests.
type RequestMailer interface {
	ServiceRequestReceived(ctx context.Context, sr *model.ServiceRequest) error
	AppointmentConfirmed(ctx context.Context, sr *model.ServiceRequest) error
}

type ServiceRequestService struct {
	Requests repository.ServiceRequestRepositoryInterface
	Mailer   RequestMailer
	Log      *logrus.Entry
}

// Create stores a new pending request and queues the acknowledgement. An
// email failure is logged; the request is kept.
func (s *ServiceRequestService) Create(ctx context.Context, sr *model.ServiceRequest) error {
	sr.Status = model.RequestPending
	if err := s.Requests.Create(ctx, sr); err != nil {
		return err
	}
	if err := s.Mailer.ServiceRequestReceived(ctx, sr); err != nil {
		s.Log.WithError(err).WithField("request_id", sr.ID).Warn("confirmation email not queued")
	}
	return nil
}

// Update applies the office fields. Confirming with a scheduled date queues
// the appointment email.
func (s *ServiceRequestService) Update(ctx context.Context, id int, upd model.ServiceRequestUpdate) (*model.ServiceRequest, error) {
	sr, err := s.Requests.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if sr.Status == model.RequestConfirmed && sr.ScheduledDate != nil {
		if err := s.Mailer.AppointmentConfirmed(ctx, sr); err != nil {
			s.Log.WithError(err).WithField("request_id", sr.ID).Warn("appointment email not queued")
		}
	}
	return sr, nil
}
