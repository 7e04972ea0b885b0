package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/hvac-backend/internal/mailer"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// ReminderRenderer builds the maintenance reminder message.
type ReminderRenderer interface {
	MaintenanceReminder(c model.ReminderCandidate) (model.EmailMessage, error)
}

// ReminderService sends the annual maintenance reminders. Emails are sent
// directly, not queued.
type ReminderService struct {
	Repo     repository.MaintenanceRepositoryInterface
	Renderer ReminderRenderer
	Delivery *EmailWorker
	Log      *logrus.Entry
	Now      func() time.Time
}

func NewReminderService(repo repository.MaintenanceRepositoryInterface, renderer ReminderRenderer,
	sender mailer.Sender, logs EmailLogWriter, log *logrus.Entry) *ReminderService {
	return &ReminderService{
		Repo:     repo,
		Renderer: renderer,
		Delivery: NewEmailWorker(sender, logs, log),
		Log:      log,
	}
}

// Run sweeps every candidate. A failure for one customer is logged and
// counted; the sweep continues until ctx is done.
func (s *ReminderService) Run(ctx context.Context) (*model.ReminderResult, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	candidates, err := s.Repo.ReminderCandidates(ctx, now)
	if err != nil {
		return nil, err
	}
	res := &model.ReminderResult{Candidates: len(candidates)}
	s.Log.WithField("candidates", len(candidates)).Info("maintenance reminder sweep started")

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			s.Log.WithError(err).WithFields(logrus.Fields{"sent": res.Sent, "failed": res.Failed}).
				Warn("maintenance reminder sweep stopped early")
			return res, err
		}
		log := s.Log.WithField("customer_id", c.CustomerID)

		msg, err := s.Renderer.MaintenanceReminder(c)
		if err != nil {
			log.WithError(err).Error("render maintenance reminder")
			res.Failed++
			continue
		}
		if err := s.Delivery.Deliver(ctx, msg); err != nil {
			res.Failed++
			continue
		}
		if err := s.Repo.RecordReminder(ctx, c.CustomerID, now); err != nil {
			log.WithError(err).Error("update maintenance schedule")
		}
		res.Sent++
	}

	s.Log.WithFields(logrus.Fields{"sent": res.Sent, "failed": res.Failed}).Info("maintenance reminder sweep finished")
	return res, nil
}
