package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// Retention windows for the nightly cleanup.
const (
	EmailLogRetention         = 90 * 24 * time.Hour
	CancelledRequestRetention = 30 * 24 * time.Hour
)

// CleanupService purges expired rows and refreshes table statistics.
type CleanupService struct {
	Repo repository.MaintenanceRepositoryInterface
	Log  *logrus.Entry
	Now  func() time.Time
}

func (s *CleanupService) Run(ctx context.Context) (*model.CleanupResult, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	res := &model.CleanupResult{}
	var err error

	if res.EmailLogsDeleted, err = s.Repo.DeleteEmailLogsBefore(ctx, now.Add(-EmailLogRetention)); err != nil {
		return res, fmt.Errorf("delete email logs: %w", err)
	}
	s.Log.WithField("deleted", res.EmailLogsDeleted).Info("old email logs deleted")

	if res.CancelledRequestsDeleted, err = s.Repo.DeleteServiceRequestsBefore(ctx, model.RequestCancelled,
		now.Add(-CancelledRequestRetention)); err != nil {
		return res, fmt.Errorf("delete cancelled requests: %w", err)
	}
	s.Log.WithField("deleted", res.CancelledRequestsDeleted).Info("cancelled service requests deleted")

	if res.CompletedRequestsDeleted, err = s.Repo.DeleteServiceRequestsBefore(ctx, model.RequestCompleted,
		now.AddDate(-1, 0, 0)); err != nil {
		return res, fmt.Errorf("delete completed requests: %w", err)
	}
	s.Log.WithField("deleted", res.CompletedRequestsDeleted).Info("completed service requests deleted")

	if err := s.Repo.Analyze(ctx, repository.AnalyzedTables); err != nil {
		return res, fmt.Errorf("analyze: %w", err)
	}
	res.TablesAnalyzed = len(repository.AnalyzedTables)
	s.Log.WithField("tables", res.TablesAnalyzed).Info("table statistics refreshed")

	return res, nil
}
