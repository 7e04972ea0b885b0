package service

import (
	"context"
	"time"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type DispatchService struct {
	Dispatch repository.DispatchRepositoryInterface
}

// Schedule books one technician onto one job. Windows are "HH:MM" on the
// scheduled date; overlaps with other bookings are allowed.
func (s *DispatchService) Schedule(ctx context.Context, d *model.DispatchSchedule) error {
	start, err := time.Parse("15:04", d.StartTime)
	if err != nil {
		return appErrors.NewValidation("startTime", "Start time must be HH:MM")
	}
	end, err := time.Parse("15:04", d.EndTime)
	if err != nil {
		return appErrors.NewValidation("endTime", "End time must be HH:MM")
	}
	if !end.After(start) {
		return appErrors.NewValidation("endTime", "End time must be after start time")
	}
	return s.Dispatch.Create(ctx, d)
}

func (s *DispatchService) UpdateStatus(ctx context.Context, id int, status model.DispatchStatus) (*model.DispatchSchedule, error) {
	if !status.Valid() {
		return nil, appErrors.NewValidation("status", "Invalid dispatch status")
	}
	return s.Dispatch.UpdateStatus(ctx, id, status)
}
