package service

import (
	"context"
	"time"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type JobService struct {
	Jobs repository.JobRepositoryInterface
	Now  func() time.Time
}

func (s *JobService) Create(ctx context.Context, j *model.Job, technicianIDs []int) error {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if err := checkSchedule(j); err != nil {
		return err
	}
	j.JobNumber = newNumber(JobPrefix, now)
	return s.Jobs.Create(ctx, j, technicianIDs)
}

func (s *JobService) Update(ctx context.Context, j *model.Job) error {
	if err := checkSchedule(j); err != nil {
		return err
	}
	if j.Priority == "" {
		j.Priority = model.PriorityNormal
	}
	if j.Status == "" {
		j.Status = model.JobScheduled
	}
	return s.Jobs.Update(ctx, j)
}

// Detail returns the job with its crew, parts and labor.
func (s *JobService) Detail(ctx context.Context, id int) (*model.JobDetail, error) {
	j, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &model.JobDetail{Job: *j}
	if detail.Technicians, err = s.Jobs.Technicians(ctx, id); err != nil {
		return nil, err
	}
	if detail.Parts, err = s.Jobs.Parts(ctx, id); err != nil {
		return nil, err
	}
	if detail.Labor, err = s.Jobs.Labor(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *JobService) UpdateStatus(ctx context.Context, id int, status model.JobStatus) (*model.Job, error) {
	if !status.Valid() {
		return nil, appErrors.NewValidation("status", "Invalid job status")
	}
	return s.Jobs.UpdateStatus(ctx, id, status)
}

func checkSchedule(j *model.Job) error {
	if j.ScheduledStart != nil && j.ScheduledEnd != nil && j.ScheduledEnd.Before(*j.ScheduledStart) {
		return appErrors.NewValidation("scheduledEndDate", "Scheduled end must be after scheduled start")
	}
	return nil
}
