package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
	"github.com/unclebandit/hvac-backend/internal/service"
)

type MockJobRepo struct {
	repository.JobRepositoryInterface
	created     *model.Job
	technicians []int
	status      model.JobStatus
}

func (m *MockJobRepo) Create(_ context.Context, j *model.Job, technicianIDs []int) error {
	j.ID = 31
	m.created, m.technicians = j, technicianIDs
	return nil
}

func (m *MockJobRepo) UpdateStatus(_ context.Context, id int, status model.JobStatus) (*model.Job, error) {
	m.status = status
	return &model.Job{ID: id, Status: status}, nil
}

func TestJobCreateNumbersJob(t *testing.T) {
	repo := &MockJobRepo{}
	svc := &service.JobService{Jobs: repo, Now: clock}

	j := &model.Job{CustomerID: 4, ServiceType: "Furnace tune-up"}
	require.NoError(t, svc.Create(context.Background(), j, []int{2, 5}))

	assert.Regexp(t, regexp.MustCompile(`^JOB-260314-[0-9A-F]{6}$`), j.JobNumber)
	assert.Same(t, j, repo.created)
	assert.Equal(t, []int{2, 5}, repo.technicians)
}

func TestJobCreateRejectsBackwardsSchedule(t *testing.T) {
	repo := &MockJobRepo{}
	svc := &service.JobService{Jobs: repo, Now: clock}

	start := fixedNow.Add(2 * time.Hour)
	end := fixedNow
	err := svc.Create(context.Background(), &model.Job{CustomerID: 4, ScheduledStart: &start, ScheduledEnd: &end}, nil)
	var ve *appErrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "scheduledEndDate", ve.Fields[0].Field)
	assert.Nil(t, repo.created)
}

func TestJobUpdateStatus(t *testing.T) {
	repo := &MockJobRepo{}
	svc := &service.JobService{Jobs: repo, Now: clock}

	j, err := svc.UpdateStatus(context.Background(), 9, model.JobInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.JobInProgress, j.Status)

	_, err = svc.UpdateStatus(context.Background(), 9, "teleported")
	var ve *appErrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, model.JobInProgress, repo.status)
}
