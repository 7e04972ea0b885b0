package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
	"github.com/unclebandit/hvac-backend/internal/service"
)

type MockDispatchRepo struct {
	repository.DispatchRepositoryInterface
	created []model.DispatchSchedule
}

func (m *MockDispatchRepo) Create(_ context.Context, d *model.DispatchSchedule) error {
	d.ID = len(m.created) + 1
	m.created = append(m.created, *d)
	return nil
}

func TestScheduleWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		badField   string
	}{
		{name: "valid window", start: "08:00", end: "10:30"},
		{name: "bad start", start: "8am", end: "10:00", badField: "startTime"},
		{name: "bad end", start: "08:00", end: "25:00", badField: "endTime"},
		{name: "end equals start", start: "09:00", end: "09:00", badField: "endTime"},
		{name: "end before start", start: "13:00", end: "09:00", badField: "endTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockDispatchRepo{}
			svc := &service.DispatchService{Dispatch: repo}

			err := svc.Schedule(context.Background(), &model.DispatchSchedule{
				JobID: 1, TechnicianID: 2, ScheduledDate: fixedNow, StartTime: tt.start, EndTime: tt.end,
			})
			if tt.badField != "" {
				var ve *appErrors.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.badField, ve.Fields[0].Field)
				assert.Empty(t, repo.created)
				return
			}
			require.NoError(t, err)
			assert.Len(t, repo.created, 1)
		})
	}
}

func TestDispatchUpdateStatusValidates(t *testing.T) {
	svc := &service.DispatchService{Dispatch: &MockDispatchRepo{}}
	_, err := svc.UpdateStatus(context.Background(), 1, "teleported")
	var ve *appErrors.ValidationError
	require.ErrorAs(t, err, &ve)
}
