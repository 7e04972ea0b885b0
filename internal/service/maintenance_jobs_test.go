package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
	"github.com/unclebandit/hvac-backend/internal/service"
)

type MockMaintenanceRepo struct {
	emailCutoff   time.Time
	requestCutoff map[model.ServiceRequestStatus]time.Time
	analyzed      []string
	analyzeErr    error

	candidates []model.ReminderCandidate
	recorded   []int
}

func (m *MockMaintenanceRepo) DeleteEmailLogsBefore(_ context.Context, before time.Time) (int64, error) {
	m.emailCutoff = before
	return 12, nil
}

func (m *MockMaintenanceRepo) DeleteServiceRequestsBefore(_ context.Context, status model.ServiceRequestStatus, before time.Time) (int64, error) {
	if m.requestCutoff == nil {
		m.requestCutoff = map[model.ServiceRequestStatus]time.Time{}
	}
	m.requestCutoff[status] = before
	if status == model.RequestCancelled {
		return 3, nil
	}
	return 5, nil
}

func (m *MockMaintenanceRepo) Analyze(_ context.Context, tables []string) error {
	m.analyzed = tables
	return m.analyzeErr
}

func (m *MockMaintenanceRepo) ReminderCandidates(context.Context, time.Time) ([]model.ReminderCandidate, error) {
	return m.candidates, nil
}

func (m *MockMaintenanceRepo) RecordReminder(_ context.Context, customerID int, _ time.Time) error {
	m.recorded = append(m.recorded, customerID)
	return nil
}

func TestCleanupRetentionWindows(t *testing.T) {
	repo := &MockMaintenanceRepo{}
	svc := &service.CleanupService{Repo: repo, Log: quietLog(), Now: clock}

	res, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), res.EmailLogsDeleted)
	assert.Equal(t, int64(3), res.CancelledRequestsDeleted)
	assert.Equal(t, int64(5), res.CompletedRequestsDeleted)
	assert.Equal(t, len(repository.AnalyzedTables), res.TablesAnalyzed)

	assert.Equal(t, fixedNow.AddDate(0, 0, -90), repo.emailCutoff)
	assert.Equal(t, fixedNow.AddDate(0, 0, -30), repo.requestCutoff[model.RequestCancelled])
	assert.Equal(t, fixedNow.AddDate(-1, 0, 0), repo.requestCutoff[model.RequestCompleted])
	assert.Equal(t, repository.AnalyzedTables, repo.analyzed)
}

func TestCleanupAnalyzeFailure(t *testing.T) {
	repo := &MockMaintenanceRepo{analyzeErr: errors.New("permission denied")}
	svc := &service.CleanupService{Repo: repo, Log: quietLog(), Now: clock}

	res, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(12), res.EmailLogsDeleted)
	assert.Zero(t, res.TablesAnalyzed)
}

func TestReminderSweepContinuesPastFailures(t *testing.T) {
	repo := &MockMaintenanceRepo{candidates: []model.ReminderCandidate{
		{CustomerID: 1, FirstName: "Ann", Email: "ann@example.com"},
		{CustomerID: 2, FirstName: "Bob", Email: "bounce@example.com"},
		{CustomerID: 3, FirstName: "Cy", Email: "cy@example.com", EquipmentTypes: "Heat Pump"},
	}}
	sender := &MockSender{failFor: map[string]bool{"bounce@example.com": true}}
	logs := &MockEmailLogs{}
	emails := newEmailService(t, &MockQueue{})

	svc := service.NewReminderService(repo, emails, sender, logs, quietLog())
	svc.Now = clock

	res, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []int{1, 3}, repo.recorded)

	require.Len(t, sender.sent, 2)
	for _, msg := range sender.sent {
		assert.Equal(t, service.MaintenanceReminderSubject, msg.Subject)
	}

	require.Len(t, logs.rows, 3)
	assert.Equal(t, model.EmailStatusFailed, logs.rows[1].Status)
	require.NotNil(t, logs.rows[1].ErrorMessage)
	assert.Contains(t, *logs.rows[1].ErrorMessage, "mailbox unavailable")
}

func TestReminderSweepStopsWhenContextEnds(t *testing.T) {
	repo := &MockMaintenanceRepo{candidates: []model.ReminderCandidate{
		{CustomerID: 1, FirstName: "Ann", Email: "ann@example.com"},
		{CustomerID: 2, FirstName: "Bob", Email: "bob@example.com"},
		{CustomerID: 3, FirstName: "Cy", Email: "cy@example.com"},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender := &MockSender{afterSend: cancel}
	logs := &MockEmailLogs{}

	svc := service.NewReminderService(repo, newEmailService(t, &MockQueue{}), sender, logs, quietLog())
	svc.Now = clock

	res, err := svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 1, res.Sent)
	assert.Zero(t, res.Failed)
	assert.Equal(t, []int{1}, repo.recorded)
	assert.Len(t, logs.rows, 1)
}
