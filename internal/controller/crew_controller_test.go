package controller_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/controller"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type MockEquipmentRepo struct {
	repository.EquipmentRepositoryInterface
	customerID *int
	created    *model.Equipment
	withinDays int
}

func (m *MockEquipmentRepo) List(_ context.Context, customerID *int, _ model.PageRequest) ([]model.Equipment, int, error) {
	m.customerID = customerID
	return []model.Equipment{{ID: 1, Type: "Furnace"}}, 1, nil
}

func (m *MockEquipmentRepo) DueForMaintenance(_ context.Context, withinDays int) ([]model.Equipment, error) {
	m.withinDays = withinDays
	return []model.Equipment{{ID: 2, Type: "AC"}}, nil
}

func (m *MockEquipmentRepo) Create(_ context.Context, e *model.Equipment) error {
	e.ID = 12
	m.created = e
	return nil
}

func (m *MockEquipmentRepo) GetByID(_ context.Context, id int) (*model.Equipment, error) {
	return nil, appErrors.NewNotFound("Equipment", id)
}

func TestEquipmentListByCustomer(t *testing.T) {
	repo := &MockEquipmentRepo{}
	ctrl := &controller.EquipmentController{Repo: repo}

	w := call(t, http.MethodGet, "/equipment", "/equipment?customerId=7", ctrl.List, nil, admin())
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.customerID)
	assert.Equal(t, 7, *repo.customerID)
	assert.Len(t, decodeBody(t, w)["equipment"], 1)

	w = call(t, http.MethodGet, "/equipment", "/equipment?customerId=seven", ctrl.List, nil, admin())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEquipmentDueMaintenanceLooksThirtyDaysAhead(t *testing.T) {
	repo := &MockEquipmentRepo{}
	ctrl := &controller.EquipmentController{Repo: repo}

	w := call(t, http.MethodGet, "/equipment/due-maintenance", "/equipment/due-maintenance", ctrl.DueMaintenance, nil, admin())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, repo.withinDays)
}

func TestEquipmentCreate(t *testing.T) {
	repo := &MockEquipmentRepo{}
	ctrl := &controller.EquipmentController{Repo: repo}

	w := call(t, http.MethodPost, "/equipment", "/equipment", ctrl.Create, map[string]any{
		"customerId":       3,
		"type":             "Heat Pump",
		"brand":            "Trane",
		"model":            "XR16",
		"installationDate": "2021-05-01",
		"maintenanceDue":   "2026-05-01",
	}, admin())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, repo.created)
	assert.Equal(t, time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC), repo.created.InstallationDate)
	require.NotNil(t, repo.created.MaintenanceDue)
	assert.Nil(t, repo.created.WarrantyExpiry)

	w = call(t, http.MethodPost, "/equipment", "/equipment", ctrl.Create, map[string]any{
		"customerId": 3, "type": "AC", "brand": "Lennox", "model": "EL16", "installationDate": "last spring",
	}, admin())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "installationDate")
}

func TestEquipmentGetMissing(t *testing.T) {
	ctrl := &controller.EquipmentController{Repo: &MockEquipmentRepo{}}
	w := call(t, http.MethodGet, "/equipment/{id}", "/equipment/40", ctrl.Get, nil, admin())
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Equipment not found"}`, w.Body.String())
}

type MockTechnicianRepo struct {
	repository.TechnicianRepositoryInterface
	status  string
	created *model.Technician
}

func (m *MockTechnicianRepo) List(_ context.Context, status string, _ model.PageRequest) ([]model.Technician, int, error) {
	m.status = status
	return []model.Technician{{ID: 1, FirstName: "Sam"}}, 1, nil
}

func (m *MockTechnicianRepo) Create(_ context.Context, tech *model.Technician) error {
	tech.ID = 5
	m.created = tech
	return nil
}

func TestTechnicianListStatusFilter(t *testing.T) {
	repo := &MockTechnicianRepo{}
	ctrl := &controller.TechnicianController{Repo: repo}

	w := call(t, http.MethodGet, "/technicians", "/technicians?status=on_leave", ctrl.List, nil, admin())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "on_leave", repo.status)

	w = call(t, http.MethodGet, "/technicians", "/technicians?status=retired", ctrl.List, nil, admin())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTechnicianCreateDefaultsToActive(t *testing.T) {
	repo := &MockTechnicianRepo{}
	ctrl := &controller.TechnicianController{Repo: repo}

	w := call(t, http.MethodPost, "/technicians", "/technicians", ctrl.Create, map[string]any{
		"firstName": "Sam", "lastName": "Ortiz", "email": "sam@hvacpro.com", "phone": "555-0101",
		"hourlyRate": 32.5, "skills": []string{"boilers"},
	}, admin())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, model.TechnicianActive, repo.created.Status)
	assert.Equal(t, []string{"boilers"}, repo.created.Skills)

	w = call(t, http.MethodPost, "/technicians", "/technicians", ctrl.Create, map[string]any{
		"firstName": "Sam", "lastName": "Ortiz", "email": "not-an-email", "phone": "555-0101", "hourlyRate": -1,
	}, admin())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email")
	assert.Contains(t, w.Body.String(), "hourlyRate")
}

type MockTimesheetRepo struct {
	repository.TimesheetRepositoryInterface
	clockOutAt   time.Time
	breakMinutes *int
}

func (m *MockTimesheetRepo) ClockOut(_ context.Context, id int, at time.Time, breakMinutes *int) (*model.Timesheet, error) {
	m.clockOutAt, m.breakMinutes = at, breakMinutes
	return &model.Timesheet{ID: id, ClockOut: &at}, nil
}

func TestTimesheetClockOut(t *testing.T) {
	now := time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC)

	t.Run("empty body clocks out now", func(t *testing.T) {
		repo := &MockTimesheetRepo{}
		ctrl := &controller.TimesheetController{Repo: repo, Now: func() time.Time { return now }}

		w := call(t, http.MethodPatch, "/timesheets/{id}/clock-out", "/timesheets/3/clock-out", ctrl.ClockOut, nil, admin())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, now, repo.clockOutAt)
		assert.Nil(t, repo.breakMinutes)
	})

	t.Run("chunked body is read", func(t *testing.T) {
		repo := &MockTimesheetRepo{}
		ctrl := &controller.TimesheetController{Repo: repo, Now: func() time.Time { return now }}

		r := chi.NewRouter()
		r.Patch("/timesheets/{id}/clock-out", ctrl.ClockOut)
		req := httptest.NewRequest(http.MethodPatch, "/timesheets/3/clock-out",
			io.NopCloser(strings.NewReader(`{"breakMinutes":45,"clockOut":"2026-03-14T16:30:00Z"}`)))
		req.ContentLength = -1
		req.TransferEncoding = []string{"chunked"}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NotNil(t, repo.breakMinutes)
		assert.Equal(t, 45, *repo.breakMinutes)
		assert.Equal(t, time.Date(2026, 3, 14, 16, 30, 0, 0, time.UTC), repo.clockOutAt)
	})

	t.Run("negative break is rejected", func(t *testing.T) {
		ctrl := &controller.TimesheetController{Repo: &MockTimesheetRepo{}, Now: func() time.Time { return now }}
		w := call(t, http.MethodPatch, "/timesheets/{id}/clock-out", "/timesheets/3/clock-out", ctrl.ClockOut,
			map[string]any{"breakMinutes": -5}, admin())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
