package controller

import (
	"context"
	"net/http"
	"time"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// ====== Dispatch ======

type Dispatcher interface {
	Schedule(ctx context.Context, d *model.DispatchSchedule) error
	UpdateStatus(ctx context.Context, id int, status model.DispatchStatus) (*model.DispatchSchedule, error)
}

type DispatchController struct {
	Repo       repository.DispatchRepositoryInterface
	Dispatcher Dispatcher
}

// Board lists the schedules for ?date=, defaulting to today.
func (c *DispatchController) Board(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	day := time.Now()
	if date != nil {
		day = *date
	}
	schedules, err := c.Repo.ListByDate(r.Context(), day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (c *DispatchController) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		JobID         int     `json:"jobId" validate:"required,gt=0"`
		TechnicianID  int     `json:"technicianId" validate:"required,gt=0"`
		ScheduledDate string  `json:"scheduledDate" validate:"required"`
		StartTime     string  `json:"startTime" validate:"required"`
		EndTime       string  `json:"endTime" validate:"required"`
		Notes         *string `json:"notes"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseTime("scheduledDate", body.ScheduledDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d := &model.DispatchSchedule{
		JobID:         body.JobID,
		TechnicianID:  body.TechnicianID,
		ScheduledDate: date,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		Status:        model.DispatchScheduled,
		Notes:         body.Notes,
	}
	if err := c.Dispatcher.Schedule(r.Context(), d); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (c *DispatchController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	d, err := c.Dispatcher.UpdateStatus(r.Context(), id, model.DispatchStatus(body.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ====== Timesheets ======

type TimesheetController struct {
	Repo repository.TimesheetRepositoryInterface
	Now  func() time.Time
}

func (c *TimesheetController) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *TimesheetController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	techID, err := queryInt(r, "technicianId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sheets, total, err := c.Repo.List(r.Context(), techID, r.URL.Query().Get("status"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "timesheets", sheets, page, total)
}

// ClockIn opens a timesheet. clockIn defaults to now.
func (c *TimesheetController) ClockIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TechnicianID int     `json:"technicianId" validate:"required,gt=0"`
		JobID        *int    `json:"jobId"`
		ClockIn      *string `json:"clockIn"`
		Type         string  `json:"type" validate:"omitempty,oneof=regular overtime travel training"`
		Notes        *string `json:"notes"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := parseOptionalTime("clockIn", body.ClockIn)
	if err != nil {
		writeError(w, r, err)
		return
	}
	at := c.now()
	if in != nil {
		at = *in
	}
	t := &model.Timesheet{
		TechnicianID: body.TechnicianID,
		JobID:        body.JobID,
		Date:         at,
		ClockIn:      at,
		Type:         model.TimesheetType(body.Type),
		Notes:        body.Notes,
	}
	if err := c.Repo.Create(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (c *TimesheetController) ClockOut(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		ClockOut     *string `json:"clockOut"`
		BreakMinutes *int    `json:"breakMinutes" validate:"omitempty,gte=0"`
	}
	if err := decodeOptional(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := parseOptionalTime("clockOut", body.ClockOut)
	if err != nil {
		writeError(w, r, err)
		return
	}
	at := c.now()
	if out != nil {
		at = *out
	}
	t, err := c.Repo.ClockOut(r.Context(), id, at, body.BreakMinutes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (c *TimesheetController) Approve(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	status := model.TimesheetStatus(body.Status)
	if status != model.TimesheetApproved && status != model.TimesheetRejected {
		writeError(w, r, appErrors.NewValidation("status", "Status must be approved or rejected"))
		return
	}
	t, err := c.Repo.SetApproval(r.Context(), id, status, p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
