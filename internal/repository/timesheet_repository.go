package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
)

type TimesheetRepositoryInterface interface {
	List(ctx context.Context, technicianID *int, status string, page model.PageRequest) ([]model.Timesheet, int, error)
	GetByID(ctx context.Context, id int) (*model.Timesheet, error)
	Create(ctx context.Context, t *model.Timesheet) error
	ClockOut(ctx context.Context, id int, at time.Time, breakMinutes *int) (*model.Timesheet, error)
	SetApproval(ctx context.Context, id int, status model.TimesheetStatus, approvedBy int) (*model.Timesheet, error)
}

type TimesheetRepository struct {
	DB *sql.DB
}

const timesheetColumns = `ts.id, ts.technician_id, t.first_name || ' ' || t.last_name, ts.job_id, ts.date, ts.clock_in,
        ts.clock_out, ts.break_minutes, ts.total_hours, ts.type, ts.status, ts.notes, ts.approved_by, ts.approved_at,
        ts.created_at, ts.updated_at`

const timesheetFrom = ` FROM timesheets ts INNER JOIN technicians t ON t.id = ts.technician_id`

func scanTimesheet(row rowScanner, ts *model.Timesheet) error {
	return row.Scan(&ts.ID, &ts.TechnicianID, &ts.TechnicianName, &ts.JobID, &ts.Date, &ts.ClockIn,
		&ts.ClockOut, &ts.BreakMinutes, &ts.TotalHours, &ts.Type, &ts.Status, &ts.Notes, &ts.ApprovedBy, &ts.ApprovedAt,
		&ts.CreatedAt, &ts.UpdatedAt)
}

func (r *TimesheetRepository) List(ctx context.Context, technicianID *int, status string, page model.PageRequest) ([]model.Timesheet, int, error) {
	w := newWhere()
	if technicianID != nil {
		w.add("ts.technician_id = ?", *technicianID)
	}
	if status != "" {
		w.add("ts.status = ?", status)
	}

	limit, args := w.page(page.Limit, page.Offset())
	rows, err := r.DB.QueryContext(ctx, `SELECT `+timesheetColumns+timesheetFrom+w.sql+
		` ORDER BY ts.date DESC, ts.clock_in DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sheets := []model.Timesheet{}
	for rows.Next() {
		var ts model.Timesheet
		if err := scanTimesheet(rows, &ts); err != nil {
			return nil, 0, err
		}
		sheets = append(sheets, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "timesheets ts")
	if err != nil {
		return nil, 0, err
	}
	return sheets, total, nil
}

func (r *TimesheetRepository) GetByID(ctx context.Context, id int) (*model.Timesheet, error) {
	var ts model.Timesheet
	if err := scanTimesheet(r.DB.QueryRowContext(ctx, `SELECT `+timesheetColumns+timesheetFrom+` WHERE ts.id = $1`, id), &ts); err != nil {
		return nil, notFound(err, "Timesheet", id)
	}
	return &ts, nil
}

func (r *TimesheetRepository) Create(ctx context.Context, ts *model.Timesheet) error {
	if ts.Type == "" {
		ts.Type = model.TimesheetRegular
	}
	ts.Status = model.TimesheetPending
	query := `
        INSERT INTO timesheets (technician_id, job_id, date, clock_in, break_minutes, type, status, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at
    `
	return r.DB.QueryRowContext(ctx, query,
		ts.TechnicianID, ts.JobID, ts.Date, ts.ClockIn, ts.BreakMinutes, ts.Type, ts.Status, ts.Notes,
	).Scan(&ts.ID, &ts.CreatedAt, &ts.UpdatedAt)
}

// ClockOut closes an open entry and stores its worked hours. breakMinutes,
// when given, replaces the stored break before the hours are computed.
func (r *TimesheetRepository) ClockOut(ctx context.Context, id int, at time.Time, breakMinutes *int) (*model.Timesheet, error) {
	ts, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ts.ClockOut != nil {
		return nil, appErrors.NewConflict("Timesheet %d is already clocked out", id)
	}
	if at.Before(ts.ClockIn) {
		return nil, appErrors.NewValidation("clockOut", "Clock out must be after clock in")
	}
	if breakMinutes != nil {
		ts.BreakMinutes = *breakMinutes
	}
	hours := model.WorkedHours(ts.ClockIn, at, ts.BreakMinutes)

	err = r.DB.QueryRowContext(ctx, `
        UPDATE timesheets SET clock_out = $1, break_minutes = $2, total_hours = $3, updated_at = NOW()
        WHERE id = $4 AND clock_out IS NULL
        RETURNING updated_at`, at, ts.BreakMinutes, hours, id).Scan(&ts.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.NewConflict("Timesheet %d is already clocked out", id)
	}
	if err != nil {
		return nil, err
	}
	ts.ClockOut = &at
	ts.TotalHours = &hours
	return ts, nil
}

func (r *TimesheetRepository) SetApproval(ctx context.Context, id int, status model.TimesheetStatus, approvedBy int) (*model.Timesheet, error) {
	err := execAffecting(ctx, r.DB, "Timesheet", id, `
        UPDATE timesheets SET status = $1, approved_by = $2, approved_at = NOW(), updated_at = NOW()
        WHERE id = $3`, status, approvedBy, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
