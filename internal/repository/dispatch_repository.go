package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/unclebandit/hvac-backend/internal/db"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
)

type DispatchRepositoryInterface interface {
	ListByDate(ctx context.Context, date time.Time) ([]model.DispatchSchedule, error)
	Create(ctx context.Context, d *model.DispatchSchedule) error
	UpdateStatus(ctx context.Context, id int, status model.DispatchStatus) (*model.DispatchSchedule, error)
}

type DispatchRepository struct {
	DB *sql.DB
}

const dispatchColumns = `d.id, d.job_id, d.technician_id, d.scheduled_date, d.start_time, d.end_time, d.status, d.notes,
        d.created_at, d.updated_at, j.job_number, j.service_type, j.address, t.first_name || ' ' || t.last_name, t.color,
        c.first_name || ' ' || c.last_name, c.phone`

const dispatchFrom = ` FROM dispatch_schedules d
        INNER JOIN jobs j ON j.id = d.job_id
        INNER JOIN technicians t ON t.id = d.technician_id
        INNER JOIN customers c ON c.id = j.customer_id`

func scanDispatch(row rowScanner, d *model.DispatchSchedule) error {
	return row.Scan(&d.ID, &d.JobID, &d.TechnicianID, &d.ScheduledDate, &d.StartTime, &d.EndTime, &d.Status, &d.Notes,
		&d.CreatedAt, &d.UpdatedAt, &d.JobNumber, &d.ServiceType, &d.JobAddress, &d.TechnicianName, &d.TechnicianColor,
		&d.CustomerName, &d.CustomerPhone)
}

func (r *DispatchRepository) ListByDate(ctx context.Context, date time.Time) ([]model.DispatchSchedule, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+dispatchColumns+dispatchFrom+`
        WHERE d.scheduled_date = $1::date
        ORDER BY d.start_time, t.last_name`, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []model.DispatchSchedule{}
	for rows.Next() {
		var d model.DispatchSchedule
		if err := scanDispatch(rows, &d); err != nil {
			return nil, err
		}
		schedules = append(schedules, d)
	}
	return schedules, rows.Err()
}

// Create books a technician onto a job for a time window. The job moves to
// dispatched and the technician joins its crew. Overlapping bookings are
// not checked.
func (r *DispatchRepository) Create(ctx context.Context, d *model.DispatchSchedule) error {
	d.Status = model.DispatchScheduled
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
            INSERT INTO dispatch_schedules (job_id, technician_id, scheduled_date, start_time, end_time, status, notes)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id, created_at, updated_at`,
			d.JobID, d.TechnicianID, d.ScheduledDate.Format("2006-01-02"), d.StartTime, d.EndTime, d.Status, d.Notes,
		).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
		if isForeignKeyViolation(err) {
			return appErrors.NewNotFound("Job or technician", nil)
		}
		if err != nil {
			return err
		}

		if err := execAffecting(ctx, tx, "Job", d.JobID,
			`UPDATE jobs SET status = 'dispatched', updated_at = NOW() WHERE id = $1`, d.JobID); err != nil {
			return err
		}
		return assignTechnician(ctx, tx, d.JobID, d.TechnicianID, false)
	})
}

func (r *DispatchRepository) UpdateStatus(ctx context.Context, id int, status model.DispatchStatus) (*model.DispatchSchedule, error) {
	err := execAffecting(ctx, r.DB, "Dispatch schedule", id,
		`UPDATE dispatch_schedules SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return nil, err
	}

	var d model.DispatchSchedule
	if err := scanDispatch(r.DB.QueryRowContext(ctx, `SELECT `+dispatchColumns+dispatchFrom+` WHERE d.id = $1`, id), &d); err != nil {
		return nil, notFound(err, "Dispatch schedule", id)
	}
	return &d, nil
}
