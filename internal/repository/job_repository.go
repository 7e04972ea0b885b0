package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/unclebandit/hvac-backend/internal/db"
	"github.com/unclebandit/hvac-backend/internal/model"
)

// JobFilter narrows a job listing. Zero values are ignored.
type JobFilter struct {
	Status       string
	CustomerID   *int
	TechnicianID *int
	Date         *time.Time
}

type JobRepositoryInterface interface {
	List(ctx context.Context, f JobFilter, page model.PageRequest) ([]model.Job, int, error)
	GetByID(ctx context.Context, id int) (*model.Job, error)
	Technicians(ctx context.Context, jobID int) ([]model.JobTechnician, error)
	Parts(ctx context.Context, jobID int) ([]model.JobPart, error)
	Labor(ctx context.Context, jobID int) ([]model.JobLabor, error)
	Create(ctx context.Context, j *model.Job, technicianIDs []int) error
	Update(ctx context.Context, j *model.Job) error
	UpdateStatus(ctx context.Context, id int, status model.JobStatus) (*model.Job, error)
	Delete(ctx context.Context, id int) error
}

type JobRepository struct {
	DB *sql.DB
}

const jobColumns = `j.id, j.job_number, j.customer_id, j.service_request_id, j.estimate_id, j.service_type, j.description,
        j.priority, j.status, j.scheduled_start, j.scheduled_end, j.actual_start, j.actual_end, j.address, j.notes,
        j.internal_notes, j.tags, j.created_at, j.updated_at`

const jobCustomerColumns = `, c.first_name || ' ' || c.last_name, c.phone, c.email`

const jobFrom = ` FROM jobs j INNER JOIN customers c ON c.id = j.customer_id`

func scanJob(row rowScanner, j *model.Job, extra ...interface{}) error {
	dest := []interface{}{&j.ID, &j.JobNumber, &j.CustomerID, &j.ServiceRequestID, &j.EstimateID, &j.ServiceType, &j.Description,
		&j.Priority, &j.Status, &j.ScheduledStart, &j.ScheduledEnd, &j.ActualStart, &j.ActualEnd, &j.Address, &j.Notes,
		&j.InternalNotes, pq.Array(&j.Tags), &j.CreatedAt, &j.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

func scanJobWithCustomer(row rowScanner, j *model.Job) error {
	return scanJob(row, j, &j.CustomerName, &j.CustomerPhone, &j.CustomerEmail)
}

func (r *JobRepository) List(ctx context.Context, f JobFilter, page model.PageRequest) ([]model.Job, int, error) {
	w := newWhere()
	if f.Status != "" {
		w.add("j.status = ?", f.Status)
	}
	if f.CustomerID != nil {
		w.add("j.customer_id = ?", *f.CustomerID)
	}
	if f.TechnicianID != nil {
		w.add("EXISTS (SELECT 1 FROM job_technicians jt WHERE jt.job_id = j.id AND jt.technician_id = ?)", *f.TechnicianID)
	}
	if f.Date != nil {
		w.add("j.scheduled_start::date = ?::date", f.Date.Format("2006-01-02"))
	}

	limit, args := w.page(page.Limit, page.Offset())
	query := `SELECT ` + jobColumns + jobCustomerColumns + jobFrom + w.sql + ` ORDER BY j.scheduled_start DESC NULLS LAST, j.created_at DESC` + limit

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		var j model.Job
		if err := scanJobWithCustomer(rows, &j); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "jobs j")
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id int) (*model.Job, error) {
	var j model.Job
	row := r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+jobCustomerColumns+jobFrom+` WHERE j.id = $1`, id)
	if err := scanJobWithCustomer(row, &j); err != nil {
		return nil, notFound(err, "Job", id)
	}
	return &j, nil
}

func (r *JobRepository) Technicians(ctx context.Context, jobID int) ([]model.JobTechnician, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT t.id, t.first_name, t.last_name, jt.is_lead
        FROM job_technicians jt
        INNER JOIN technicians t ON t.id = jt.technician_id
        WHERE jt.job_id = $1
        ORDER BY jt.is_lead DESC, t.last_name`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	techs := []model.JobTechnician{}
	for rows.Next() {
		var t model.JobTechnician
		if err := rows.Scan(&t.TechnicianID, &t.FirstName, &t.LastName, &t.IsLead); err != nil {
			return nil, err
		}
		techs = append(techs, t)
	}
	return techs, rows.Err()
}

func (r *JobRepository) Parts(ctx context.Context, jobID int) ([]model.JobPart, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, job_id, inventory_item_id, description, quantity, unit_cost, unit_price, created_at
        FROM job_parts WHERE job_id = $1 ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parts := []model.JobPart{}
	for rows.Next() {
		var p model.JobPart
		if err := rows.Scan(&p.ID, &p.JobID, &p.InventoryItemID, &p.Description, &p.Quantity, &p.UnitCost, &p.UnitPrice, &p.CreatedAt); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *JobRepository) Labor(ctx context.Context, jobID int) ([]model.JobLabor, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, job_id, technician_id, description, hours, rate, created_at
        FROM job_labor WHERE job_id = $1 ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labor := []model.JobLabor{}
	for rows.Next() {
		var l model.JobLabor
		if err := rows.Scan(&l.ID, &l.JobID, &l.TechnicianID, &l.Description, &l.Hours, &l.Rate, &l.CreatedAt); err != nil {
			return nil, err
		}
		labor = append(labor, l)
	}
	return labor, rows.Err()
}

// Create inserts the job and links the given technicians; the first one leads.
func (r *JobRepository) Create(ctx context.Context, j *model.Job, technicianIDs []int) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := insertJob(ctx, tx, j); err != nil {
			return err
		}
		for i, techID := range technicianIDs {
			if err := assignTechnician(ctx, tx, j.ID, techID, i == 0); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertJob(ctx context.Context, q DBTX, j *model.Job) error {
	if j.Status == "" {
		j.Status = model.JobScheduled
	}
	if j.Priority == "" {
		j.Priority = model.PriorityNormal
	}
	query := `
        INSERT INTO jobs (job_number, customer_id, service_request_id, estimate_id, service_type, description, priority, status,
            scheduled_start, scheduled_end, address, notes, internal_notes, tags)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id, created_at, updated_at
    `
	return q.QueryRowContext(ctx, query,
		j.JobNumber, j.CustomerID, j.ServiceRequestID, j.EstimateID, j.ServiceType, j.Description, j.Priority, j.Status,
		j.ScheduledStart, j.ScheduledEnd, j.Address, j.Notes, j.InternalNotes, pq.Array(nonNil(j.Tags)),
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
}

// assignTechnician links a technician to a job; repeat assignments are no-ops.
func assignTechnician(ctx context.Context, q DBTX, jobID, technicianID int, lead bool) error {
	_, err := q.ExecContext(ctx, `
        INSERT INTO job_technicians (job_id, technician_id, is_lead) VALUES ($1, $2, $3)
        ON CONFLICT (job_id, technician_id) DO NOTHING`, jobID, technicianID, lead)
	return err
}

func (r *JobRepository) Update(ctx context.Context, j *model.Job) error {
	query := `
        UPDATE jobs
        SET customer_id=$1, service_type=$2, description=$3, priority=$4, status=$5, scheduled_start=$6, scheduled_end=$7,
            address=$8, notes=$9, internal_notes=$10, tags=$11, updated_at=NOW()
        WHERE id=$12
        RETURNING job_number, service_request_id, estimate_id, actual_start, actual_end, created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		j.CustomerID, j.ServiceType, j.Description, j.Priority, j.Status, j.ScheduledStart, j.ScheduledEnd,
		j.Address, j.Notes, j.InternalNotes, pq.Array(nonNil(j.Tags)), j.ID,
	).Scan(&j.JobNumber, &j.ServiceRequestID, &j.EstimateID, &j.ActualStart, &j.ActualEnd, &j.CreatedAt, &j.UpdatedAt)
	return notFound(err, "Job", j.ID)
}

// UpdateStatus stamps actual_start on the first move into in_progress or
// completed, and actual_end on completion.
func (r *JobRepository) UpdateStatus(ctx context.Context, id int, status model.JobStatus) (*model.Job, error) {
	query := `
        UPDATE jobs j
        SET status = $1,
            actual_start = CASE WHEN $1 IN ('in_progress', 'completed') AND j.actual_start IS NULL THEN NOW() ELSE j.actual_start END,
            actual_end = CASE WHEN $1 = 'completed' THEN NOW() ELSE j.actual_end END,
            updated_at = NOW()
        WHERE j.id = $2
        RETURNING ` + jobColumns

	var j model.Job
	if err := scanJob(r.DB.QueryRowContext(ctx, query, string(status), id), &j); err != nil {
		return nil, notFound(err, "Job", id)
	}
	return &j, nil
}

func (r *JobRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Job", id, `DELETE FROM jobs WHERE id = $1`, id)
}
