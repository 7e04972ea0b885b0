package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/hvac-backend/internal/model"
)

type ServiceRequestRepositoryInterface interface {
	List(ctx context.Context, status string, page model.PageRequest) ([]model.ServiceRequest, int, error)
	GetByID(ctx context.Context, id int) (*model.ServiceRequest, error)
	Create(ctx context.Context, sr *model.ServiceRequest) error
	Update(ctx context.Context, id int, upd model.ServiceRequestUpdate) (*model.ServiceRequest, error)
	Delete(ctx context.Context, id int) error
}

type ServiceRequestRepository struct {
	DB *sql.DB
}

const serviceRequestColumns = `id, customer_name, email, phone, address, city, state, zip_code, service_type,
        preferred_date, preferred_time, message, is_emergency, status, notes, assigned_technician, scheduled_date,
        created_at, updated_at`

func scanServiceRequest(row rowScanner, sr *model.ServiceRequest) error {
	return row.Scan(&sr.ID, &sr.CustomerName, &sr.Email, &sr.Phone, &sr.Address, &sr.City, &sr.State, &sr.ZipCode, &sr.ServiceType,
		&sr.PreferredDate, &sr.PreferredTime, &sr.Message, &sr.IsEmergency, &sr.Status, &sr.Notes, &sr.AssignedTechnician, &sr.ScheduledDate,
		&sr.CreatedAt, &sr.UpdatedAt)
}

func (r *ServiceRequestRepository) List(ctx context.Context, status string, page model.PageRequest) ([]model.ServiceRequest, int, error) {
	w := newWhere()
	if status != "" {
		w.add("status = ?", status)
	}

	limit, args := w.page(page.Limit, page.Offset())
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests` + w.sql + ` ORDER BY preferred_date ASC, created_at DESC` + limit

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := []model.ServiceRequest{}
	for rows.Next() {
		var sr model.ServiceRequest
		if err := scanServiceRequest(rows, &sr); err != nil {
			return nil, 0, err
		}
		requests = append(requests, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "service_requests")
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *ServiceRequestRepository) GetByID(ctx context.Context, id int) (*model.ServiceRequest, error) {
	var sr model.ServiceRequest
	row := r.DB.QueryRowContext(ctx, `SELECT `+serviceRequestColumns+` FROM service_requests WHERE id = $1`, id)
	if err := scanServiceRequest(row, &sr); err != nil {
		return nil, notFound(err, "Service request", id)
	}
	return &sr, nil
}

func (r *ServiceRequestRepository) Create(ctx context.Context, sr *model.ServiceRequest) error {
	if sr.Status == "" {
		sr.Status = model.RequestPending
	}
	query := `
        INSERT INTO service_requests (customer_name, email, phone, address, city, state, zip_code, service_type,
            preferred_date, preferred_time, message, is_emergency, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at, updated_at
    `
	return r.DB.QueryRowContext(ctx, query,
		sr.CustomerName, sr.Email, sr.Phone, sr.Address, sr.City, sr.State, sr.ZipCode, sr.ServiceType,
		sr.PreferredDate, sr.PreferredTime, sr.Message, sr.IsEmergency, sr.Status,
	).Scan(&sr.ID, &sr.CreatedAt, &sr.UpdatedAt)
}

func (r *ServiceRequestRepository) Update(ctx context.Context, id int, upd model.ServiceRequestUpdate) (*model.ServiceRequest, error) {
	query := `
        UPDATE service_requests
        SET status=$1, notes=$2, assigned_technician=$3, scheduled_date=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING ` + serviceRequestColumns

	var sr model.ServiceRequest
	row := r.DB.QueryRowContext(ctx, query, upd.Status, upd.Notes, upd.AssignedTechnician, upd.ScheduledDate, id)
	if err := scanServiceRequest(row, &sr); err != nil {
		return nil, notFound(err, "Service request", id)
	}
	return &sr, nil
}

func (r *ServiceRequestRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Service request", id, `DELETE FROM service_requests WHERE id = $1`, id)
}
