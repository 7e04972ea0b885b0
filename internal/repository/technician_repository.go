package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/unclebandit/hvac-backend/internal/model"
)

type TechnicianRepositoryInterface interface {
	List(ctx context.Context, status string, page model.PageRequest) ([]model.Technician, int, error)
	GetByID(ctx context.Context, id int) (*model.Technician, error)
	Create(ctx context.Context, t *model.Technician) error
	Update(ctx context.Context, t *model.Technician) error
	Delete(ctx context.Context, id int) error
}

type TechnicianRepository struct {
	DB *sql.DB
}

const technicianColumns = `id, user_id, first_name, last_name, email, phone, employee_id, hire_date, hourly_rate,
        certifications, skills, status, color, created_at, updated_at`

func scanTechnician(row rowScanner, t *model.Technician) error {
	return row.Scan(&t.ID, &t.UserID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.EmployeeID, &t.HireDate, &t.HourlyRate,
		pq.Array(&t.Certifications), pq.Array(&t.Skills), &t.Status, &t.Color, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TechnicianRepository) List(ctx context.Context, status string, page model.PageRequest) ([]model.Technician, int, error) {
	w := newWhere()
	if status != "" {
		w.add("status = ?", status)
	}

	limit, args := w.page(page.Limit, page.Offset())
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+technicianColumns+` FROM technicians`+w.sql+` ORDER BY last_name ASC, first_name ASC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	techs := []model.Technician{}
	for rows.Next() {
		var t model.Technician
		if err := scanTechnician(rows, &t); err != nil {
			return nil, 0, err
		}
		techs = append(techs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "technicians")
	if err != nil {
		return nil, 0, err
	}
	return techs, total, nil
}

func (r *TechnicianRepository) GetByID(ctx context.Context, id int) (*model.Technician, error) {
	var t model.Technician
	if err := scanTechnician(r.DB.QueryRowContext(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id = $1`, id), &t); err != nil {
		return nil, notFound(err, "Technician", id)
	}
	return &t, nil
}

func (r *TechnicianRepository) Create(ctx context.Context, t *model.Technician) error {
	if t.Status == "" {
		t.Status = model.TechnicianActive
	}
	query := `
        INSERT INTO technicians (user_id, first_name, last_name, email, phone, employee_id, hire_date, hourly_rate,
            certifications, skills, status, color)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at, updated_at
    `
	return r.DB.QueryRowContext(ctx, query,
		t.UserID, t.FirstName, t.LastName, t.Email, t.Phone, t.EmployeeID, t.HireDate, t.HourlyRate,
		pq.Array(nonNil(t.Certifications)), pq.Array(nonNil(t.Skills)), t.Status, t.Color,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TechnicianRepository) Update(ctx context.Context, t *model.Technician) error {
	query := `
        UPDATE technicians
        SET user_id=$1, first_name=$2, last_name=$3, email=$4, phone=$5, employee_id=$6, hire_date=$7, hourly_rate=$8,
            certifications=$9, skills=$10, status=$11, color=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		t.UserID, t.FirstName, t.LastName, t.Email, t.Phone, t.EmployeeID, t.HireDate, t.HourlyRate,
		pq.Array(nonNil(t.Certifications)), pq.Array(nonNil(t.Skills)), t.Status, t.Color, t.ID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return notFound(err, "Technician", t.ID)
}

func (r *TechnicianRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Technician", id, `DELETE FROM technicians WHERE id = $1`, id)
}

// nonNil keeps TEXT[] NOT NULL columns from receiving a SQL NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
