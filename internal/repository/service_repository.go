package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/unclebandit/hvac-backend/internal/model"
)

// ServiceRepositoryInterface covers the service catalogue (offerings, not Go services).
type ServiceRepositoryInterface interface {
	List(ctx context.Context, activeOnly bool) ([]model.Service, error)
	GetByID(ctx context.Context, id int) (*model.Service, error)
	Create(ctx context.Context, s *model.Service) error
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id int) error
}

type ServiceRepository struct {
	DB *sql.DB
}

const serviceColumns = `id, name, description, price, duration, category, features, image_url, is_active, sort_order, created_at, updated_at`

func scanService(row rowScanner, s *model.Service) error {
	return row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Duration, &s.Category, pq.Array(&s.Features),
		&s.ImageURL, &s.IsActive, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
}

func (r *ServiceRepository) List(ctx context.Context, activeOnly bool) ([]model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []model.Service{}
	for rows.Next() {
		var s model.Service
		if err := scanService(rows, &s); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int) (*model.Service, error) {
	var s model.Service
	if err := scanService(r.DB.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id), &s); err != nil {
		return nil, notFound(err, "Service", id)
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *model.Service) error {
	query := `
        INSERT INTO services (name, description, price, duration, category, features, image_url, is_active, sort_order)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at
    `
	return r.DB.QueryRowContext(ctx, query,
		s.Name, s.Description, s.Price, s.Duration, s.Category, pq.Array(nonNil(s.Features)), s.ImageURL, s.IsActive, s.SortOrder,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *ServiceRepository) Update(ctx context.Context, s *model.Service) error {
	query := `
        UPDATE services
        SET name=$1, description=$2, price=$3, duration=$4, category=$5, features=$6, image_url=$7,
            is_active=$8, sort_order=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		s.Name, s.Description, s.Price, s.Duration, s.Category, pq.Array(nonNil(s.Features)), s.ImageURL, s.IsActive, s.SortOrder, s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return notFound(err, "Service", s.ID)
}

func (r *ServiceRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Service", id, `DELETE FROM services WHERE id = $1`, id)
}
