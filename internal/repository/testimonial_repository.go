package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/hvac-backend/internal/model"
)

type TestimonialRepositoryInterface interface {
	List(ctx context.Context, approvedOnly bool, page model.PageRequest) ([]model.Testimonial, int, error)
	GetByID(ctx context.Context, id int) (*model.Testimonial, error)
	Create(ctx context.Context, t *model.Testimonial) error
	Update(ctx context.Context, t *model.Testimonial) error
	SetApproved(ctx context.Context, id int, approved bool) (*model.Testimonial, error)
	Delete(ctx context.Context, id int) error
}

type TestimonialRepository struct {
	DB *sql.DB
}

const testimonialColumns = `id, customer_name, location, rating, content, service_type, is_approved, created_at, updated_at`

func scanTestimonial(row rowScanner, t *model.Testimonial) error {
	return row.Scan(&t.ID, &t.CustomerName, &t.Location, &t.Rating, &t.Content, &t.ServiceType, &t.IsApproved, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TestimonialRepository) List(ctx context.Context, approvedOnly bool, page model.PageRequest) ([]model.Testimonial, int, error) {
	w := newWhere()
	if approvedOnly {
		w.add("is_approved = TRUE")
	}

	limit, args := w.page(page.Limit, page.Offset())
	rows, err := r.DB.QueryContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials`+w.sql+` ORDER BY created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []model.Testimonial{}
	for rows.Next() {
		var t model.Testimonial
		if err := scanTestimonial(rows, &t); err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "testimonials")
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *TestimonialRepository) GetByID(ctx context.Context, id int) (*model.Testimonial, error) {
	var t model.Testimonial
	if err := scanTestimonial(r.DB.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id), &t); err != nil {
		return nil, notFound(err, "Testimonial", id)
	}
	return &t, nil
}

func (r *TestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	query := `
        INSERT INTO testimonials (customer_name, location, rating, content, service_type, is_approved)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	return r.DB.QueryRowContext(ctx, query, t.CustomerName, t.Location, t.Rating, t.Content, t.ServiceType, t.IsApproved).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TestimonialRepository) Update(ctx context.Context, t *model.Testimonial) error {
	query := `
        UPDATE testimonials
        SET customer_name=$1, location=$2, rating=$3, content=$4, service_type=$5, is_approved=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query, t.CustomerName, t.Location, t.Rating, t.Content, t.ServiceType, t.IsApproved, t.ID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	return notFound(err, "Testimonial", t.ID)
}

func (r *TestimonialRepository) SetApproved(ctx context.Context, id int, approved bool) (*model.Testimonial, error) {
	var t model.Testimonial
	row := r.DB.QueryRowContext(ctx,
		`UPDATE testimonials SET is_approved=$1, updated_at=NOW() WHERE id=$2 RETURNING `+testimonialColumns, approved, id)
	if err := scanTestimonial(row, &t); err != nil {
		return nil, notFound(err, "Testimonial", id)
	}
	return &t, nil
}

func (r *TestimonialRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Testimonial", id, `DELETE FROM testimonials WHERE id = $1`, id)
}
