package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/hvac-backend/internal/db"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
)

type EstimateRepositoryInterface interface {
	List(ctx context.Context, status string, page model.PageRequest) ([]model.Estimate, int, error)
	GetByID(ctx context.Context, id int) (*model.Estimate, error)
	Items(ctx context.Context, estimateID int) ([]model.EstimateItem, error)
	Create(ctx context.Context, e *model.Estimate, items []model.LineItem) error
	Update(ctx context.Context, e *model.Estimate, items []model.LineItem) error
	MarkSent(ctx context.Context, id int) (*model.Estimate, error)
	Convert(ctx context.Context, estimateID int, job *model.Job) error
	Delete(ctx context.Context, id int) error
}

type EstimateRepository struct {
	DB *sql.DB
}

const estimateColumns = `e.id, e.estimate_number, e.customer_id, e.job_id, e.title, e.description, e.status, e.subtotal,
        e.tax_rate, e.tax_amount, e.discount, e.discount_type, e.discount_amount, e.total, e.valid_until, e.notes,
        e.terms, e.sent_at, e.approved_at, e.created_at, e.updated_at`

const estimateFrom = ` FROM estimates e INNER JOIN customers c ON c.id = e.customer_id`

func scanEstimate(row rowScanner, e *model.Estimate, extra ...interface{}) error {
	dest := []interface{}{&e.ID, &e.EstimateNumber, &e.CustomerID, &e.JobID, &e.Title, &e.Description, &e.Status, &e.Subtotal,
		&e.TaxRate, &e.TaxAmount, &e.Discount, &e.DiscountType, &e.DiscountAmount, &e.Total, &e.ValidUntil, &e.Notes,
		&e.Terms, &e.SentAt, &e.ApprovedAt, &e.CreatedAt, &e.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

func (r *EstimateRepository) List(ctx context.Context, status string, page model.PageRequest) ([]model.Estimate, int, error) {
	w := newWhere()
	if status != "" {
		w.add("e.status = ?", status)
	}

	limit, args := w.page(page.Limit, page.Offset())
	query := `SELECT ` + estimateColumns + `, c.first_name || ' ' || c.last_name, c.email` + estimateFrom + w.sql +
		` ORDER BY e.created_at DESC` + limit

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	estimates := []model.Estimate{}
	for rows.Next() {
		var e model.Estimate
		if err := scanEstimate(rows, &e, &e.CustomerName, &e.CustomerEmail); err != nil {
			return nil, 0, err
		}
		estimates = append(estimates, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "estimates e")
	if err != nil {
		return nil, 0, err
	}
	return estimates, total, nil
}

func (r *EstimateRepository) GetByID(ctx context.Context, id int) (*model.Estimate, error) {
	var e model.Estimate
	row := r.DB.QueryRowContext(ctx, `SELECT `+estimateColumns+`, c.first_name || ' ' || c.last_name, c.email`+
		estimateFrom+` WHERE e.id = $1`, id)
	if err := scanEstimate(row, &e, &e.CustomerName, &e.CustomerEmail); err != nil {
		return nil, notFound(err, "Estimate", id)
	}
	return &e, nil
}

func (r *EstimateRepository) Items(ctx context.Context, estimateID int) ([]model.EstimateItem, error) {
	items := []model.EstimateItem{}
	err := queryLineItems(ctx, r.DB, "estimate_items", "estimate_id", estimateID, func(id int, li model.LineItem) {
		items = append(items, model.EstimateItem{ID: id, EstimateID: estimateID, LineItem: li})
	})
	return items, err
}

func estimateItems(estimateID int, ids []int, items []model.LineItem) []model.EstimateItem {
	out := make([]model.EstimateItem, len(items))
	for i := range items {
		items[i].SortOrder = i
		out[i] = model.EstimateItem{ID: ids[i], EstimateID: estimateID, LineItem: items[i]}
	}
	return out
}

// Create stores the estimate with its items. Totals must already be applied.
func (r *EstimateRepository) Create(ctx context.Context, e *model.Estimate, items []model.LineItem) error {
	if e.Status == "" {
		e.Status = model.EstimateDraft
	}
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
            INSERT INTO estimates (estimate_number, customer_id, job_id, title, description, status, subtotal, tax_rate,
                tax_amount, discount, discount_type, discount_amount, total, valid_until, notes, terms)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
            RETURNING id, created_at, updated_at
        `
		err := tx.QueryRowContext(ctx, query,
			e.EstimateNumber, e.CustomerID, e.JobID, e.Title, e.Description, e.Status, e.Subtotal, e.TaxRate,
			e.TaxAmount, e.Discount, e.DiscountType, e.DiscountAmount, e.Total, e.ValidUntil, e.Notes, e.Terms,
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return err
		}

		ids, err := replaceLineItems(ctx, tx, "estimate_items", "estimate_id", e.ID, items)
		if err != nil {
			return err
		}
		e.Items = estimateItems(e.ID, ids, items)
		return nil
	})
}

// Update rewrites the estimate and replaces its items. An empty status keeps
// the stored one.
func (r *EstimateRepository) Update(ctx context.Context, e *model.Estimate, items []model.LineItem) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
            UPDATE estimates
            SET customer_id=$1, job_id=$2, title=$3, description=$4, status=COALESCE(NULLIF($5, ''), status), subtotal=$6, tax_rate=$7, tax_amount=$8,
                discount=$9, discount_type=$10, discount_amount=$11, total=$12, valid_until=$13, notes=$14, terms=$15,
                updated_at=NOW()
            WHERE id=$16
            RETURNING estimate_number, status, sent_at, approved_at, created_at, updated_at
        `
		err := tx.QueryRowContext(ctx, query,
			e.CustomerID, e.JobID, e.Title, e.Description, e.Status, e.Subtotal, e.TaxRate, e.TaxAmount,
			e.Discount, e.DiscountType, e.DiscountAmount, e.Total, e.ValidUntil, e.Notes, e.Terms, e.ID,
		).Scan(&e.EstimateNumber, &e.Status, &e.SentAt, &e.ApprovedAt, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return notFound(err, "Estimate", e.ID)
		}

		ids, err := replaceLineItems(ctx, tx, "estimate_items", "estimate_id", e.ID, items)
		if err != nil {
			return err
		}
		e.Items = estimateItems(e.ID, ids, items)
		return nil
	})
}

func (r *EstimateRepository) MarkSent(ctx context.Context, id int) (*model.Estimate, error) {
	var e model.Estimate
	row := r.DB.QueryRowContext(ctx, `
        UPDATE estimates e SET status = 'sent', sent_at = NOW(), updated_at = NOW()
        FROM customers c
        WHERE e.id = $1 AND c.id = e.customer_id
        RETURNING `+estimateColumns+`, c.first_name || ' ' || c.last_name, c.email`, id)
	if err := scanEstimate(row, &e, &e.CustomerName, &e.CustomerEmail); err != nil {
		return nil, notFound(err, "Estimate", id)
	}
	return &e, nil
}

// Convert creates job for the estimate and marks the estimate approved,
// linking the two, in one transaction. The estimate row is locked first so
// concurrent conversions of one estimate produce a single job.
func (r *EstimateRepository) Convert(ctx context.Context, estimateID int, job *model.Job) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var number string
		var linked *int
		err := tx.QueryRowContext(ctx, `SELECT estimate_number, job_id FROM estimates WHERE id = $1 FOR UPDATE`, estimateID).
			Scan(&number, &linked)
		if err != nil {
			return notFound(err, "Estimate", estimateID)
		}
		if linked != nil {
			return appErrors.NewConflict("Estimate %s has already been converted", number)
		}

		job.EstimateID = &estimateID
		if err := insertJob(ctx, tx, job); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
            UPDATE estimates SET status = 'approved', approved_at = NOW(), job_id = $1, updated_at = NOW()
            WHERE id = $2 AND job_id IS NULL`, job.ID, estimateID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return appErrors.NewConflict("Estimate %s has already been converted", number)
		}
		return nil
	})
}

func (r *EstimateRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Estimate", id, `DELETE FROM estimates WHERE id = $1`, id)
}
