package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/hvac-backend/internal/db"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
)

type InvoiceRepositoryInterface interface {
	List(ctx context.Context, status string, page model.PageRequest) ([]model.Invoice, int, error)
	GetByID(ctx context.Context, id int) (*model.Invoice, error)
	Items(ctx context.Context, invoiceID int) ([]model.InvoiceItem, error)
	Payments(ctx context.Context, invoiceID int) ([]model.Payment, error)
	Create(ctx context.Context, inv *model.Invoice, items []model.LineItem) error
	Update(ctx context.Context, inv *model.Invoice, items []model.LineItem) error
	MarkSent(ctx context.Context, id int) (*model.Invoice, error)
	AddPayment(ctx context.Context, p *model.Payment) (*model.Invoice, error)
	Delete(ctx context.Context, id int) error
}

type InvoiceRepository struct {
	DB *sql.DB
}

const invoiceColumns = `i.id, i.invoice_number, i.customer_id, i.job_id, i.estimate_id, i.status, i.issue_date, i.due_date,
        i.subtotal, i.tax_rate, i.tax_amount, i.discount, i.discount_type, i.discount_amount, i.total, i.amount_paid,
        i.balance_due, i.notes, i.terms, i.sent_at, i.paid_at, i.created_at, i.updated_at`

const invoiceCustomerColumns = `, c.first_name || ' ' || c.last_name, c.email`

const invoiceFrom = ` FROM invoices i INNER JOIN customers c ON c.id = i.customer_id`

func scanInvoice(row rowScanner, inv *model.Invoice) error {
	return row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.JobID, &inv.EstimateID, &inv.Status, &inv.IssueDate,
		&inv.DueDate, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Discount, &inv.DiscountType, &inv.DiscountAmount,
		&inv.Total, &inv.AmountPaid, &inv.BalanceDue, &inv.Notes, &inv.Terms, &inv.SentAt, &inv.PaidAt, &inv.CreatedAt,
		&inv.UpdatedAt, &inv.CustomerName, &inv.CustomerEmail)
}

func (r *InvoiceRepository) List(ctx context.Context, status string, page model.PageRequest) ([]model.Invoice, int, error) {
	w := newWhere()
	if status != "" {
		w.add("i.status = ?", status)
	}

	limit, args := w.page(page.Limit, page.Offset())
	query := `SELECT ` + invoiceColumns + invoiceCustomerColumns + invoiceFrom + w.sql + ` ORDER BY i.issue_date DESC, i.id DESC` + limit

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invoices := []model.Invoice{}
	for rows.Next() {
		var inv model.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "invoices i")
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int) (*model.Invoice, error) {
	return getInvoice(ctx, r.DB, id)
}

func getInvoice(ctx context.Context, q DBTX, id int) (*model.Invoice, error) {
	var inv model.Invoice
	row := q.QueryRowContext(ctx, `SELECT `+invoiceColumns+invoiceCustomerColumns+invoiceFrom+` WHERE i.id = $1`, id)
	if err := scanInvoice(row, &inv); err != nil {
		return nil, notFound(err, "Invoice", id)
	}
	return &inv, nil
}

func (r *InvoiceRepository) Items(ctx context.Context, invoiceID int) ([]model.InvoiceItem, error) {
	items := []model.InvoiceItem{}
	err := queryLineItems(ctx, r.DB, "invoice_items", "invoice_id", invoiceID, func(id int, li model.LineItem) {
		items = append(items, model.InvoiceItem{ID: id, InvoiceID: invoiceID, LineItem: li})
	})
	return items, err
}

func (r *InvoiceRepository) Payments(ctx context.Context, invoiceID int) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, payment_number, invoice_id, customer_id, amount, payment_method, payment_date, reference_number,
            status, notes, created_at
        FROM payments WHERE invoice_id = $1 ORDER BY payment_date, id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.PaymentNumber, &p.InvoiceID, &p.CustomerID, &p.Amount, &p.PaymentMethod, &p.PaymentDate,
			&p.ReferenceNumber, &p.Status, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func invoiceItems(invoiceID int, ids []int, items []model.LineItem) []model.InvoiceItem {
	out := make([]model.InvoiceItem, len(items))
	for i := range items {
		items[i].SortOrder = i
		out[i] = model.InvoiceItem{ID: ids[i], InvoiceID: invoiceID, LineItem: items[i]}
	}
	return out
}

// Create stores the invoice with its items. Totals must already be applied.
func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice, items []model.LineItem) error {
	if inv.Status == "" {
		inv.Status = model.InvoiceDraft
	}
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
            INSERT INTO invoices (invoice_number, customer_id, job_id, estimate_id, status, issue_date, due_date, subtotal,
                tax_rate, tax_amount, discount, discount_type, discount_amount, total, amount_paid, balance_due, notes, terms)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
            RETURNING id, created_at, updated_at
        `
		err := tx.QueryRowContext(ctx, query,
			inv.InvoiceNumber, inv.CustomerID, inv.JobID, inv.EstimateID, inv.Status, inv.IssueDate, inv.DueDate, inv.Subtotal,
			inv.TaxRate, inv.TaxAmount, inv.Discount, inv.DiscountType, inv.DiscountAmount, inv.Total, inv.AmountPaid,
			inv.BalanceDue, inv.Notes, inv.Terms,
		).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return err
		}

		ids, err := replaceLineItems(ctx, tx, "invoice_items", "invoice_id", inv.ID, items)
		if err != nil {
			return err
		}
		inv.Items = invoiceItems(inv.ID, ids, items)
		return nil
	})
}

// Update rewrites the invoice and its items. Payments already recorded are
// kept, so the balance is recomputed against the stored amount_paid and an
// invoice with payments stays partial or paid. An empty status keeps the
// stored one.
func (r *InvoiceRepository) Update(ctx context.Context, inv *model.Invoice, items []model.LineItem) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
            UPDATE invoices
            SET customer_id=$1, job_id=$2, issue_date=$4, due_date=$5, subtotal=$6, tax_rate=$7, tax_amount=$8,
                discount=$9, discount_type=$10, discount_amount=$11, total=$12, balance_due = $12 - amount_paid,
                notes=$13, terms=$14, updated_at=NOW(),
                status = CASE
                    WHEN COALESCE(NULLIF($3, ''), status) = 'void' THEN 'void'
                    WHEN amount_paid > 0 AND $12 - amount_paid <= 0 THEN 'paid'
                    WHEN amount_paid > 0 THEN 'partial'
                    ELSE COALESCE(NULLIF($3, ''), status)
                END
            WHERE id=$15
            RETURNING invoice_number, estimate_id, status, amount_paid, balance_due, sent_at, paid_at, created_at, updated_at
        `
		err := tx.QueryRowContext(ctx, query,
			inv.CustomerID, inv.JobID, inv.Status, inv.IssueDate, inv.DueDate, inv.Subtotal, inv.TaxRate, inv.TaxAmount,
			inv.Discount, inv.DiscountType, inv.DiscountAmount, inv.Total, inv.Notes, inv.Terms, inv.ID,
		).Scan(&inv.InvoiceNumber, &inv.EstimateID, &inv.Status, &inv.AmountPaid, &inv.BalanceDue, &inv.SentAt,
			&inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return notFound(err, "Invoice", inv.ID)
		}

		ids, err := replaceLineItems(ctx, tx, "invoice_items", "invoice_id", inv.ID, items)
		if err != nil {
			return err
		}
		inv.Items = invoiceItems(inv.ID, ids, items)
		return nil
	})
}

func (r *InvoiceRepository) MarkSent(ctx context.Context, id int) (*model.Invoice, error) {
	err := execAffecting(ctx, r.DB, "Invoice", id, `
        UPDATE invoices SET status = CASE WHEN status = 'draft' THEN 'sent' ELSE status END,
            sent_at = NOW(), updated_at = NOW()
        WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// AddPayment records p against its invoice and rolls the invoice balance
// forward under a row lock. Paying more than the balance due is rejected.
func (r *InvoiceRepository) AddPayment(ctx context.Context, p *model.Payment) (*model.Invoice, error) {
	var inv *model.Invoice
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var balance float64
		err := tx.QueryRowContext(ctx, `SELECT customer_id, balance_due FROM invoices WHERE id = $1 FOR UPDATE`, p.InvoiceID).
			Scan(&p.CustomerID, &balance)
		if err != nil {
			return notFound(err, "Invoice", p.InvoiceID)
		}
		if model.RoundMoney(p.Amount) > model.RoundMoney(balance) {
			return appErrors.NewConflict("Payment amount %.2f exceeds balance due %.2f", p.Amount, balance)
		}

		if p.Status == "" {
			p.Status = model.PaymentCompleted
		}
		err = tx.QueryRowContext(ctx, `
            INSERT INTO payments (payment_number, invoice_id, customer_id, amount, payment_method, payment_date,
                reference_number, status, notes)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING id, created_at`,
			p.PaymentNumber, p.InvoiceID, p.CustomerID, p.Amount, p.PaymentMethod, p.PaymentDate,
			p.ReferenceNumber, p.Status, p.Notes,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
            UPDATE invoices
            SET amount_paid = amount_paid + $1,
                balance_due = total - (amount_paid + $1),
                status = CASE WHEN total - (amount_paid + $1) <= 0 THEN 'paid' ELSE 'partial' END,
                paid_at = CASE WHEN total - (amount_paid + $1) <= 0 THEN NOW() ELSE paid_at END,
                updated_at = NOW()
            WHERE id = $2`, p.Amount, p.InvoiceID)
		if err != nil {
			return err
		}

		inv, err = getInvoice(ctx, tx, p.InvoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Invoice", id, `DELETE FROM invoices WHERE id = $1`, id)
}
