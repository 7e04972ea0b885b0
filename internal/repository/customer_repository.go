package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/hvac-backend/internal/model"
)

// CustomerRepositoryInterface defines methods used by services and controllers
type CustomerRepositoryInterface interface {
	List(ctx context.Context, search string, page model.PageRequest) ([]model.Customer, int, error)
	GetByID(ctx context.Context, id int) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id int) error
	DueForMaintenance(ctx context.Context) ([]model.DueCustomer, error)
	ServiceHistory(ctx context.Context, customerID int) ([]model.ServiceHistory, error)
	AddServiceHistory(ctx context.Context, h *model.ServiceHistory) error
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `c.id, c.first_name, c.last_name, c.email, c.phone, c.address, c.city, c.state, c.zip_code, c.notes, c.created_at, c.updated_at`

func scanCustomer(row rowScanner, c *model.Customer, extra ...interface{}) error {
	dest := []interface{}{&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.ZipCode, &c.Notes, &c.CreatedAt, &c.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

// List returns a page of customers, newest first, each with its service count.
func (r *CustomerRepository) List(ctx context.Context, search string, page model.PageRequest) ([]model.Customer, int, error) {
	w := newWhere()
	if search != "" {
		p := likePattern(search)
		w.add("(c.first_name ILIKE ? OR c.last_name ILIKE ? OR c.email ILIKE ? OR c.phone ILIKE ?)", p, p, p, p)
	}

	limit, args := w.page(page.Limit, page.Offset())
	query := `SELECT ` + customerColumns + `,
            (SELECT COUNT(*) FROM service_history sh WHERE sh.customer_id = c.id) AS service_count
        FROM customers c` + w.sql + ` ORDER BY c.created_at DESC` + limit

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		var count int
		if err := scanCustomer(rows, &c, &count); err != nil {
			return nil, 0, err
		}
		c.ServiceCount = &count
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "customers c")
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	var c model.Customer
	row := r.DB.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers c WHERE c.id = $1`, id)
	if err := scanCustomer(row, &c); err != nil {
		return nil, notFound(err, "Customer", id)
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (first_name, last_name, email, phone, address, city, state, zip_code, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at
    `
	return r.DB.QueryRowContext(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.City, c.State, c.ZipCode, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET first_name=$1, last_name=$2, email=$3, phone=$4, address=$5, city=$6, state=$7, zip_code=$8, notes=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.City, c.State, c.ZipCode, c.Notes, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return notFound(err, "Customer", c.ID)
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Customer", id, `DELETE FROM customers WHERE id = $1`, id)
}

// DueForMaintenance lists customers with equipment past its maintenance date
// or whose last service is a year old or more.
func (r *CustomerRepository) DueForMaintenance(ctx context.Context) ([]model.DueCustomer, error) {
	query := `
        SELECT ` + customerColumns + `,
            MAX(sh.service_date) AS last_service_date,
            MIN(e.maintenance_due) AS earliest_due,
            COALESCE(STRING_AGG(DISTINCT e.type, ', '), '') AS equipment_types
        FROM customers c
        INNER JOIN equipment e ON e.customer_id = c.id
        LEFT JOIN service_history sh ON sh.customer_id = c.id
        GROUP BY c.id
        HAVING BOOL_OR(e.maintenance_due <= NOW())
            OR MAX(sh.service_date) <= NOW() - INTERVAL '365 days'
        ORDER BY last_service_date ASC NULLS FIRST
    `
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := []model.DueCustomer{}
	for rows.Next() {
		var d model.DueCustomer
		if err := scanCustomer(rows, &d.Customer, &d.LastServiceDate, &d.EarliestDueDate, &d.EquipmentTypes); err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

// ====================== Service history ======================

func (r *CustomerRepository) ServiceHistory(ctx context.Context, customerID int) ([]model.ServiceHistory, error) {
	query := `
        SELECT sh.id, sh.customer_id, sh.service_id, s.name, sh.service_date, sh.technician, sh.notes, sh.cost, sh.created_at
        FROM service_history sh
        LEFT JOIN services s ON s.id = sh.service_id
        WHERE sh.customer_id = $1
        ORDER BY sh.service_date DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []model.ServiceHistory{}
	for rows.Next() {
		var h model.ServiceHistory
		if err := rows.Scan(&h.ID, &h.CustomerID, &h.ServiceID, &h.ServiceName, &h.ServiceDate, &h.Technician, &h.Notes, &h.Cost, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *CustomerRepository) AddServiceHistory(ctx context.Context, h *model.ServiceHistory) error {
	query := `
        INSERT INTO service_history (customer_id, service_id, service_date, technician, notes, cost)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	return r.DB.QueryRowContext(ctx, query, h.CustomerID, h.ServiceID, h.ServiceDate, h.Technician, h.Notes, h.Cost).
		Scan(&h.ID, &h.CreatedAt)
}
